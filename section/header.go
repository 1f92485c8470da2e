package section

import (
	"encoding/binary"

	"github.com/ChrisTho23/snputils/errs"
)

// FileHeader represents the fixed-size header at the start of a .pgen file.
//
// The header is written once when the encoder session opens. IndexOffset is
// zero at that point and is backpatched when the session closes and the
// trailing variant index has been written. All integer fields are
// little-endian on disk.
type FileHeader struct {
	// VariantCount is the number of variant records in the file.
	VariantCount uint32 // byte offset 4-7
	// SampleCount is the number of samples per variant record.
	SampleCount uint32 // byte offset 8-11
	// IndexOffset is the byte offset of the trailing variant index.
	// Zero means the file was never finalized and must be treated as invalid.
	IndexOffset uint64 // byte offset 12-19
	// Mode is the storage mode byte. Always ModeStandard for this writer.
	Mode byte // byte offset 2
	// PhasePresent is true when variant records carry phase bit blocks.
	PhasePresent bool // byte offset 3, bit 0
}

// NewFileHeader creates a header for a new encoder session.
// IndexOffset will be set when the encoder finishes.
func NewFileHeader(sampleCount, variantCount uint32, phased bool) *FileHeader {
	return &FileHeader{
		VariantCount: variantCount,
		SampleCount:  sampleCount,
		IndexOffset:  0, // backpatched on Close
		Mode:         ModeStandard,
		PhasePresent: phased,
	}
}

// Bytes serializes the FileHeader into a 20-byte slice.
func (h *FileHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)

	b[headerMagicOffset] = MagicByte0
	b[headerMagicOffset+1] = MagicByte1
	b[headerModeOffset] = h.Mode
	if h.PhasePresent {
		b[headerFlagsOffset] |= FlagPhasePresent
	}
	binary.LittleEndian.PutUint32(b[headerVariantOffset:headerVariantOffset+4], h.VariantCount)
	binary.LittleEndian.PutUint32(b[headerSampleOffset:headerSampleOffset+4], h.SampleCount)
	binary.LittleEndian.PutUint64(b[headerIndexOffset:headerIndexOffset+8], h.IndexOffset)

	return b
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 20 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber or ErrInvalidStorageMode
func (h *FileHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	if data[headerMagicOffset] != MagicByte0 || data[headerMagicOffset+1] != MagicByte1 {
		return errs.ErrInvalidMagicNumber
	}

	h.Mode = data[headerModeOffset]
	if h.Mode != ModeStandard {
		return errs.ErrInvalidStorageMode
	}

	h.PhasePresent = data[headerFlagsOffset]&FlagPhasePresent != 0
	h.VariantCount = binary.LittleEndian.Uint32(data[headerVariantOffset : headerVariantOffset+4])
	h.SampleCount = binary.LittleEndian.Uint32(data[headerSampleOffset : headerSampleOffset+4])
	h.IndexOffset = binary.LittleEndian.Uint64(data[headerIndexOffset : headerIndexOffset+8])

	return nil
}

// ParseFileHeader parses a FileHeader from the start of a byte slice.
//
// Parameters:
//   - data: Byte slice containing at least the 20 header bytes
//
// Returns:
//   - FileHeader: Parsed header struct
//   - error: ErrInvalidHeaderSize or magic/mode validation errors
func ParseFileHeader(data []byte) (FileHeader, error) {
	if len(data) < HeaderSize {
		return FileHeader{}, errs.ErrInvalidHeaderSize
	}

	h := FileHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return FileHeader{}, err
	}

	return h, nil
}
