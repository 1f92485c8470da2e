package section

import (
	"github.com/ChrisTho23/snputils/errs"
	"github.com/ChrisTho23/snputils/format"
)

// Variant record layout:
//
//	byte 0:   record type (format.RecordType)
//	then:     ceil(sampleCount/4) bytes of packed 2-bit hardcall codes
//	then:     ceil(sampleCount/8) bytes of packed phase bits (phased only)
//
// Both blocks are packed LSB-first: sample i lands in byte i/4 at bit
// (i%4)*2 for hardcalls, and in byte i/8 at bit i%8 for phase bits.

// HardcallSize returns the byte length of the packed 2-bit hardcall block
// for the given sample count.
func HardcallSize(sampleCount int) int {
	return (sampleCount + 3) / 4
}

// PhaseSize returns the byte length of the packed phase bit block for the
// given sample count.
func PhaseSize(sampleCount int) int {
	return (sampleCount + 7) / 8
}

// RecordSize returns the total on-disk size of one variant record, including
// the leading record type byte.
func RecordSize(sampleCount int, phased bool) int {
	size := 1 + HardcallSize(sampleCount)
	if phased {
		size += PhaseSize(sampleCount)
	}

	return size
}

// PackHardcalls packs 2-bit hardcall codes into dst.
//
// dst must be at least HardcallSize(len(codes)) bytes and is zeroed before
// packing. Code values must already be within 0-3; higher bits are discarded.
func PackHardcalls(dst []byte, codes []uint8) {
	n := HardcallSize(len(codes))
	for i := range dst[:n] {
		dst[i] = 0
	}

	for i, code := range codes {
		dst[i>>2] |= (code & 0x3) << ((i & 0x3) << 1)
	}
}

// UnpackHardcalls unpacks count 2-bit hardcall codes from src into a new slice.
func UnpackHardcalls(src []byte, count int) []uint8 {
	codes := make([]uint8, count)
	for i := range codes {
		codes[i] = (src[i>>2] >> ((i & 0x3) << 1)) & 0x3
	}

	return codes
}

// PackBits packs one bit per sample into dst, LSB-first.
//
// dst must be at least PhaseSize(len(bits)) bytes and is zeroed before packing.
func PackBits(dst []byte, bits []bool) {
	n := PhaseSize(len(bits))
	for i := range dst[:n] {
		dst[i] = 0
	}

	for i, bit := range bits {
		if bit {
			dst[i>>3] |= 1 << (i & 0x7)
		}
	}
}

// UnpackBits unpacks count bits from src into a new slice.
func UnpackBits(src []byte, count int) []bool {
	bits := make([]bool, count)
	for i := range bits {
		bits[i] = src[i>>3]>>(i&0x7)&1 == 1
	}

	return bits
}

// VariantRecord is the in-memory form of one decoded variant record.
// It is produced by ParseVariantRecord and used to verify encoder output.
type VariantRecord struct {
	// Type is the record type byte.
	Type format.RecordType
	// Codes holds one 2-bit hardcall code (0-3) per sample.
	Codes []uint8
	// PhaseBits holds one phase bit per sample. Nil for unphased records.
	PhaseBits []bool
}

// ParseVariantRecord parses one variant record from the start of data.
//
// Parameters:
//   - data: Byte slice starting at the record type byte
//   - sampleCount: Declared sample count from the file header
//
// Returns:
//   - VariantRecord: Decoded record
//   - int: Total bytes consumed
//   - error: ErrInvalidRecordSize or ErrInvalidRecordType
func ParseVariantRecord(data []byte, sampleCount int) (VariantRecord, int, error) {
	if len(data) < 1 {
		return VariantRecord{}, 0, errs.ErrInvalidRecordSize
	}

	recType := format.RecordType(data[0])
	switch recType {
	case format.RecordHardcall, format.RecordHardcallPhased:
	default:
		return VariantRecord{}, 0, errs.ErrInvalidRecordType
	}

	size := RecordSize(sampleCount, recType.Phased())
	if len(data) < size {
		return VariantRecord{}, 0, errs.ErrInvalidRecordSize
	}

	rec := VariantRecord{
		Type:  recType,
		Codes: UnpackHardcalls(data[1:], sampleCount),
	}
	if recType.Phased() {
		rec.PhaseBits = UnpackBits(data[1+HardcallSize(sampleCount):], sampleCount)
	}

	return rec, size, nil
}
