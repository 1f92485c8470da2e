package section

import (
	"encoding/binary"

	"github.com/ChrisTho23/snputils/errs"
)

// VariantIndex is the trailing random-access index of a .pgen file: one
// absolute byte offset per variant record, in append order, stored as
// little-endian uint64 values.
//
// The index is written after the last variant record when the encoder session
// closes; the header's IndexOffset field points at its first byte.
type VariantIndex struct {
	offsets []uint64
}

// NewVariantIndex creates an index with capacity for the declared variant
// count so appends never reallocate during encoding.
func NewVariantIndex(variantCount int) *VariantIndex {
	return &VariantIndex{
		offsets: make([]uint64, 0, variantCount),
	}
}

// Append records the byte offset of the next variant record.
// Offsets must be appended in record order.
func (ix *VariantIndex) Append(offset uint64) {
	ix.offsets = append(ix.offsets, offset)
}

// Len returns the number of recorded offsets.
func (ix *VariantIndex) Len() int {
	return len(ix.offsets)
}

// Offsets returns the recorded offsets in append order.
func (ix *VariantIndex) Offsets() []uint64 {
	return ix.offsets
}

// Size returns the serialized size of the index in bytes.
func (ix *VariantIndex) Size() int {
	return len(ix.offsets) * IndexEntrySize
}

// Bytes serializes the index into a byte slice.
func (ix *VariantIndex) Bytes() []byte {
	b := make([]byte, ix.Size())
	for i, offset := range ix.offsets {
		binary.LittleEndian.PutUint64(b[i*IndexEntrySize:], offset)
	}

	return b
}

// ParseVariantIndex parses a variant index for the declared variant count.
//
// Parameters:
//   - data: Byte slice containing exactly variantCount index entries
//   - variantCount: Declared variant count from the file header
//
// Returns:
//   - VariantIndex: Parsed index
//   - error: ErrInvalidIndexSize if data is not variantCount*8 bytes
func ParseVariantIndex(data []byte, variantCount int) (*VariantIndex, error) {
	if len(data) != variantCount*IndexEntrySize {
		return nil, errs.ErrInvalidIndexSize
	}

	ix := NewVariantIndex(variantCount)
	for i := 0; i < variantCount; i++ {
		ix.Append(binary.LittleEndian.Uint64(data[i*IndexEntrySize:]))
	}

	return ix, nil
}
