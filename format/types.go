package format

type (
	RecordType      uint8
	CompressionType uint8
)

const (
	// RecordHardcall is a packed 2-bit hardcall record with no phase block.
	RecordHardcall RecordType = 0x00
	// RecordHardcallPhased is a packed 2-bit hardcall record followed by a
	// phase bit block. The value mirrors the PGEN vrtype phase-present bit.
	RecordHardcallPhased RecordType = 0x10

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
)

func (r RecordType) String() string {
	switch r {
	case RecordHardcall:
		return "Hardcall"
	case RecordHardcallPhased:
		return "HardcallPhased"
	default:
		return "Unknown"
	}
}

// Phased reports whether the record type carries a phase bit block.
func (r RecordType) Phased() bool {
	return r == RecordHardcallPhased
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}
