package section

import "math"

// PGEN family magic bytes, shared with PLINK2's .pgen files.
const (
	MagicByte0 = 0x6C
	MagicByte1 = 0x1B
)

// Storage modes (header byte 2). Only the standard variable-record mode is
// produced by this writer.
const (
	ModeStandard = 0x10
)

// Header flag bits (header byte 3).
const (
	FlagPhasePresent = 0x01 // set when variant records carry phase bit blocks
)

// Offsets and section sizes in the .pgen file.
const (
	HeaderSize     = 20 // fixed header size in bytes
	IndexEntrySize = 8  // one uint64 record offset per variant

	headerMagicOffset   = 0  // bytes 0-1: magic
	headerModeOffset    = 2  // byte 2: storage mode
	headerFlagsOffset   = 3  // byte 3: flags
	headerVariantOffset = 4  // bytes 4-7: variant count (uint32 LE)
	headerSampleOffset  = 8  // bytes 8-11: sample count (uint32 LE)
	headerIndexOffset   = 12 // bytes 12-19: variant index offset (uint64 LE)
)

// MaxCount is the largest sample or variant count the format accepts.
// Counts are stored as uint32 on disk but capped at 2^31-1 so they always
// survive conversion through int on 32-bit platforms.
const MaxCount = math.MaxInt32
