package compress

// ZstdCompressor produces standard Zstandard frames for the .pvar.zst variant
// sidecar. Any zstd-aware reader (including PLINK2 itself) can decompress the
// output.
//
// Two backends are provided: a pure-Go implementation (klauspost/compress)
// used when cgo is disabled, and a libzstd binding (valyala/gozstd) used when
// cgo is available. Both emit interchangeable frames.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
