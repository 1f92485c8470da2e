package snputils

import (
	"fmt"
	"os"
	"strings"

	"github.com/ChrisTho23/snputils/compress"
	"github.com/ChrisTho23/snputils/errs"
	"github.com/ChrisTho23/snputils/format"
	"github.com/ChrisTho23/snputils/internal/pool"
	"github.com/ChrisTho23/snputils/pgen"
	"github.com/ChrisTho23/snputils/sidecar"
)

// Observer receives file-level progress events from a FileSetWriter. It
// replaces the module-level logger of earlier writers: callers that want
// "Writing to x.pvar"-style reporting inject one, everyone else gets the
// no-op default.
type Observer interface {
	// WritingFile is called before a file is created.
	WritingFile(path string)
	// FileWritten is called after a file has been fully written and closed.
	FileWritten(path string, size int64)
}

type nopObserver struct{}

func (nopObserver) WritingFile(string)        {}
func (nopObserver) FileWritten(string, int64) {}

// Dataset bundles the three inputs of one PGEN file set. Row and column
// order is the cross-file invariant: Variants[i] describes the i-th genotype
// row, Samples[j] names the j-th call of every row.
type Dataset struct {
	// Variants is the .pvar table, one row per genotype matrix row.
	Variants []sidecar.Variant
	// Samples is the .psam identifier list, one per genotype matrix column.
	Samples []string
	// Genotypes is the validated genotype matrix.
	Genotypes *pgen.GenotypeMatrix
}

// Paths holds the derived output paths of one file set.
type Paths struct {
	PGen string
	PVar string
	PSam string
}

// knownSuffixes are stripped from a caller-supplied base path before the
// canonical suffixes are appended. ".zst" is listed separately so that
// "x.pvar.zst" reduces to "x" in two rounds.
var knownSuffixes = []string{".pgen", ".psam", ".pvar", ".zst"}

// stripBase removes known suffixes from base until none remains, so deriving
// from "x", "x.pgen" and "x.pvar.zst" all yield the same base.
func stripBase(base string) string {
	for {
		stripped := base
		for _, suffix := range knownSuffixes {
			if strings.HasSuffix(stripped, suffix) {
				stripped = strings.TrimSuffix(stripped, suffix)
				break
			}
		}
		if stripped == base {
			return base
		}
		base = stripped
	}
}

// DerivePaths derives the three output paths from a caller-supplied base.
// The derivation is idempotent under repeated stripping: a base that already
// carries any known suffix is reduced first.
func DerivePaths(base string, compressedVariants bool) Paths {
	base = stripBase(base)

	paths := Paths{
		PGen: base + ".pgen",
		PVar: base + ".pvar",
		PSam: base + ".psam",
	}
	if compressedVariants {
		paths.PVar += ".zst"
	}

	return paths
}

// FileSetWriter writes a Dataset as one logical unit of three files. A
// failure in any file removes everything this Write created; callers either
// get a complete, mutually consistent set or nothing.
type FileSetWriter struct {
	base             string
	observer         Observer
	compressVariants bool
}

// FileSetOption represents a functional option for configuring the writer.
type FileSetOption func(*FileSetWriter) error

// WithCompressedVariants writes the variant sidecar as a Zstandard frame
// named <base>.pvar.zst instead of plain <base>.pvar.
func WithCompressedVariants() FileSetOption {
	return func(w *FileSetWriter) error {
		w.compressVariants = true
		return nil
	}
}

// WithObserver installs an observer for file-level progress events.
func WithObserver(observer Observer) FileSetOption {
	return func(w *FileSetWriter) error {
		if observer == nil {
			return fmt.Errorf("nil observer")
		}
		w.observer = observer

		return nil
	}
}

// NewFileSetWriter creates a writer for the file set derived from base.
func NewFileSetWriter(base string, opts ...FileSetOption) (*FileSetWriter, error) {
	writer := &FileSetWriter{
		base:     base,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		if err := opt(writer); err != nil {
			return nil, err
		}
	}

	return writer, nil
}

// Paths returns the output paths this writer will produce.
func (w *FileSetWriter) Paths() Paths {
	return DerivePaths(w.base, w.compressVariants)
}

// Write writes ds as a complete file set, in the same order as the original
// writer: variant sidecar, sample sidecar, then the binary genotype file.
//
// Returns:
//   - error: ErrRowCountMismatch when metadata and matrix dimensions
//     disagree, or the first failure from any of the three files. On error
//     every file created by this call has been removed.
func (w *FileSetWriter) Write(ds Dataset) error {
	if ds.Genotypes == nil {
		return fmt.Errorf("%w: nil genotype matrix", errs.ErrInvalidDimension)
	}
	if len(ds.Variants) != ds.Genotypes.VariantCount() {
		return fmt.Errorf("%w: %d variant rows, matrix has %d",
			errs.ErrRowCountMismatch, len(ds.Variants), ds.Genotypes.VariantCount())
	}
	if len(ds.Samples) != ds.Genotypes.SampleCount() {
		return fmt.Errorf("%w: %d samples, matrix has %d",
			errs.ErrRowCountMismatch, len(ds.Samples), ds.Genotypes.SampleCount())
	}

	paths := w.Paths()

	var created []string
	fail := func(err error) error {
		for _, path := range created {
			os.Remove(path)
		}

		return err
	}

	created = append(created, paths.PVar)
	if err := w.writePVar(paths.PVar, ds.Variants); err != nil {
		return fail(err)
	}

	created = append(created, paths.PSam)
	if err := w.writePSam(paths.PSam, ds.Samples); err != nil {
		return fail(err)
	}

	created = append(created, paths.PGen)
	if err := w.writePGen(paths.PGen, ds.Genotypes); err != nil {
		return fail(err)
	}

	return nil
}

// writePVar renders the variant table into a pooled buffer, compresses it
// when requested, and writes the result in one shot.
func (w *FileSetWriter) writePVar(path string, variants []sidecar.Variant) error {
	w.observer.WritingFile(path)

	buf := pool.GetSidecarBuffer()
	defer pool.PutSidecarBuffer(buf)

	if err := sidecar.WritePVar(buf, variants); err != nil {
		return err
	}

	compression := format.CompressionNone
	if w.compressVariants {
		compression = format.CompressionZstd
	}
	codec, err := compress.CreateCodec(compression, "variant sidecar")
	if err != nil {
		return err
	}

	data, err := codec.Compress(buf.Bytes())
	if err != nil {
		return fmt.Errorf("compress %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIOFailure, err)
	}

	w.observer.FileWritten(path, int64(len(data)))

	return nil
}

// writePSam renders the sample table into a pooled buffer and writes it.
func (w *FileSetWriter) writePSam(path string, samples []string) error {
	w.observer.WritingFile(path)

	buf := pool.GetSidecarBuffer()
	defer pool.PutSidecarBuffer(buf)

	if err := sidecar.WritePSam(buf, samples); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIOFailure, err)
	}

	w.observer.FileWritten(path, int64(buf.Len()))

	return nil
}

// writePGen streams the genotype matrix through an encoder session.
func (w *FileSetWriter) writePGen(path string, matrix *pgen.GenotypeMatrix) error {
	w.observer.WritingFile(path)

	var opts []pgen.EncoderOption
	if matrix.Phased() {
		opts = append(opts, pgen.WithPhasedHardcalls())
	}

	encoder, err := pgen.Create(path, matrix.SampleCount(), matrix.VariantCount(), opts...)
	if err != nil {
		return err
	}

	for i := 0; i < matrix.VariantCount(); i++ {
		if err := encoder.AppendAlleles(matrix.Row(i)); err != nil {
			encoder.Close() // release the handle; Write removes the file

			return err
		}
	}

	if err := encoder.Close(); err != nil {
		return err
	}

	w.observer.FileWritten(path, encoder.BytesWritten())

	return nil
}
