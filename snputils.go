// Package snputils writes genotype data in the PGEN file format family: a
// binary genotype matrix file (.pgen) plus two tab-separated metadata
// sidecars (.pvar for variants, .psam for samples).
//
// The core is the genotype block encoder in the pgen package: it packs 2-bit
// hardcall codes (and phase bits for phased data) into per-variant records
// behind a fixed little-endian header, and finalizes a trailing offset index
// on close for downstream random access.
//
// # Basic Usage
//
// Writing a complete file set from an in-memory matrix:
//
//	calls := [][]int32{
//	    {0, 1, 2},
//	    {2, 0, 0},
//	}
//	matrix, _ := pgen.NewGenotypeMatrix(calls, 3, false)
//
//	err := snputils.WritePGEN("cohort", snputils.Dataset{
//	    Variants:  variants, // one sidecar.Variant per row of calls
//	    Samples:   []string{"S1", "S2", "S3"},
//	    Genotypes: matrix,
//	})
//
// This produces cohort.pgen, cohort.pvar and cohort.psam. With
// WithCompressedVariants() the variant sidecar is written as a Zstandard
// frame named cohort.pvar.zst instead.
//
// Driving the binary encoder directly:
//
//	encoder, _ := pgen.Create("cohort.pgen", sampleCount, variantCount)
//	for _, row := range calls {
//	    if err := encoder.AppendAlleles(row); err != nil {
//	        // fatal to the session; discard the partial file
//	    }
//	}
//	err := encoder.Close()
//
// # Package Structure
//
// This package provides the three-file orchestration (FileSetWriter) and path
// derivation. The pgen package owns the binary encoder, section the on-disk
// layouts, sidecar the tabular writers, and compress the zstd codec for the
// .pvar.zst variant.
package snputils

// WritePGEN writes ds as a complete PGEN file set derived from base.
//
// It is shorthand for NewFileSetWriter(base, opts...) followed by Write. Any
// failure removes every file created by this call; the three files are one
// logical unit and a partial set never survives.
func WritePGEN(base string, ds Dataset, opts ...FileSetOption) error {
	writer, err := NewFileSetWriter(base, opts...)
	if err != nil {
		return err
	}

	return writer.Write(ds)
}
