package pgen

import (
	"fmt"

	"github.com/ChrisTho23/snputils/errs"
)

// GenotypeMatrix is the validated in-memory input of the genotype block
// encoder: one allele call row per variant, with fixed dimensions and a phase
// flag set once at construction.
//
// Unphased rows hold one call per sample with values in {0, 1, 2} plus
// MissingCall. Phased rows hold two haplotype alleles per sample, flattened
// hap-major: row[2*i] and row[2*i+1] are sample i's first and second
// haplotype.
type GenotypeMatrix struct {
	calls        [][]int32
	sampleCount  int
	variantCount int
	phased       bool
}

// NewGenotypeMatrix validates calls against the declared sample count and
// phase flag and wraps them into a GenotypeMatrix.
//
// The shape check fails fast: a session opened from an inconsistent matrix
// would only discover the mismatch mid-write and leave a partial file behind.
//
// Parameters:
//   - calls: One row per variant, each of length sampleCount (unphased) or
//     2*sampleCount (phased)
//   - sampleCount: Number of samples per row (must be positive)
//   - phased: Whether rows carry per-haplotype alleles
//
// Returns:
//   - *GenotypeMatrix: Validated matrix
//   - error: ErrInvalidDimension or ErrRowShapeMismatch
func NewGenotypeMatrix(calls [][]int32, sampleCount int, phased bool) (*GenotypeMatrix, error) {
	if sampleCount <= 0 {
		return nil, fmt.Errorf("%w: sample count %d", errs.ErrInvalidDimension, sampleCount)
	}

	rowLen := sampleCount
	if phased {
		rowLen = sampleCount * 2
	}

	for i, row := range calls {
		if len(row) != rowLen {
			return nil, fmt.Errorf("%w: variant %d has %d calls, want %d",
				errs.ErrRowShapeMismatch, i, len(row), rowLen)
		}
	}

	return &GenotypeMatrix{
		calls:        calls,
		sampleCount:  sampleCount,
		variantCount: len(calls),
		phased:       phased,
	}, nil
}

// SampleCount returns the number of samples per variant.
func (m *GenotypeMatrix) SampleCount() int {
	return m.sampleCount
}

// VariantCount returns the number of variant rows.
func (m *GenotypeMatrix) VariantCount() int {
	return m.variantCount
}

// Phased reports whether rows carry per-haplotype alleles.
func (m *GenotypeMatrix) Phased() bool {
	return m.phased
}

// Row returns the allele calls of variant i in append order.
func (m *GenotypeMatrix) Row(i int) []int32 {
	return m.calls[i]
}
