package pgen

import (
	"github.com/ChrisTho23/snputils/section"
)

// ProgressFunc receives the number of variant records written so far and the
// declared total. It replaces the module-level logging of earlier writers:
// callers that want progress reporting inject a callback, everyone else pays
// nothing.
//
// The callback runs synchronously on the appending goroutine and must not
// call back into the encoder.
type ProgressFunc func(written, total int)

// EncoderConfig handles encoder configuration and the file header state.
//
// Concrete encoding logic lives on Encoder; the config only captures the
// declared dimensions and the options applied at construction.
type EncoderConfig struct {
	header       *section.FileHeader
	progress     ProgressFunc
	sampleCount  int
	variantCount int
	phased       bool
}

// newEncoderConfig creates a config for the declared dimensions with
// defaults: unphased, no progress reporting.
func newEncoderConfig(sampleCount, variantCount int) *EncoderConfig {
	return &EncoderConfig{
		sampleCount:  sampleCount,
		variantCount: variantCount,
	}
}

// rowLen returns the expected AppendAlleles row length.
func (c *EncoderConfig) rowLen() int {
	if c.phased {
		return c.sampleCount * 2
	}

	return c.sampleCount
}

// SampleCount returns the declared sample count.
func (c *EncoderConfig) SampleCount() int {
	return c.sampleCount
}

// VariantCount returns the declared variant count.
func (c *EncoderConfig) VariantCount() int {
	return c.variantCount
}

// Phased reports whether the session encodes phased hardcalls.
func (c *EncoderConfig) Phased() bool {
	return c.phased
}

// EncoderOption represents a functional option for configuring the encoder.
type EncoderOption func(*EncoderConfig) error

// WithPhasedHardcalls switches the session to phased input: AppendAlleles
// rows carry two haplotype alleles per sample and every record gets a phase
// bit block.
func WithPhasedHardcalls() EncoderOption {
	return func(c *EncoderConfig) error {
		c.phased = true
		return nil
	}
}

// WithProgress installs a progress callback invoked after every appended
// variant record.
func WithProgress(fn ProgressFunc) EncoderOption {
	return func(c *EncoderConfig) error {
		c.progress = fn
		return nil
	}
}
