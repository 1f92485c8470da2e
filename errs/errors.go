// Package errs defines the sentinel errors shared across the snputils PGEN
// writer packages.
//
// All errors are plain sentinel values created with errors.New. Call sites
// wrap them with fmt.Errorf("%w: ...") to attach context, so callers can
// always test categories with errors.Is:
//
//	if errors.Is(err, errs.ErrRowShapeMismatch) {
//	    // discard the partial file and restart the whole write
//	}
package errs

import "errors"

// Encoder session errors. All of them are fatal to the session that produced
// them: the encoder never retries internally and the partial output file must
// be discarded by the caller.
var (
	// ErrInvalidDimension indicates a sample or variant count that is
	// negative, zero samples, or above the format ceiling (2^31-1).
	ErrInvalidDimension = errors.New("invalid sample or variant count")

	// ErrRowShapeMismatch indicates an appended allele row whose length does
	// not match the sample count declared when the session was opened.
	ErrRowShapeMismatch = errors.New("allele row length mismatch")

	// ErrUnsupportedGenotype indicates a call value outside the 2-bit
	// hardcall alphabet (multi-allelic or otherwise unrepresentable).
	ErrUnsupportedGenotype = errors.New("unsupported genotype call")

	// ErrTooManyRecords indicates an append past the declared variant count.
	ErrTooManyRecords = errors.New("append exceeds declared variant count")

	// ErrIncompleteWrite indicates Close was called before all declared
	// variants were appended. The on-disk file is invalid.
	ErrIncompleteWrite = errors.New("closed before all variant records were written")

	// ErrSessionClosed indicates an operation on an already closed session.
	ErrSessionClosed = errors.New("encoder session already closed")

	// ErrSessionAborted indicates an operation on a session that already
	// failed. The first error is preserved and returned alongside.
	ErrSessionAborted = errors.New("encoder session aborted by previous error")

	// ErrIOFailure indicates a write, flush or close failure from the
	// underlying sink.
	ErrIOFailure = errors.New("pgen sink I/O failure")
)

// Binary section parsing errors, returned by the section package.
var (
	// ErrInvalidHeaderSize indicates a header buffer of the wrong size.
	ErrInvalidHeaderSize = errors.New("invalid pgen header size")

	// ErrInvalidMagicNumber indicates the buffer does not start with the
	// PGEN family magic bytes.
	ErrInvalidMagicNumber = errors.New("invalid pgen magic number")

	// ErrInvalidStorageMode indicates an unsupported header mode byte.
	ErrInvalidStorageMode = errors.New("invalid pgen storage mode")

	// ErrInvalidRecordType indicates an unknown variant record type byte.
	ErrInvalidRecordType = errors.New("invalid variant record type")

	// ErrInvalidRecordSize indicates a variant record buffer shorter than
	// its declared layout.
	ErrInvalidRecordSize = errors.New("invalid variant record size")

	// ErrInvalidIndexSize indicates a variant index buffer whose size is not
	// a whole number of 8-byte entries for the declared variant count.
	ErrInvalidIndexSize = errors.New("invalid variant index size")
)

// File set errors, returned by the top-level three-file writer.
var (
	// ErrRowCountMismatch indicates variant or sample metadata whose row
	// count disagrees with the genotype matrix dimensions.
	ErrRowCountMismatch = errors.New("metadata row count does not match genotype matrix")
)
