package pgen

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/ChrisTho23/snputils/errs"
	"github.com/ChrisTho23/snputils/format"
	"github.com/ChrisTho23/snputils/section"
)

// MissingCall is the input sentinel for a missing genotype call, matching the
// conventional PLINK missing code. Unphased rows may carry it per sample;
// phased rows only as a fully missing haplotype pair.
const MissingCall int32 = -9

// Sink is the output target of an encoder session. Records are streamed
// through the Writer side; the WriterAt side is used exactly once, on Close,
// to backpatch the header's index offset. *os.File satisfies Sink.
type Sink interface {
	io.Writer
	io.WriterAt
}

// Encoder writes one .pgen file: a fixed header, one packed variant record
// per AppendAlleles call, and a trailing random-access index finalized on
// Close.
//
// The session is strictly sequential: exactly VariantCount appends in variant
// order, then Close. Any append error is fatal to the session; the first
// error is kept and returned by every subsequent call, and the partial file
// must be discarded by the caller. The format has no resumable mode.
//
// Note: The Encoder is NOT thread-safe and NOT reusable. One session is bound
// to one sink for its entire lifetime.
type Encoder struct {
	*EncoderConfig

	sink   Sink
	bw     *bufio.Writer
	closer io.Closer // non-nil when the encoder owns the sink (Create)
	path   string    // backing file path when owned, for error context

	index  *section.VariantIndex
	digest *xxhash.Digest

	offset  uint64 // current byte offset in the output file
	written int    // variant records written so far

	scratch   []byte // one record, reused across appends
	codes     []uint8
	phaseBits []bool

	err    error // first failure, sticky for the rest of the session
	closed bool
}

// NewEncoder opens an encoder session on sink and immediately writes the
// fixed header. The caller keeps ownership of the sink and must close it
// after Close returns.
//
// Parameters:
//   - sink: Output target (typically an *os.File)
//   - sampleCount: Number of samples per variant (1 to 2^31-1)
//   - variantCount: Number of variant records that will be appended (0 to 2^31-1)
//   - opts: Optional configuration (WithPhasedHardcalls, WithProgress)
//
// Returns:
//   - *Encoder: Session ready for AppendAlleles calls
//   - error: ErrInvalidDimension for out-of-range counts, option errors, or
//     ErrIOFailure if the header write fails
func NewEncoder(sink Sink, sampleCount, variantCount int, opts ...EncoderOption) (*Encoder, error) {
	if sampleCount <= 0 || sampleCount > section.MaxCount {
		return nil, fmt.Errorf("%w: sample count %d", errs.ErrInvalidDimension, sampleCount)
	}
	if variantCount < 0 || variantCount > section.MaxCount {
		return nil, fmt.Errorf("%w: variant count %d", errs.ErrInvalidDimension, variantCount)
	}

	config := newEncoderConfig(sampleCount, variantCount)
	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	config.header = section.NewFileHeader(uint32(sampleCount), uint32(variantCount), config.phased)

	encoder := &Encoder{
		EncoderConfig: config,
		sink:          sink,
		bw:            bufio.NewWriter(sink),
		index:         section.NewVariantIndex(variantCount),
		digest:        xxhash.New(),
		scratch:       make([]byte, section.RecordSize(sampleCount, config.phased)),
		codes:         make([]uint8, sampleCount),
	}
	if config.phased {
		encoder.phaseBits = make([]bool, sampleCount)
	}

	// The header goes out with a zero index offset; Close backpatches it
	// once the index position is known.
	if _, err := encoder.bw.Write(config.header.Bytes()); err != nil {
		return nil, fmt.Errorf("%w: write header: %v", errs.ErrIOFailure, err)
	}
	encoder.offset = section.HeaderSize

	return encoder, nil
}

// Create opens path for writing and starts an encoder session on it. The
// returned encoder owns the file handle and closes it in Close, on every
// exit path. On failure the partial file is removed.
func Create(path string, sampleCount, variantCount int, opts ...EncoderOption) (*Encoder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", errs.ErrIOFailure, path, err)
	}

	encoder, err := NewEncoder(file, sampleCount, variantCount, opts...)
	if err != nil {
		file.Close()
		os.Remove(path)

		return nil, err
	}

	encoder.closer = file
	encoder.path = path

	return encoder, nil
}

// AppendAlleles encodes one variant row and writes its record.
//
// The row length must be SampleCount (unphased) or 2*SampleCount (phased,
// hap-major flattened). Rows must arrive in variant order; the record index
// finalized on Close maps variant i to the i-th append.
//
// Returns:
//   - error: ErrRowShapeMismatch, ErrUnsupportedGenotype or ErrIOFailure
//     (all fatal to the session), ErrTooManyRecords past the declared count,
//     ErrSessionClosed/ErrSessionAborted for calls after Close or a failure
func (e *Encoder) AppendAlleles(alleles []int32) error {
	if e.closed {
		return errs.ErrSessionClosed
	}
	if e.err != nil {
		return fmt.Errorf("%w: %w", errs.ErrSessionAborted, e.err)
	}
	if e.written >= e.variantCount {
		return fmt.Errorf("%w: declared %d variants", errs.ErrTooManyRecords, e.variantCount)
	}

	if len(alleles) != e.rowLen() {
		return e.fail(fmt.Errorf("%w: variant %d has %d calls, want %d",
			errs.ErrRowShapeMismatch, e.written, len(alleles), e.rowLen()))
	}

	recType := format.RecordHardcall
	if e.phased {
		recType = format.RecordHardcallPhased
		if err := e.convertPhased(alleles); err != nil {
			return e.fail(err)
		}
	} else if err := e.convertUnphased(alleles); err != nil {
		return e.fail(err)
	}

	e.scratch[0] = byte(recType)
	section.PackHardcalls(e.scratch[1:], e.codes)
	if e.phased {
		section.PackBits(e.scratch[1+section.HardcallSize(e.sampleCount):], e.phaseBits)
	}

	e.index.Append(e.offset)
	if err := e.write(e.scratch); err != nil {
		return e.fail(err)
	}

	e.written++
	if e.progress != nil {
		e.progress(e.written, e.variantCount)
	}

	return nil
}

// convertUnphased maps genotype dosages {0,1,2,MissingCall} to 2-bit codes.
func (e *Encoder) convertUnphased(alleles []int32) error {
	for i, v := range alleles {
		switch v {
		case 0, 1, 2:
			e.codes[i] = uint8(v)
		case MissingCall:
			e.codes[i] = hardcallMissing
		default:
			return fmt.Errorf("%w: variant %d sample %d call %d",
				errs.ErrUnsupportedGenotype, e.written, i, v)
		}
	}

	return nil
}

// convertPhased folds each haplotype pair into a 2-bit code plus a phase bit.
// The phase bit is set for heterozygous calls whose first haplotype carries
// the alt allele (1|0); homozygous and missing calls get a zero bit.
func (e *Encoder) convertPhased(alleles []int32) error {
	for i := 0; i < e.sampleCount; i++ {
		hap0 := alleles[2*i]
		hap1 := alleles[2*i+1]

		switch {
		case hap0 == MissingCall && hap1 == MissingCall:
			e.codes[i] = hardcallMissing
			e.phaseBits[i] = false
		case (hap0 == 0 || hap0 == 1) && (hap1 == 0 || hap1 == 1):
			e.codes[i] = uint8(hap0 + hap1)
			e.phaseBits[i] = hap0 == 1 && hap1 == 0
		default:
			return fmt.Errorf("%w: variant %d sample %d alleles %d|%d",
				errs.ErrUnsupportedGenotype, e.written, i, hap0, hap1)
		}
	}

	return nil
}

// hardcallMissing is the 2-bit code for a missing call.
const hardcallMissing uint8 = 3

// fail records the session's first error; every later call sees it sticky.
func (e *Encoder) fail(err error) error {
	e.err = err

	return err
}

// write streams b through the buffered writer and the payload digest.
func (e *Encoder) write(b []byte) error {
	if _, err := e.bw.Write(b); err != nil {
		return fmt.Errorf("%w: write variant record %d: %v", errs.ErrIOFailure, e.written, err)
	}
	_, _ = e.digest.Write(b) // xxhash.Digest.Write never fails
	e.offset += uint64(len(b))

	return nil
}

// Close finalizes the session: it writes the trailing variant index,
// backpatches the header's index offset, flushes the sink, and closes it
// when the encoder owns it (Create). The file only becomes valid for readers
// when Close returns nil.
//
// Returns:
//   - error: ErrIncompleteWrite if fewer than VariantCount records were
//     appended, ErrSessionClosed on double close, the session's first error
//     if it already failed, or ErrIOFailure from the final flush
func (e *Encoder) Close() error {
	if e.closed {
		return errs.ErrSessionClosed
	}
	e.closed = true

	// Release the file handle on every exit path; an abandoned session must
	// not leak it.
	defer func() {
		if e.closer != nil {
			e.closer.Close()
		}
	}()

	if e.err != nil {
		return e.err
	}

	if e.written != e.variantCount {
		// Flush what was buffered so the file carries its telltale zero
		// index offset; it is invalid either way.
		e.bw.Flush()

		return fmt.Errorf("%w: %d of %d variant records written",
			errs.ErrIncompleteWrite, e.written, e.variantCount)
	}

	indexOffset := e.offset
	if err := e.write(e.index.Bytes()); err != nil {
		return err
	}
	if err := e.bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush: %v", errs.ErrIOFailure, err)
	}

	// The file is complete except for the header's index offset; patch it
	// in place.
	e.header.IndexOffset = indexOffset
	if _, err := e.sink.WriteAt(e.header.Bytes(), 0); err != nil {
		return fmt.Errorf("%w: finalize header: %v", errs.ErrIOFailure, err)
	}

	if e.closer != nil {
		closer := e.closer
		e.closer = nil // the deferred Close above must not run twice
		if err := closer.Close(); err != nil {
			return fmt.Errorf("%w: close %s: %v", errs.ErrIOFailure, e.path, err)
		}
	}

	return nil
}

// RecordsWritten returns the number of variant records appended so far.
func (e *Encoder) RecordsWritten() int {
	return e.written
}

// BytesWritten returns the number of bytes emitted so far, including the
// header and, after Close, the trailing index.
func (e *Encoder) BytesWritten() int64 {
	return int64(e.offset)
}

// Digest returns the running xxHash64 fingerprint of the genotype payload:
// every variant record plus the trailing index, header excluded. It is
// stable only after Close and lets callers verify two encoding runs of the
// same matrix byte-for-byte without re-reading the file.
func (e *Encoder) Digest() uint64 {
	return e.digest.Sum64()
}
