package pgen

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ChrisTho23/snputils/errs"
	"github.com/ChrisTho23/snputils/format"
	"github.com/ChrisTho23/snputils/section"
)

// decodePGEN reads back a finished .pgen file using the section-level
// parsers. It validates the structural invariants (record offsets, index
// position) along the way.
func decodePGEN(t *testing.T, path string) (section.FileHeader, []section.VariantRecord) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	header, err := section.ParseFileHeader(data)
	require.NoError(t, err)

	sampleCt := int(header.SampleCount)
	variantCt := int(header.VariantCount)

	records := make([]section.VariantRecord, 0, variantCt)
	offsets := make([]uint64, 0, variantCt)
	off := section.HeaderSize
	for i := 0; i < variantCt; i++ {
		offsets = append(offsets, uint64(off))
		rec, n, err := section.ParseVariantRecord(data[off:], sampleCt)
		require.NoError(t, err, "variant record %d", i)
		records = append(records, rec)
		off += n
	}

	require.Equal(t, uint64(off), header.IndexOffset, "index must start right after the last record")

	index, err := section.ParseVariantIndex(data[off:], variantCt)
	require.NoError(t, err)
	require.Equal(t, offsets, index.Offsets())

	return header, records
}

// reconstructRow maps a decoded record back to the AppendAlleles input form.
func reconstructRow(t *testing.T, rec section.VariantRecord) []int32 {
	t.Helper()

	if !rec.Type.Phased() {
		row := make([]int32, len(rec.Codes))
		for i, code := range rec.Codes {
			if code == 3 {
				row[i] = MissingCall
			} else {
				row[i] = int32(code)
			}
		}

		return row
	}

	row := make([]int32, 0, len(rec.Codes)*2)
	for i, code := range rec.Codes {
		switch code {
		case 0:
			row = append(row, 0, 0)
		case 2:
			row = append(row, 1, 1)
		case 1:
			if rec.PhaseBits[i] {
				row = append(row, 1, 0)
			} else {
				row = append(row, 0, 1)
			}
		case 3:
			row = append(row, MissingCall, MissingCall)
		}
	}

	return row
}

func encodeRows(t *testing.T, path string, sampleCt int, rows [][]int32, opts ...EncoderOption) *Encoder {
	t.Helper()

	encoder, err := Create(path, sampleCt, len(rows), opts...)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, encoder.AppendAlleles(row))
	}
	require.NoError(t, encoder.Close())

	return encoder
}

func TestEncoder_UnphasedSingleVariant(t *testing.T) {
	// The canonical smoke case: two samples, one variant, calls [0, 1].
	path := filepath.Join(t.TempDir(), "mini.pgen")
	encodeRows(t, path, 2, [][]int32{{0, 1}})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	header, records := decodePGEN(t, path)
	require.Equal(t, uint32(2), header.SampleCount)
	require.Equal(t, uint32(1), header.VariantCount)
	require.False(t, header.PhasePresent)

	// One record: type byte, then one packed byte 0b0100 (sample 0 = 0,
	// sample 1 = 1).
	require.Equal(t, byte(format.RecordHardcall), data[section.HeaderSize])
	require.Equal(t, byte(0x04), data[section.HeaderSize+1])

	require.Len(t, records, 1)
	require.Equal(t, []uint8{0, 1}, records[0].Codes)
}

func TestEncoder_PhasedTwoVariants(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phased.pgen")
	rows := [][]int32{
		{0, 0, 1, 1}, // sample 0 = 0|0, sample 1 = 1|1
		{0, 1, 1, 0}, // sample 0 = 0|1, sample 1 = 1|0
	}
	encodeRows(t, path, 2, rows, WithPhasedHardcalls())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	header, records := decodePGEN(t, path)
	require.True(t, header.PhasePresent)
	require.Len(t, records, 2)

	// Each record is 3 bytes: type, one hardcall byte, one phase byte.
	require.Equal(t, 3, section.RecordSize(2, true))
	rec0 := data[section.HeaderSize : section.HeaderSize+3]
	rec1 := data[section.HeaderSize+3 : section.HeaderSize+6]

	require.Equal(t, byte(format.RecordHardcallPhased), rec0[0])
	require.Equal(t, byte(0x08), rec0[1]) // hom-ref, hom-alt
	require.Equal(t, byte(0x00), rec0[2]) // no het orientation bits

	require.Equal(t, byte(format.RecordHardcallPhased), rec1[0])
	require.Equal(t, byte(0x05), rec1[1]) // het, het
	require.Equal(t, byte(0x02), rec1[2]) // only sample 1 is 1|0

	for i, row := range rows {
		require.Equal(t, row, reconstructRow(t, records[i]))
	}
}

func TestEncoder_RoundtripRandomMatrix(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	t.Run("Unphased", func(t *testing.T) {
		const sampleCt, variantCt = 37, 25
		rows := make([][]int32, variantCt)
		for v := range rows {
			row := make([]int32, sampleCt)
			for s := range row {
				switch rng.Intn(4) {
				case 3:
					row[s] = MissingCall
				default:
					row[s] = int32(rng.Intn(3))
				}
			}
			rows[v] = row
		}

		path := filepath.Join(t.TempDir(), "random.pgen")
		encodeRows(t, path, sampleCt, rows)

		_, records := decodePGEN(t, path)
		require.Len(t, records, variantCt)
		for i, row := range rows {
			require.Equal(t, row, reconstructRow(t, records[i]), "variant %d", i)
		}
	})

	t.Run("Phased", func(t *testing.T) {
		const sampleCt, variantCt = 13, 31
		rows := make([][]int32, variantCt)
		for v := range rows {
			row := make([]int32, 0, sampleCt*2)
			for s := 0; s < sampleCt; s++ {
				if rng.Intn(10) == 0 {
					row = append(row, MissingCall, MissingCall)
				} else {
					row = append(row, int32(rng.Intn(2)), int32(rng.Intn(2)))
				}
			}
			rows[v] = row
		}

		path := filepath.Join(t.TempDir(), "random_phased.pgen")
		encodeRows(t, path, sampleCt, rows, WithPhasedHardcalls())

		_, records := decodePGEN(t, path)
		for i, row := range rows {
			require.Equal(t, row, reconstructRow(t, records[i]), "variant %d", i)
		}
	})
}

func TestEncoder_ZeroVariants(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pgen")
	encodeRows(t, path, 4, nil)

	header, records := decodePGEN(t, path)
	require.Equal(t, uint32(0), header.VariantCount)
	require.Equal(t, uint64(section.HeaderSize), header.IndexOffset)
	require.Empty(t, records)
}

func TestNewEncoder_InvalidDimensions(t *testing.T) {
	tests := []struct {
		name      string
		sampleCt  int
		variantCt int
	}{
		{"zero samples", 0, 1},
		{"negative samples", -1, 1},
		{"negative variants", 2, -1},
		{"sample count above ceiling", section.MaxCount + 1, 1},
		{"variant count above ceiling", 2, section.MaxCount + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.pgen")
			_, err := Create(path, tt.sampleCt, tt.variantCt)

			require.ErrorIs(t, err, errs.ErrInvalidDimension)
			// Constructor failures must not leave a file behind.
			_, statErr := os.Stat(path)
			require.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestEncoder_IncompleteClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.pgen")
	encoder, err := Create(path, 2, 3)
	require.NoError(t, err)

	require.NoError(t, encoder.AppendAlleles([]int32{0, 1}))

	err = encoder.Close()
	require.ErrorIs(t, err, errs.ErrIncompleteWrite)

	// The file exists but was never finalized: its index offset is zero.
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	header, parseErr := section.ParseFileHeader(data)
	require.NoError(t, parseErr)
	require.Equal(t, uint64(0), header.IndexOffset)
}

func TestEncoder_RowShapeMismatchAbortsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abort.pgen")
	encoder, err := Create(path, 3, 2)
	require.NoError(t, err)

	err = encoder.AppendAlleles([]int32{0, 1}) // too short
	require.ErrorIs(t, err, errs.ErrRowShapeMismatch)

	// The session is dead: a well-formed row is rejected too, with the
	// original failure preserved.
	err = encoder.AppendAlleles([]int32{0, 1, 2})
	require.ErrorIs(t, err, errs.ErrSessionAborted)
	require.ErrorIs(t, err, errs.ErrRowShapeMismatch)

	err = encoder.Close()
	require.ErrorIs(t, err, errs.ErrRowShapeMismatch)
}

func TestEncoder_UnsupportedGenotype(t *testing.T) {
	t.Run("Unphased out-of-alphabet call", func(t *testing.T) {
		encoder, err := Create(filepath.Join(t.TempDir(), "bad.pgen"), 2, 1)
		require.NoError(t, err)

		err = encoder.AppendAlleles([]int32{0, 5})
		require.ErrorIs(t, err, errs.ErrUnsupportedGenotype)
	})

	t.Run("Phased third allele", func(t *testing.T) {
		encoder, err := Create(filepath.Join(t.TempDir(), "bad.pgen"), 2, 1, WithPhasedHardcalls())
		require.NoError(t, err)

		err = encoder.AppendAlleles([]int32{0, 1, 2, 0})
		require.ErrorIs(t, err, errs.ErrUnsupportedGenotype)
	})

	t.Run("Phased half-missing pair", func(t *testing.T) {
		encoder, err := Create(filepath.Join(t.TempDir(), "bad.pgen"), 1, 1, WithPhasedHardcalls())
		require.NoError(t, err)

		err = encoder.AppendAlleles([]int32{MissingCall, 0})
		require.ErrorIs(t, err, errs.ErrUnsupportedGenotype)
	})
}

func TestEncoder_TooManyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.pgen")
	encoder, err := Create(path, 1, 1)
	require.NoError(t, err)

	require.NoError(t, encoder.AppendAlleles([]int32{1}))

	err = encoder.AppendAlleles([]int32{1})
	require.ErrorIs(t, err, errs.ErrTooManyRecords)

	// The extra append wrote nothing; the session still closes cleanly.
	require.NoError(t, encoder.Close())
	decodePGEN(t, path)
}

func TestEncoder_CloseSemantics(t *testing.T) {
	t.Run("Double close", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "double.pgen")
		encoder, err := Create(path, 1, 0)
		require.NoError(t, err)

		require.NoError(t, encoder.Close())
		require.ErrorIs(t, encoder.Close(), errs.ErrSessionClosed)
	})

	t.Run("Append after close", func(t *testing.T) {
		encoder, err := Create(filepath.Join(t.TempDir(), "closed.pgen"), 1, 1)
		require.NoError(t, err)
		require.NoError(t, encoder.AppendAlleles([]int32{0}))
		require.NoError(t, encoder.Close())

		require.ErrorIs(t, encoder.AppendAlleles([]int32{0}), errs.ErrSessionClosed)
	})
}

func TestEncoder_Progress(t *testing.T) {
	var seen [][2]int
	progress := func(written, total int) {
		seen = append(seen, [2]int{written, total})
	}

	path := filepath.Join(t.TempDir(), "progress.pgen")
	encoder, err := Create(path, 1, 3, WithProgress(progress))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, encoder.AppendAlleles([]int32{0}))
	}
	require.NoError(t, encoder.Close())

	require.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, seen)
}

func TestEncoder_DigestIsDeterministic(t *testing.T) {
	rows := [][]int32{
		{0, 1, 2, MissingCall},
		{2, 2, 0, 1},
	}

	dir := t.TempDir()
	first := encodeRows(t, filepath.Join(dir, "a.pgen"), 4, rows)
	second := encodeRows(t, filepath.Join(dir, "b.pgen"), 4, rows)

	require.NotZero(t, first.Digest())
	require.Equal(t, first.Digest(), second.Digest())

	// A different matrix yields a different payload fingerprint.
	other := encodeRows(t, filepath.Join(dir, "c.pgen"), 4, [][]int32{
		{0, 1, 2, MissingCall},
		{2, 2, 0, 2},
	})
	require.NotEqual(t, first.Digest(), other.Digest())
}

func TestEncoder_StatsAccessors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.pgen")
	encoder, err := Create(path, 2, 2)
	require.NoError(t, err)

	require.Equal(t, 0, encoder.RecordsWritten())
	require.Equal(t, int64(section.HeaderSize), encoder.BytesWritten())

	require.NoError(t, encoder.AppendAlleles([]int32{0, 1}))
	require.NoError(t, encoder.AppendAlleles([]int32{2, 2}))
	require.Equal(t, 2, encoder.RecordsWritten())

	require.NoError(t, encoder.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, info.Size(), encoder.BytesWritten())
}
