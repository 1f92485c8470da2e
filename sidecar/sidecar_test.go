package sidecar

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWritePVar(t *testing.T) {
	t.Run("Header and rows", func(t *testing.T) {
		variants := []Variant{
			{Chrom: "1", Pos: 12345, ID: "rs100", Ref: "A", Alt: []string{"G"}, FilterPass: true},
			{Chrom: "chrX", Pos: 999, ID: "rs200", Ref: "C", Alt: []string{"T"}, FilterPass: false},
		}

		var buf bytes.Buffer
		require.NoError(t, WritePVar(&buf, variants))

		want := "#CHROM\tPOS\tID\tREF\tALT\tFILTER\n" +
			"1\t12345\trs100\tA\tG\tPASS\n" +
			"chrX\t999\trs200\tC\tT\t.\n"
		require.Equal(t, want, buf.String())
	})

	t.Run("Multi-allelic keeps first ALT only", func(t *testing.T) {
		variants := []Variant{
			{Chrom: "2", Pos: 1, ID: "rs1", Ref: "A", Alt: []string{"G", "T", "C"}, FilterPass: true},
		}

		var buf bytes.Buffer
		require.NoError(t, WritePVar(&buf, variants))

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 2)
		fields := strings.Split(lines[1], "\t")
		require.Equal(t, "G", fields[4])
	})

	t.Run("Missing ALT renders as dot", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePVar(&buf, []Variant{{Chrom: "3", Pos: 5, ID: "rs3", Ref: "T"}}))

		require.Contains(t, buf.String(), "3\t5\trs3\tT\t.\t.\n")
	})

	t.Run("Roundtrip through tab parsing", func(t *testing.T) {
		variant := Variant{Chrom: "17", Pos: 41276045, ID: "rs80357906", Ref: "CG", Alt: []string{"C", "CGG"}, FilterPass: true}

		var buf bytes.Buffer
		require.NoError(t, WritePVar(&buf, []Variant{variant}))

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Equal(t, PVarHeader, lines[0])

		fields := strings.Split(lines[1], "\t")
		require.Equal(t, []string{"17", "41276045", "rs80357906", "CG", "C", "PASS"}, fields)
	})

	t.Run("No variants writes header only", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePVar(&buf, nil))

		require.Equal(t, PVarHeader+"\n", buf.String())
	})
}

func TestWritePSam(t *testing.T) {
	t.Run("Header and rows", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePSam(&buf, []string{"HG00096", "HG00097"}))

		want := "IID\tSEX\n" +
			"HG00096\tNA\n" +
			"HG00097\tNA\n"
		require.Equal(t, want, buf.String())
	})

	t.Run("No samples writes header only", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePSam(&buf, nil))

		require.Equal(t, PSamHeader+"\n", buf.String())
	})
}

type failingWriter struct {
	failAfter int
	written   int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.written++
	if w.written > w.failAfter {
		return 0, bytes.ErrTooLarge
	}

	return len(p), nil
}

func TestWriteErrorsPropagate(t *testing.T) {
	err := WritePVar(&failingWriter{failAfter: 1}, []Variant{{Chrom: "1", Pos: 1, ID: "rs1", Ref: "A"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "pvar row 0")

	err = WritePSam(&failingWriter{}, []string{"S1"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "psam header")
}
