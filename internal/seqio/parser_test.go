package seqio

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-phmm/internal/seq"
)

func TestParser_Paired(t *testing.T) {
	input := `; tRNA fragments
; second comment
seq1
AC-G

seq2
ACUG
; trailing comment
seq3
AC-G`

	p := NewParserFromReader(strings.NewReader(input))
	seqs, err := p.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, FormatPaired, p.Format())
	assert.Equal(t, []seq.Sequence{
		{Name: "seq1", Residues: "AC-G"},
		{Name: "seq2", Residues: "ACUG"},
		{Name: "seq3", Residues: "AC-G"},
	}, seqs)
}

func TestParser_PairedOddLines(t *testing.T) {
	input := "seq1\nACGU\nseq2\n"

	p := NewParserFromReader(strings.NewReader(input))
	s, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "seq1", s.Name)

	_, err = p.Next()
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Line)
	assert.Contains(t, pe.Error(), "seq2")
}

func TestParser_FASTA(t *testing.T) {
	input := `>query1 first query
GGAC
UCCAGU
>query2
GGACAUCC

>query3
CCCCCC
`

	p := NewParserFromReader(strings.NewReader(input))
	seqs, err := p.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, FormatFASTA, p.Format())
	require.Len(t, seqs, 3)
	assert.Equal(t, seq.Sequence{Name: "query1", Residues: "GGACUCCAGU"}, seqs[0])
	assert.Equal(t, "GGACAUCC", seqs[1].Residues)
	assert.Equal(t, "query3", seqs[2].Name)
}

func TestParser_FASTAEmptyRecord(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(">a\n>b\nACGU\n"))
	_, err := p.Next()
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Line)
}

func TestParser_Empty(t *testing.T) {
	p := NewParserFromReader(strings.NewReader("; only comments\n\n"))
	s, err := p.Next()
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.Equal(t, FormatUnknown, p.Format())
}

func TestParser_CRLF(t *testing.T) {
	p := NewParserFromReader(strings.NewReader("a\r\nACGU\r\nb\r\nUGCA\r\n"))
	seqs, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, seqs, 2)
	assert.Equal(t, "UGCA", seqs[1].Residues)
}

func TestReadFile_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.txt.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte("a\nAC-G\nb\nACUG\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	seqs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, seqs, 2)
	assert.Equal(t, "ACUG", seqs[1].Residues)
}

func TestReadFile_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.fa")
	require.NoError(t, os.WriteFile(path, []byte(">q\nACGU\n"), 0o644))

	seqs, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []seq.Sequence{{Name: "q", Residues: "ACGU"}}, seqs)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
