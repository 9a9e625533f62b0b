package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSeqs(residues ...string) []Sequence {
	seqs := make([]Sequence, len(residues))
	for i, r := range residues {
		seqs[i] = Sequence{Name: "seq" + string(rune('1'+i)), Residues: r}
	}
	return seqs
}

func TestNewAlignment(t *testing.T) {
	aln, err := NewAlignment(makeSeqs("AC-G", "ACUG", "AC-G"))
	require.NoError(t, err)
	assert.Equal(t, 4, aln.Len())
	assert.Equal(t, 3, aln.Count())
	assert.Equal(t, []byte{'-', 'U', '-'}, aln.Column(2))
}

func TestNewAlignment_Empty(t *testing.T) {
	_, err := NewAlignment(nil)
	assert.ErrorIs(t, err, ErrEmptyAlignment)

	_, err = NewAlignment(makeSeqs(""))
	assert.ErrorIs(t, err, ErrEmptyAlignment)
}

func TestNewAlignment_LengthMismatch(t *testing.T) {
	_, err := NewAlignment(makeSeqs("ACGU", "ACG", "ACGU"))
	require.Error(t, err)

	var le *LengthError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 1, le.Index)
	assert.Equal(t, "seq2", le.Name)
	assert.Equal(t, 3, le.Got)
	assert.Equal(t, 4, le.Want)
}

func TestNewAlignment_InvalidSymbol(t *testing.T) {
	tests := []struct {
		name     string
		residues []string
		index    int
		position int
		symbol   byte
	}{
		{"thymine", []string{"ACGU", "ACTU"}, 1, 2, 'T'},
		{"lowercase", []string{"aCGU", "ACGU"}, 0, 0, 'a'},
		{"dot gap", []string{"ACGU", "AC.U"}, 1, 2, '.'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAlignment(makeSeqs(tt.residues...))
			var se *SymbolError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.index, se.Index)
			assert.Equal(t, tt.position, se.Position)
			assert.Equal(t, tt.symbol, se.Symbol)
		})
	}
}

func TestLengthCheckedBeforeSymbols(t *testing.T) {
	_, err := NewAlignment(makeSeqs("ACXU", "ACG"))
	var le *LengthError
	assert.ErrorAs(t, err, &le)
}
