package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	for i := 0; i < Size; i++ {
		assert.Equal(t, i, Index(Alphabet[i]))
	}
	assert.Equal(t, -1, Index(Gap))
	assert.Equal(t, -1, Index('T'))
	assert.False(t, IsResidue('N'))
}

func TestStripGaps(t *testing.T) {
	assert.Equal(t, "ACG", StripGaps("A-C--G-"))
	assert.Equal(t, "ACGU", StripGaps("ACGU"))
	assert.Equal(t, "", StripGaps("---"))

	s := Sequence{Name: "x", Residues: "-AC-"}
	u := s.Ungapped()
	assert.Equal(t, "AC", u.Residues)
	assert.Equal(t, "x", u.Name)
	assert.Equal(t, "-AC-", s.Residues, "original is unchanged")
}

func TestValidate(t *testing.T) {
	s := Sequence{Name: "q1", Residues: "AC-G"}
	assert.NoError(t, s.Validate(true))

	err := s.Validate(false)
	var se *SymbolError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Position)
	assert.Equal(t, byte('-'), se.Symbol)
	assert.Equal(t, -1, se.Index)
	assert.Contains(t, err.Error(), "q1")
}
