package seq

import (
	"errors"
	"fmt"
)

// ErrEmptyAlignment is returned when an alignment has no sequences or
// sequences of length zero.
var ErrEmptyAlignment = errors.New("alignment has no columns")

// Alignment is a validated multiple sequence alignment. All entries have the
// same length and contain only residues and gaps.
type Alignment struct {
	Entries []Sequence
	length  int
}

// NewAlignment validates entries and returns them as an alignment. Every
// entry must have the length of the first one and may only contain residues
// and gaps.
func NewAlignment(entries []Sequence) (*Alignment, error) {
	if len(entries) == 0 || entries[0].Len() == 0 {
		return nil, ErrEmptyAlignment
	}

	length := entries[0].Len()
	for i, s := range entries {
		if s.Len() != length {
			return nil, &LengthError{Name: s.Name, Index: i, Got: s.Len(), Want: length}
		}
	}

	for i, s := range entries {
		if err := s.Validate(true); err != nil {
			var se *SymbolError
			if errors.As(err, &se) {
				se.Index = i
			}
			return nil, err
		}
	}

	return &Alignment{Entries: entries, length: length}, nil
}

// Len returns the number of columns in the alignment.
func (a *Alignment) Len() int {
	return a.length
}

// Count returns the number of sequences in the alignment.
func (a *Alignment) Count() int {
	return len(a.Entries)
}

// Column returns the characters of column j, one per sequence.
func (a *Alignment) Column(j int) []byte {
	col := make([]byte, len(a.Entries))
	for i, s := range a.Entries {
		col[i] = s.Residues[j]
	}
	return col
}

// LengthError reports a sequence whose length differs from the alignment's.
type LengthError struct {
	Name  string
	Index int
	Got   int
	Want  int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("sequence %d (%s) has length %d, alignment length is %d", e.Index, e.Name, e.Got, e.Want)
}
