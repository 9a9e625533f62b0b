package seq

import (
	"fmt"
	"strings"
)

// Sequence is a named string of residues, possibly containing gaps.
type Sequence struct {
	Name     string // Identifier line, opaque to training and decoding
	Residues string
}

// Len returns the number of characters in the sequence, gaps included.
func (s Sequence) Len() int {
	return len(s.Residues)
}

// Ungapped returns a copy of the sequence with every gap removed.
func (s Sequence) Ungapped() Sequence {
	return Sequence{Name: s.Name, Residues: StripGaps(s.Residues)}
}

// StripGaps removes every gap character from residues.
func StripGaps(residues string) string {
	if strings.IndexByte(residues, Gap) < 0 {
		return residues
	}
	return strings.ReplaceAll(residues, string(Gap), "")
}

// Validate checks that every character is a residue, or a gap when
// allowGaps is set. The first offending character is reported.
func (s Sequence) Validate(allowGaps bool) error {
	for i := 0; i < len(s.Residues); i++ {
		b := s.Residues[i]
		if IsResidue(b) || (allowGaps && b == Gap) {
			continue
		}
		return &SymbolError{Name: s.Name, Index: -1, Position: i, Symbol: b}
	}
	return nil
}

// SymbolError reports a character outside the permitted alphabet.
type SymbolError struct {
	Name     string // Sequence identifier
	Index    int    // Row in the alignment, -1 for a query
	Position int    // Zero-based column
	Symbol   byte
}

func (e *SymbolError) Error() string {
	switch {
	case e.Name == "" && e.Index < 0:
		return fmt.Sprintf("invalid symbol %q at position %d", e.Symbol, e.Position)
	case e.Name == "":
		return fmt.Sprintf("invalid symbol %q in sequence %d at position %d", e.Symbol, e.Index, e.Position)
	}
	return fmt.Sprintf("invalid symbol %q in sequence %q at position %d", e.Symbol, e.Name, e.Position)
}
