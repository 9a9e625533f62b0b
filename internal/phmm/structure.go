package phmm

import (
	"bytes"

	"github.com/inodb/vibe-phmm/internal/seq"
)

// Structure records which alignment columns are match columns.
type Structure struct {
	Match  []bool // Match[j] is true if column j is a match column
	Length int    // Number of match columns (M)
}

// DiscoverStructure classifies every column of aln. A column is a match
// column when strictly fewer than half of its entries are gaps.
func DiscoverStructure(aln *seq.Alignment) Structure {
	n := aln.Count()
	st := Structure{Match: make([]bool, aln.Len())}
	for j := 0; j < aln.Len(); j++ {
		gaps := bytes.Count(aln.Column(j), []byte{seq.Gap})
		if 2*gaps < n {
			st.Match[j] = true
			st.Length++
		}
	}
	return st
}

// Columns returns the zero-based alignment columns of the match positions,
// in model order.
func (st Structure) Columns() []int {
	cols := make([]int, 0, st.Length)
	for j, m := range st.Match {
		if m {
			cols = append(cols, j)
		}
	}
	return cols
}
