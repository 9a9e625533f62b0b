package phmm

import (
	"strconv"
	"strings"
)

// Path is a sequence of hidden states from the begin state to the end state.
type Path []State

// Path reconstructs the best state path by walking the recorded predecessors
// back from the terminal cell. Once the walk reaches the first row the
// remaining model positions are Deletes; once it reaches the first column the
// remaining residues are Inserts.
func (l *Lattice) Path() Path {
	i, k := l.rows-1, l.cols-1
	s, _ := l.Terminal()

	rev := make(Path, 0, i+k)
	for i > 0 && k > 0 {
		rev = append(rev, s)
		prev := l.at(i, k).from[s]
		switch s {
		case Match:
			i--
			k--
		case Insert:
			i--
		case Delete:
			k--
		}
		s = prev
	}
	for ; k > 0; k-- {
		rev = append(rev, Delete)
	}
	for ; i > 0; i-- {
		rev = append(rev, Insert)
	}

	path := make(Path, len(rev))
	for j, st := range rev {
		path[len(rev)-1-j] = st
	}
	return path
}

// Count returns the number of steps in state s.
func (p Path) Count(s State) int {
	n := 0
	for _, st := range p {
		if st == s {
			n++
		}
	}
	return n
}

// Runs returns the lengths of the maximal runs of consecutive s states.
func (p Path) Runs(s State) []int {
	var runs []int
	n := 0
	for _, st := range p {
		if st == s {
			n++
			continue
		}
		if n > 0 {
			runs = append(runs, n)
			n = 0
		}
	}
	if n > 0 {
		runs = append(runs, n)
	}
	return runs
}

// Positions returns the model position of every step: the position a Match
// or Delete consumes, or the region an Insert falls into.
func (p Path) Positions() []int {
	pos := make([]int, len(p))
	k := 0
	for j, st := range p {
		if st != Insert {
			k++
		}
		pos[j] = k
	}
	return pos
}

// String returns the one-letter state labels, e.g. "MMIM".
func (p Path) String() string {
	var sb strings.Builder
	sb.Grow(len(p))
	for _, st := range p {
		sb.WriteString(st.String())
	}
	return sb.String()
}

// Format returns the states labelled with their model positions,
// e.g. "M1 M2 I2 M3".
func (p Path) Format() string {
	pos := p.Positions()
	parts := make([]string, len(p))
	for j, st := range p {
		parts[j] = st.String() + strconv.Itoa(pos[j])
	}
	return strings.Join(parts, " ")
}
