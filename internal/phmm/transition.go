package phmm

import "github.com/inodb/vibe-phmm/internal/seq"

// Node holds the transitions out of the states of one model position.
// From[s][t] is the probability of moving from state s at this position to
// state t (Match and Delete at the next position, Insert in this position's
// insert region).
type Node struct {
	From [NumStates]Triple
}

// transitionCounts accumulates observed transitions over the training set.
type transitionCounts struct {
	begin Triple
	nodes []Node // positions 0..M-1
	exit  [NumStates]Split
}

// statePath labels each column of residues with the state it implies and
// drops gaps in insert columns, which imply no state.
func statePath(residues string, st Structure) []State {
	path := make([]State, 0, len(residues))
	for j := 0; j < len(residues); j++ {
		gap := residues[j] == seq.Gap
		switch {
		case st.Match[j] && gap:
			path = append(path, Delete)
		case st.Match[j]:
			path = append(path, Match)
		case !gap:
			path = append(path, Insert)
		}
	}
	return path
}

// countTransitions walks the state path of every training sequence. Each
// transition is counted at the model position of its source state; Match and
// Delete advance the position, Insert stays in the current region.
func countTransitions(aln *seq.Alignment, st Structure) *transitionCounts {
	c := &transitionCounts{nodes: make([]Node, st.Length)}

	for _, s := range aln.Entries {
		path := statePath(s.Residues, st)
		if len(path) == 0 {
			continue
		}

		c.begin[path[0]]++
		k := 0
		if path[0] != Insert {
			k++
		}

		for t := 1; t < len(path); t++ {
			from, to := path[t-1], path[t]
			if k == st.Length {
				// Past the last match column only inserts remain.
				c.exit[from].Insert++
			} else {
				c.nodes[k].From[from][to]++
			}
			if to != Insert {
				k++
			}
		}

		c.exit[path[len(path)-1]].End++
	}

	return c
}

// estimate converts the counts to Laplace-smoothed probabilities. Begin and
// every inner triple are three-way distributions; the splits at the last
// position are two-way.
func (c *transitionCounts) estimate(pseudo float64) (begin Triple, nodes []Node, exit [NumStates]Split) {
	smooth(begin[:], c.begin[:], pseudo)

	nodes = make([]Node, len(c.nodes))
	for k := range c.nodes {
		for s := range c.nodes[k].From {
			smooth(nodes[k].From[s][:], c.nodes[k].From[s][:], pseudo)
		}
	}

	for s, counts := range c.exit {
		var p [2]float64
		smooth(p[:], []float64{counts.End, counts.Insert}, pseudo)
		exit[s] = Split{End: p[0], Insert: p[1]}
	}

	return begin, nodes, exit
}
