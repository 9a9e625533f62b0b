package phmm

import (
	"fmt"

	"github.com/inodb/vibe-phmm/internal/seq"
)

// Model is a trained profile HMM. It is read-only after Train returns and
// safe for concurrent decoding.
type Model struct {
	// Length is the number of match positions (M).
	Length int

	// Match emissions for positions 1..M, stored at index k-1.
	Match []Emission

	// Insert emissions for regions 0..M.
	Insert []Emission

	// Begin is the distribution out of the begin state, indexed by the
	// target: Match and Delete at position 1, Insert in region 0.
	Begin Triple

	// Nodes holds the transitions out of positions 0..M-1. Position 0 has
	// no Match state; its Match row is never used.
	Nodes []Node

	// Exit holds the transitions out of position M.
	Exit [NumStates]Split

	structure Structure
	sequences int
}

// Train estimates a model from a validated alignment.
func Train(aln *seq.Alignment, opts Options) (*Model, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	st := DiscoverStructure(aln)
	match, insert := estimateEmissions(aln, st, opts.Pseudocount)
	begin, nodes, exit := countTransitions(aln, st).estimate(opts.Pseudocount)

	return &Model{
		Length:    st.Length,
		Match:     match,
		Insert:    insert,
		Begin:     begin,
		Nodes:     nodes,
		Exit:      exit,
		structure: st,
		sequences: aln.Count(),
	}, nil
}

// TrainSequences validates seqs as an alignment and trains a model on it.
func TrainSequences(seqs []seq.Sequence, opts Options) (*Model, error) {
	aln, err := seq.NewAlignment(seqs)
	if err != nil {
		return nil, fmt.Errorf("invalid training alignment: %w", err)
	}
	return Train(aln, opts)
}

// Structure returns the column classification the model was built from.
func (m *Model) Structure() Structure {
	return m.structure
}

// Sequences returns the number of training sequences.
func (m *Model) Sequences() int {
	return m.sequences
}

// MatchEmission returns the emission distribution of match position k (1..M).
func (m *Model) MatchEmission(k int) Emission {
	return m.Match[k-1]
}

// InsertEmission returns the emission distribution of insert region r (0..M).
func (m *Model) InsertEmission(r int) Emission {
	return m.Insert[r]
}

// Transition returns the probability of moving from state from at position k
// to state to. At k = 0 the Match source is the begin state. At k = M a Match
// target is the end state; Delete has no target there and gets probability 0.
func (m *Model) Transition(from State, k int, to State) float64 {
	switch {
	case k == 0 && from == Match:
		return m.Begin[to]
	case k == m.Length:
		switch to {
		case Match:
			return m.Exit[from].End
		case Insert:
			return m.Exit[from].Insert
		}
		return 0
	}
	return m.Nodes[k].From[from][to]
}
