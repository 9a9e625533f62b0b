// Package phmm estimates profile hidden Markov models from multiple sequence
// alignments and decodes query sequences against them.
package phmm

import (
	"errors"
	"fmt"
)

// State is a hidden state at a model position.
type State uint8

// Hidden states. The numeric values index Triple and the lattice tracks.
const (
	Match State = iota
	Insert
	Delete
)

// NumStates is the number of emitting and silent states per position.
const NumStates = 3

// String returns the one-letter label of the state.
func (s State) String() string {
	switch s {
	case Match:
		return "M"
	case Insert:
		return "I"
	case Delete:
		return "D"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Triple is a distribution over the three successor states, indexed by State.
type Triple [NumStates]float64

// Sum returns the total probability mass of the triple.
func (t Triple) Sum() float64 {
	return t[Match] + t[Insert] + t[Delete]
}

// Split is the distribution out of a state at the last model position, where
// the path either ends or stays in the final insert region.
type Split struct {
	End    float64
	Insert float64
}

// DefaultPseudocount is the Laplace pseudocount used when none is configured.
const DefaultPseudocount = 1.0

// Options controls model estimation.
type Options struct {
	Pseudocount float64
}

// DefaultOptions returns options with Laplace smoothing.
func DefaultOptions() Options {
	return Options{Pseudocount: DefaultPseudocount}
}

// Validate checks that the options can produce strictly positive estimates.
func (o Options) Validate() error {
	if !(o.Pseudocount > 0) {
		return fmt.Errorf("pseudocount must be positive, got %v", o.Pseudocount)
	}
	return nil
}

// Decoding errors.
var (
	ErrEmptyQuery     = errors.New("query has no residues")
	ErrNoMatchColumns = errors.New("model has no match columns")
)
