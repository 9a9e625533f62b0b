// Package chain decodes observation strings with a fully connected
// linear-chain hidden Markov model.
package chain

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrEmptyObservation is returned when there is nothing to decode.
var ErrEmptyObservation = errors.New("observation sequence is empty")

// Model is a linear-chain HMM over single-character states and symbols.
type Model struct {
	States  string // one label per hidden state
	Symbols string // observation alphabet

	start []float64
	trans *mat.Dense // states × states
	emit  *mat.Dense // states × symbols
}

// New validates the distributions and builds a model. Every row of trans and
// emit, and start itself, must sum to one.
func New(states, symbols string, start []float64, trans, emit *mat.Dense) (*Model, error) {
	n := len(states)
	if n == 0 || len(symbols) == 0 {
		return nil, errors.New("model needs at least one state and one symbol")
	}
	if len(start) != n {
		return nil, fmt.Errorf("start distribution has %d entries, want %d", len(start), n)
	}
	if r, c := trans.Dims(); r != n || c != n {
		return nil, fmt.Errorf("transition matrix is %dx%d, want %dx%d", r, c, n, n)
	}
	if r, c := emit.Dims(); r != n || c != len(symbols) {
		return nil, fmt.Errorf("emission matrix is %dx%d, want %dx%d", r, c, n, len(symbols))
	}

	if err := checkDistribution("start", start); err != nil {
		return nil, err
	}
	for s := 0; s < n; s++ {
		if err := checkDistribution(fmt.Sprintf("transitions from %c", states[s]), mat.Row(nil, s, trans)); err != nil {
			return nil, err
		}
		if err := checkDistribution(fmt.Sprintf("emissions of %c", states[s]), mat.Row(nil, s, emit)); err != nil {
			return nil, err
		}
	}

	return &Model{
		States:  states,
		Symbols: symbols,
		start:   start,
		trans:   trans,
		emit:    emit,
	}, nil
}

func checkDistribution(name string, p []float64) error {
	for _, v := range p {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%s: negative or NaN probability %v", name, v)
		}
	}
	if sum := floats.Sum(p); math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%s: probabilities sum to %v", name, sum)
	}
	return nil
}

// DishonestCasino returns the fair/loaded dice model: a fair die (F) rolls
// every face with probability 1/6, a loaded die (L) rolls a six half of the
// time.
func DishonestCasino() *Model {
	m, err := New("FL", "123456",
		[]float64{0.5, 0.5},
		mat.NewDense(2, 2, []float64{
			0.95, 0.05,
			0.1, 0.9,
		}),
		mat.NewDense(2, 6, []float64{
			1.0 / 6, 1.0 / 6, 1.0 / 6, 1.0 / 6, 1.0 / 6, 1.0 / 6,
			0.1, 0.1, 0.1, 0.1, 0.1, 0.5,
		}),
	)
	if err != nil {
		panic(err)
	}
	return m
}

// SymbolError reports an observation outside the model's alphabet.
type SymbolError struct {
	Position int
	Symbol   byte
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("invalid observation %q at position %d", e.Symbol, e.Position)
}

// Result is the most probable state sequence for an observation string.
type Result struct {
	States string
	Score  float64 // natural-log joint probability of the states and observations
}

// Decode runs Viterbi in log space. Ties favor the state listed first.
func (m *Model) Decode(obs string) (Result, error) {
	if obs == "" {
		return Result{}, ErrEmptyObservation
	}

	xs := make([]int, len(obs))
	for t := 0; t < len(obs); t++ {
		x := strings.IndexByte(m.Symbols, obs[t])
		if x < 0 {
			return Result{}, &SymbolError{Position: t, Symbol: obs[t]}
		}
		xs[t] = x
	}

	n := len(m.States)
	var logTrans, logEmit mat.Dense
	logTrans.Apply(func(_, _ int, v float64) float64 { return math.Log(v) }, m.trans)
	logEmit.Apply(func(_, _ int, v float64) float64 { return math.Log(v) }, m.emit)

	lp := make([]float64, len(obs)*n)
	back := make([]int, len(obs)*n)
	for s := 0; s < n; s++ {
		lp[s] = math.Log(m.start[s]) + logEmit.At(s, xs[0])
	}

	cand := make([]float64, n)
	for t := 1; t < len(obs); t++ {
		prev := lp[(t-1)*n : t*n]
		for s := 0; s < n; s++ {
			for p := 0; p < n; p++ {
				cand[p] = prev[p] + logTrans.At(p, s)
			}
			best := floats.MaxIdx(cand)
			lp[t*n+s] = cand[best] + logEmit.At(s, xs[t])
			back[t*n+s] = best
		}
	}

	last := lp[(len(obs)-1)*n:]
	s := floats.MaxIdx(last)
	score := last[s]

	states := make([]byte, len(obs))
	for t := len(obs) - 1; t >= 0; t-- {
		states[t] = m.States[s]
		s = back[t*n+s]
	}

	return Result{States: string(states), Score: score}, nil
}
