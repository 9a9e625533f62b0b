// Package classify decides whether decoded queries belong to the family a
// profile model was trained on. The two rules are independent and are never
// combined.
package classify

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/inodb/vibe-phmm/internal/phmm"
	"github.com/inodb/vibe-phmm/internal/seq"
)

// Default rule parameters.
const (
	DefaultN      = 5
	DefaultFactor = 0.9
	DefaultQ      = 0.8
	DefaultL      = 3.0
)

// Threshold is the minimum-score rule: the lowest score among the first N
// training sequences shifted by log(Factor).
type Threshold struct {
	N      int     // training sequences actually scored
	Factor float64
	Min    float64 // lowest training score
	Value  float64 // Min + log(Factor)
}

// Accept reports whether score reaches the threshold.
func (t Threshold) Accept(score float64) bool {
	return score >= t.Value
}

// MinimumScore scores the first n training sequences against m and builds the
// threshold from the lowest score. n larger than the training set uses every
// sequence. Rows with no residues are skipped.
func MinimumScore(m *phmm.Model, training []seq.Sequence, n int, factor float64) (Threshold, error) {
	if n <= 0 {
		return Threshold{}, fmt.Errorf("threshold sequence count must be positive, got %d", n)
	}
	if !(factor > 0) {
		return Threshold{}, fmt.Errorf("threshold factor must be positive, got %v", factor)
	}
	n = min(n, len(training))

	t := Threshold{Factor: factor, Min: math.Inf(1)}
	for _, s := range training[:n] {
		score, err := m.Score(s.Residues)
		if errors.Is(err, phmm.ErrEmptyQuery) {
			continue
		}
		if err != nil {
			return Threshold{}, fmt.Errorf("scoring training sequence %q: %w", s.Name, err)
		}
		t.Min = math.Min(t.Min, score)
		t.N++
	}
	if t.N == 0 {
		return Threshold{}, errors.New("no training sequence could be scored")
	}
	t.Value = t.Min + math.Log(factor)
	return t, nil
}

// MatchHit is the match-hit rule evaluated on one path.
type MatchHit struct {
	Q      float64 // fraction of query residues emitted by Match states
	L      float64 // mean length of maximal Match runs
	Accept bool
}

// EvaluateMatchHit computes Q and L for path over a query of queryLen
// residues and accepts iff Q >= q and L >= l.
func EvaluateMatchHit(path phmm.Path, queryLen int, q, l float64) MatchHit {
	var h MatchHit
	if queryLen > 0 {
		h.Q = float64(path.Count(phmm.Match)) / float64(queryLen)
	}
	if runs := path.Runs(phmm.Match); len(runs) > 0 {
		lengths := make([]float64, len(runs))
		for i, r := range runs {
			lengths[i] = float64(r)
		}
		h.L = stat.Mean(lengths, nil)
	}
	h.Accept = h.Q >= q && h.L >= l
	return h
}

// Options configures a Classifier.
type Options struct {
	N      int
	Factor float64
	Q      float64
	L      float64
}

// DefaultOptions returns the default rule parameters.
func DefaultOptions() Options {
	return Options{N: DefaultN, Factor: DefaultFactor, Q: DefaultQ, L: DefaultL}
}

// Result holds both rule outcomes for one decoded query.
type Result struct {
	MatchHit MatchHit

	// HasThreshold is false when the classifier was built without training
	// sequences; AboveThreshold is then meaningless.
	HasThreshold   bool
	AboveThreshold bool
}

// Classifier applies both rules to decoded alignments.
type Classifier struct {
	opts      Options
	threshold *Threshold
}

// New builds a classifier for m. When training is non-empty the
// minimum-score threshold is computed from it.
func New(m *phmm.Model, training []seq.Sequence, opts Options) (*Classifier, error) {
	c := &Classifier{opts: opts}
	if len(training) == 0 {
		return c, nil
	}
	t, err := MinimumScore(m, training, opts.N, opts.Factor)
	if err != nil {
		return nil, err
	}
	c.threshold = &t
	return c, nil
}

// Threshold returns the minimum-score threshold, if one was computed.
func (c *Classifier) Threshold() (Threshold, bool) {
	if c.threshold == nil {
		return Threshold{}, false
	}
	return *c.threshold, true
}

// Classify evaluates both rules on a.
func (c *Classifier) Classify(a phmm.Alignment) Result {
	r := Result{MatchHit: EvaluateMatchHit(a.Path, len(a.Query), c.opts.Q, c.opts.L)}
	if c.threshold != nil {
		r.HasThreshold = true
		r.AboveThreshold = c.threshold.Accept(a.Score)
	}
	return r
}
