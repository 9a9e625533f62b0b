// Package score decodes query sequences against a trained profile model and
// classifies them.
package score

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-phmm/internal/classify"
	"github.com/inodb/vibe-phmm/internal/phmm"
	"github.com/inodb/vibe-phmm/internal/seq"
)

// Result is one scored query.
type Result struct {
	ID        string
	Alignment phmm.Alignment
	Class     classify.Result
}

// Scorer aligns queries to a model and applies the classifier.
type Scorer struct {
	model      *phmm.Model
	classifier *classify.Classifier
	logger     *zap.Logger
	skip       bool
}

// NewScorer creates a scorer for model m. c may be nil to skip
// classification.
func NewScorer(m *phmm.Model, c *classify.Classifier) *Scorer {
	return &Scorer{
		model:      m,
		classifier: c,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (s *Scorer) SetLogger(l *zap.Logger) {
	s.logger = l
}

// SetSkipInvalid makes Run log and skip queries that cannot be decoded
// instead of stopping at the first one.
func (s *Scorer) SetSkipInvalid(skip bool) {
	s.skip = skip
}

// Model returns the model queries are scored against.
func (s *Scorer) Model() *phmm.Model {
	return s.model
}

// Score decodes and classifies a single query.
func (s *Scorer) Score(q seq.Sequence) (*Result, error) {
	a, err := s.model.Align(q.Residues)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", q.Name, err)
	}

	r := &Result{ID: q.Name, Alignment: a}
	if s.classifier != nil {
		r.Class = s.classifier.Classify(a)
	}
	return r, nil
}

// ResultWriter receives scored queries in input order.
type ResultWriter interface {
	Write(r *Result) error
}

// Source yields queries. Next returns nil, nil when exhausted.
type Source interface {
	Next() (*seq.Sequence, error)
}

// Summary counts the outcome of a run.
type Summary struct {
	Scored int
	Failed int
}

// Run scores every query from src on workers goroutines and passes the
// results to each writer in input order. A query that cannot be decoded stops
// the run after every earlier query has been written, unless SetSkipInvalid
// is on, in which case it is logged and skipped. A read or writer error
// always stops the run.
func (s *Scorer) Run(src Source, workers int, writers ...ResultWriter) (Summary, error) {
	var sum Summary
	var readErr error

	items := make(chan WorkItem, 64)
	go func() {
		defer close(items)
		for n := 0; ; n++ {
			q, err := src.Next()
			if err != nil {
				readErr = err
				return
			}
			if q == nil {
				return
			}
			items <- WorkItem{Seq: n, Query: *q}
		}
	}()

	err := OrderedCollect(s.ParallelScore(items, workers), func(wr WorkResult) error {
		if wr.Err != nil {
			sum.Failed++
			if !s.skip {
				return wr.Err
			}
			s.logger.Warn("skipping query",
				zap.Int("index", wr.Seq),
				zap.String("id", wr.Query.Name),
				zap.Error(wr.Err))
			return nil
		}
		sum.Scored++
		for _, w := range writers {
			if err := w.Write(wr.Result); err != nil {
				return fmt.Errorf("write result for %q: %w", wr.Query.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return sum, err
	}
	if readErr != nil {
		return sum, fmt.Errorf("read queries: %w", readErr)
	}

	s.logger.Debug("scoring complete",
		zap.Int("scored", sum.Scored),
		zap.Int("failed", sum.Failed))
	return sum, nil
}
