package score

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-phmm/internal/phmm"
	"github.com/inodb/vibe-phmm/internal/seq"
)

var training = []seq.Sequence{
	{Name: "h1", Residues: "GGAC-UCCAGU"},
	{Name: "h2", Residues: "GGACAUCCAGU"},
	{Name: "h3", Residues: "GGAC-UCC-GU"},
	{Name: "h4", Residues: "GGUC-UCCAGU"},
	{Name: "h5", Residues: "GG-C-UCCAGU"},
}

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	m, err := phmm.TrainSequences(training, phmm.DefaultOptions())
	require.NoError(t, err)
	return NewScorer(m, nil)
}

func makeItems(n int) <-chan WorkItem {
	ch := make(chan WorkItem, n)
	for i := 0; i < n; i++ {
		ch <- WorkItem{
			Seq:   i,
			Query: seq.Sequence{Name: fmt.Sprintf("q%d", i), Residues: "GGACUCC"[:1+i%7]},
		}
	}
	close(ch)
	return ch
}

func TestParallelScore_OrderPreservation(t *testing.T) {
	s := newTestScorer(t)

	results := s.ParallelScore(makeItems(200), 8)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 200)
	for i, n := range collected {
		assert.Equal(t, i, n, "result %d out of order", i)
	}
}

func TestParallelScore_SingleWorker(t *testing.T) {
	s := newTestScorer(t)

	results := s.ParallelScore(makeItems(50), 1)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 50)
	for i, n := range collected {
		assert.Equal(t, i, n)
	}
}

func TestParallelScore_MatchesSerial(t *testing.T) {
	s := newTestScorer(t)

	results := s.ParallelScore(makeItems(30), 4)
	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		want, err := s.Score(r.Query)
		require.NoError(t, err)
		assert.Equal(t, r.Query.Name, r.Result.ID)
		assert.Equal(t, want.Alignment, r.Result.Alignment)
		return nil
	})
	require.NoError(t, err)
}

func TestParallelScore_EmptyInput(t *testing.T) {
	s := newTestScorer(t)

	ch := make(chan WorkItem)
	close(ch)
	results := s.ParallelScore(ch, 4)

	count := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOrderedCollect_EarlyError(t *testing.T) {
	s := newTestScorer(t)

	results := s.ParallelScore(makeItems(100), 4)

	count := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		count++
		if count == 5 {
			return fmt.Errorf("stop at 5")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 5, count)
}

func TestParallelScore_ErrorsCarried(t *testing.T) {
	s := newTestScorer(t)

	ch := make(chan WorkItem, 2)
	ch <- WorkItem{Seq: 0, Query: seq.Sequence{Name: "bad", Residues: "GGNC"}}
	ch <- WorkItem{Seq: 1, Query: seq.Sequence{Name: "empty", Residues: "--"}}
	close(ch)

	var errs []error
	err := OrderedCollect(s.ParallelScore(ch, 2), func(r WorkResult) error {
		errs = append(errs, r.Err)
		assert.Nil(t, r.Result)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, errs, 2)

	var se *seq.SymbolError
	assert.ErrorAs(t, errs[0], &se)
	assert.ErrorIs(t, errs[1], phmm.ErrEmptyQuery)
}
