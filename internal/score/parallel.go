package score

import (
	"runtime"
	"sync"

	"github.com/inodb/vibe-phmm/internal/seq"
)

// WorkItem is a query numbered by its position in the input.
type WorkItem struct {
	Seq   int
	Query seq.Sequence
}

// WorkResult is the outcome of scoring one WorkItem. Exactly one of Result
// and Err is set.
type WorkResult struct {
	Seq    int
	Query  seq.Sequence
	Result *Result
	Err    error
}

// ParallelScore decodes items on a fixed number of goroutines, NumCPU when
// workers <= 0. The returned channel yields results as they finish and is
// closed once items is drained; pass it to OrderedCollect to restore input
// order.
func (s *Scorer) ParallelScore(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	out := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.scoreWorker(items, out)
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

func (s *Scorer) scoreWorker(items <-chan WorkItem, out chan<- WorkResult) {
	for it := range items {
		r, err := s.Score(it.Query)
		out <- WorkResult{Seq: it.Seq, Query: it.Query, Result: r, Err: err}
	}
}

// OrderedCollect passes results to fn by ascending Seq, starting at 0, and
// returns when results is closed. If fn fails, the rest of results is
// discarded so that producers can exit, and the error is returned.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	held := make(map[int]WorkResult)
	want := 0

	for r := range results {
		held[r.Seq] = r
		for next, ok := held[want]; ok; next, ok = held[want] {
			delete(held, want)
			want++
			if err := fn(next); err != nil {
				for range results {
				}
				return err
			}
		}
	}
	return nil
}
