package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/inodb/vibe-phmm/internal/score"
)

// Category describes how the two classification rules agree on a query.
type Category string

const (
	CatBoth          Category = "both"
	CatMatchHitOnly  Category = "match_hit_only"
	CatThresholdOnly Category = "threshold_only"
	CatNeither       Category = "neither"
	CatMatchHit      Category = "match_hit"    // accepted, no threshold computed
	CatNoMatchHit    Category = "no_match_hit" // rejected, no threshold computed
)

// Categorize classifies a single result.
func Categorize(r *score.Result) Category {
	hit := r.Class.MatchHit.Accept
	if !r.Class.HasThreshold {
		if hit {
			return CatMatchHit
		}
		return CatNoMatchHit
	}
	above := r.Class.AboveThreshold
	switch {
	case hit && above:
		return CatBoth
	case hit:
		return CatMatchHitOnly
	case above:
		return CatThresholdOnly
	}
	return CatNeither
}

// SummaryWriter counts results per category.
type SummaryWriter struct {
	counts map[Category]int
	total  int
	best   *score.Result
}

// NewSummaryWriter creates an empty summary.
func NewSummaryWriter() *SummaryWriter {
	return &SummaryWriter{counts: make(map[Category]int)}
}

// Write records one result.
func (s *SummaryWriter) Write(r *score.Result) error {
	s.counts[Categorize(r)]++
	s.total++
	if s.best == nil || r.Alignment.Score > s.best.Alignment.Score {
		s.best = r
	}
	return nil
}

// Total returns the number of results recorded.
func (s *SummaryWriter) Total() int {
	return s.total
}

// Counts returns the per-category counts.
func (s *SummaryWriter) Counts() map[Category]int {
	return s.counts
}

// WriteSummary writes category counts, largest first, to w.
func (s *SummaryWriter) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "\nClassification Summary (%d queries):\n", s.total)

	type catCount struct {
		cat   Category
		count int
	}
	var sorted []catCount
	for cat, count := range s.counts {
		sorted = append(sorted, catCount{cat, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].cat < sorted[j].cat
	})

	for _, cc := range sorted {
		fmt.Fprintf(w, "  %-20s%d\n", cc.cat, cc.count)
	}
	if s.best != nil {
		fmt.Fprintf(w, "  best: %s (%.6f)\n", s.best.ID, s.best.Alignment.Score)
	}
}
