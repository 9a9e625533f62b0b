package phmm

import (
	"gonum.org/v1/gonum/floats"

	"github.com/inodb/vibe-phmm/internal/seq"
)

// Emission is a distribution over the alphabet, indexed by seq.Index.
type Emission [seq.Size]float64

// Prob returns the probability of emitting residue b. b must be a residue.
func (e Emission) Prob(b byte) float64 {
	return e[seq.Index(b)]
}

// smooth writes the Laplace-smoothed relative frequencies of counts to dst:
// (count + pseudo) / (total + len(counts)*pseudo).
func smooth(dst, counts []float64, pseudo float64) {
	den := floats.Sum(counts) + float64(len(counts))*pseudo
	for i, c := range counts {
		dst[i] = (c + pseudo) / den
	}
}

// columnCounts tallies residues per alignment column. Gaps are not counted.
func columnCounts(aln *seq.Alignment) []Emission {
	counts := make([]Emission, aln.Len())
	for _, s := range aln.Entries {
		for j := 0; j < len(s.Residues); j++ {
			if x := seq.Index(s.Residues[j]); x >= 0 {
				counts[j][x]++
			}
		}
	}
	return counts
}

// estimateEmissions returns the match emissions for positions 1..M (at index
// k-1) and the insert emissions for regions 0..M. Each insert region pools
// the counts of the run of non-match columns following its match position;
// an empty run gets the uniform distribution.
func estimateEmissions(aln *seq.Alignment, st Structure, pseudo float64) (match, insert []Emission) {
	counts := columnCounts(aln)

	matchCounts := make([]Emission, 0, st.Length)
	insertCounts := make([]Emission, st.Length+1)
	region := 0
	for j, isMatch := range st.Match {
		if isMatch {
			matchCounts = append(matchCounts, counts[j])
			region++
			continue
		}
		for x := range counts[j] {
			insertCounts[region][x] += counts[j][x]
		}
	}

	match = make([]Emission, st.Length)
	for k := range matchCounts {
		smooth(match[k][:], matchCounts[k][:], pseudo)
	}
	insert = make([]Emission, st.Length+1)
	for r := range insertCounts {
		smooth(insert[r][:], insertCounts[r][:], pseudo)
	}
	return match, insert
}
