package phmm

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/inodb/vibe-phmm/internal/seq"
)

// cell is one lattice entry: the best log probability of each track ending
// here and the track of the predecessor that produced it.
type cell struct {
	score [NumStates]float64
	from  [NumStates]State
}

// Lattice is the filled Viterbi dynamic programming table for one query.
// Row i has consumed i query residues, column k has reached position k.
type Lattice struct {
	query string
	rows  int // len(query) + 1
	cols  int // M + 1
	cells []cell
}

// Decode runs the three-track Viterbi recurrence for query. Gaps in the
// query are removed before decoding; any other character outside the
// alphabet is an error.
func (m *Model) Decode(query string) (*Lattice, error) {
	q := seq.Sequence{Residues: query}
	if err := q.Validate(true); err != nil {
		return nil, err
	}
	query = seq.StripGaps(query)
	if len(query) == 0 {
		return nil, ErrEmptyQuery
	}
	if m.Length == 0 {
		return nil, ErrNoMatchColumns
	}

	l := &Lattice{
		query: query,
		rows:  len(query) + 1,
		cols:  m.Length + 1,
	}
	l.cells = make([]cell, l.rows*l.cols)

	negInf := math.Inf(-1)
	for i := range l.cells {
		l.cells[i].score = [NumStates]float64{negInf, negInf, negInf}
	}
	l.cells[0].score[Match] = 0

	logT := m.logTransitions()
	logMatch, logInsert := m.logEmissions()

	var cand [NumStates]float64
	for i := 1; i < l.rows; i++ {
		x := seq.Index(query[i-1])
		for k := 1; k < l.cols; k++ {
			c := l.at(i, k)

			diag := l.at(i-1, k-1)
			for s := range cand {
				cand[s] = diag.score[s] + logT[k-1][s][Match]
			}
			best := floats.MaxIdx(cand[:])
			c.score[Match] = logMatch[k-1][x] + cand[best]
			c.from[Match] = State(best)

			up := l.at(i-1, k)
			for s := range cand {
				cand[s] = up.score[s] + logT[k][s][Insert]
			}
			best = floats.MaxIdx(cand[:])
			c.score[Insert] = logInsert[k][x] + cand[best]
			c.from[Insert] = State(best)

			left := l.at(i, k-1)
			for s := range cand {
				cand[s] = left.score[s] + logT[k-1][s][Delete]
			}
			best = floats.MaxIdx(cand[:])
			c.score[Delete] = cand[best]
			c.from[Delete] = State(best)
		}
	}

	return l, nil
}

// Score decodes query and returns its alignment score.
func (m *Model) Score(query string) (float64, error) {
	l, err := m.Decode(query)
	if err != nil {
		return 0, err
	}
	return l.Score(), nil
}

// Alignment is the decoded best path of one query.
type Alignment struct {
	Query string // Residues decoded, gaps removed
	Score float64
	Path  Path
}

// Align decodes query and reconstructs its best path.
func (m *Model) Align(query string) (Alignment, error) {
	l, err := m.Decode(query)
	if err != nil {
		return Alignment{}, err
	}
	return Alignment{Query: l.Query(), Score: l.Score(), Path: l.Path()}, nil
}

// logTransitions returns logT[k][from][to] for positions 0..M.
func (m *Model) logTransitions() [][NumStates]Triple {
	logT := make([][NumStates]Triple, m.Length+1)
	for k := range logT {
		for from := Match; from <= Delete; from++ {
			for to := Match; to <= Delete; to++ {
				logT[k][from][to] = math.Log(m.Transition(from, k, to))
			}
		}
	}
	return logT
}

func (m *Model) logEmissions() (match, insert []Emission) {
	match = make([]Emission, len(m.Match))
	for k, e := range m.Match {
		for x, p := range e {
			match[k][x] = math.Log(p)
		}
	}
	insert = make([]Emission, len(m.Insert))
	for r, e := range m.Insert {
		for x, p := range e {
			insert[r][x] = math.Log(p)
		}
	}
	return match, insert
}

func (l *Lattice) at(i, k int) *cell {
	return &l.cells[i*l.cols+k]
}

// Query returns the decoded query with gaps removed.
func (l *Lattice) Query() string {
	return l.query
}

// Cell returns the score of track s at (i, k) and the track it came from.
func (l *Lattice) Cell(i, k int, s State) (float64, State) {
	c := l.at(i, k)
	return c.score[s], c.from[s]
}

// Terminal returns the best track at the final cell and its score. Ties
// favor Match, then Insert, then Delete.
func (l *Lattice) Terminal() (State, float64) {
	c := l.at(l.rows-1, l.cols-1)
	best := floats.MaxIdx(c.score[:])
	return State(best), c.score[best]
}

// Score returns the log probability of the best path.
func (l *Lattice) Score() float64 {
	_, score := l.Terminal()
	return score
}
