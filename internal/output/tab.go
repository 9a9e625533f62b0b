// Package output provides result formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-phmm/internal/phmm"
	"github.com/inodb/vibe-phmm/internal/score"
)

// Row is one line of the results table, independent of where the values
// came from (a fresh decode or the result store).
type Row struct {
	ID             string
	Length         int
	Score          float64
	MatchFraction  float64
	MeanMatchRun   float64
	MatchHit       bool
	HasThreshold   bool
	AboveThreshold bool
	Path           string
}

// ResultRow converts a scored query to a row. positions selects the
// position-labelled path ("M1 M2 I2 M3") over the one-letter form.
func ResultRow(r *score.Result, positions bool) Row {
	return Row{
		ID:             r.ID,
		Length:         len(r.Alignment.Query),
		Score:          r.Alignment.Score,
		MatchFraction:  r.Class.MatchHit.Q,
		MeanMatchRun:   r.Class.MatchHit.L,
		MatchHit:       r.Class.MatchHit.Accept,
		HasThreshold:   r.Class.HasThreshold,
		AboveThreshold: r.Class.AboveThreshold,
		Path:           pathString(r.Alignment.Path, positions),
	}
}

func pathString(p phmm.Path, positions bool) string {
	if positions {
		return p.Format()
	}
	return p.String()
}

// TabWriter writes scored queries in tab-delimited format.
type TabWriter struct {
	w             *bufio.Writer
	columns       []string
	showPath      bool
	pathPositions bool
}

// NewTabWriter creates a new tab-delimited writer. When showPath is set a
// final column carries the decoded state path.
func NewTabWriter(w io.Writer, showPath bool) *TabWriter {
	columns := []string{
		"#Query",
		"Length",
		"Score",
		"Match_fraction",
		"Mean_match_run",
		"Match_hit",
		"Above_threshold",
	}
	if showPath {
		columns = append(columns, "Path")
	}
	return &TabWriter{
		w:        bufio.NewWriter(w),
		columns:  columns,
		showPath: showPath,
	}
}

// SetPathPositions labels every state of the path column with its model
// position.
func (tw *TabWriter) SetPathPositions(on bool) {
	tw.pathPositions = on
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single result.
func (tw *TabWriter) Write(r *score.Result) error {
	return tw.WriteRow(ResultRow(r, tw.pathPositions))
}

// WriteRow writes a single row. The threshold column is '-' when the row
// has no threshold verdict.
func (tw *TabWriter) WriteRow(r Row) error {
	threshold := "-"
	if r.HasThreshold {
		threshold = flag(r.AboveThreshold)
	}

	values := []string{
		r.ID,
		strconv.Itoa(r.Length),
		strconv.FormatFloat(r.Score, 'f', 6, 64),
		strconv.FormatFloat(r.MatchFraction, 'f', 4, 64),
		strconv.FormatFloat(r.MeanMatchRun, 'f', 4, 64),
		flag(r.MatchHit),
		threshold,
	}
	if tw.showPath {
		values = append(values, r.Path)
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
