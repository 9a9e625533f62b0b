package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-phmm/internal/score"
)

// QueryResult is one stored row of query_results.
type QueryResult struct {
	TrainingPath   string
	QueryID        string
	Length         int
	Score          float64
	Path           string
	MatchFraction  float64
	MeanMatchRun   float64
	MatchHit       bool
	HasThreshold   bool
	AboveThreshold bool
}

// NewQueryResult converts a scored query into a row for trainingPath.
func NewQueryResult(trainingPath string, r *score.Result) QueryResult {
	return QueryResult{
		TrainingPath:   trainingPath,
		QueryID:        r.ID,
		Length:         len(r.Alignment.Query),
		Score:          r.Alignment.Score,
		Path:           r.Alignment.Path.String(),
		MatchFraction:  r.Class.MatchHit.Q,
		MeanMatchRun:   r.Class.MatchHit.L,
		MatchHit:       r.Class.MatchHit.Accept,
		HasThreshold:   r.Class.HasThreshold,
		AboveThreshold: r.Class.AboveThreshold,
	}
}

// WriteQueryResults batch-inserts results into DuckDB using the Appender API.
// Duplicate (training_path, query_id) entries keep the first occurrence.
func (s *Store) WriteQueryResults(results []QueryResult) error {
	if len(results) == 0 {
		return nil
	}

	type key struct{ training, query string }
	seen := make(map[key]bool, len(results))
	deduped := make([]QueryResult, 0, len(results))
	for _, r := range results {
		k := key{r.TrainingPath, r.QueryID}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, r)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "query_results")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range deduped {
		if err := appender.AppendRow(
			r.TrainingPath, r.QueryID, int64(r.Length), r.Score, r.Path,
			r.MatchFraction, r.MeanMatchRun,
			r.MatchHit, r.HasThreshold, r.AboveThreshold,
		); err != nil {
			return fmt.Errorf("append query result: %w", err)
		}
	}

	return appender.Flush()
}

// ClearResults removes the stored results of trainingPath, or all results
// when trainingPath is empty.
func (s *Store) ClearResults(trainingPath string) error {
	if trainingPath == "" {
		_, err := s.db.Exec("DELETE FROM query_results")
		return err
	}
	_, err := s.db.Exec("DELETE FROM query_results WHERE training_path=?", trainingPath)
	return err
}

const selectResults = `SELECT
	training_path, query_id, query_length, score, path,
	match_fraction, mean_match_run, match_hit, has_threshold, above_threshold
	FROM query_results`

// LookupQuery returns the stored result of queryID against trainingPath, or
// nil if there is none.
func (s *Store) LookupQuery(trainingPath, queryID string) (*QueryResult, error) {
	rows, err := s.db.Query(selectResults+` WHERE training_path=? AND query_id=?`, trainingPath, queryID)
	if err != nil {
		return nil, fmt.Errorf("query result: %w", err)
	}
	defer rows.Close()

	results, err := scanQueryResults(rows)
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return &results[0], nil
}

// ResultsForTraining returns every stored result of trainingPath, best
// score first.
func (s *Store) ResultsForTraining(trainingPath string) ([]QueryResult, error) {
	rows, err := s.db.Query(selectResults+` WHERE training_path=? ORDER BY score DESC, query_id`, trainingPath)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	return scanQueryResults(rows)
}

// scanQueryResults scans rows into QueryResult slices.
func scanQueryResults(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]QueryResult, error) {
	var results []QueryResult
	for rows.Next() {
		var r QueryResult
		var length int64
		if err := rows.Scan(
			&r.TrainingPath, &r.QueryID, &length, &r.Score, &r.Path,
			&r.MatchFraction, &r.MeanMatchRun, &r.MatchHit, &r.HasThreshold, &r.AboveThreshold,
		); err != nil {
			return nil, fmt.Errorf("scan query result: %w", err)
		}
		r.Length = int(length)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate query results: %w", err)
	}
	return results, nil
}

// ResultWriter buffers scored queries and writes them in batches. It
// satisfies score.ResultWriter.
type ResultWriter struct {
	store        *Store
	trainingPath string
	batchSize    int
	buf          []QueryResult
	seen         map[string]bool
	written      int
}

// DefaultBatchSize is the number of rows buffered before a flush.
const DefaultBatchSize = 1024

// NewResultWriter creates a writer storing results under trainingPath.
// batchSize <= 0 uses DefaultBatchSize.
func (s *Store) NewResultWriter(trainingPath string, batchSize int) *ResultWriter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &ResultWriter{
		store:        s,
		trainingPath: trainingPath,
		batchSize:    batchSize,
		seen:         make(map[string]bool),
	}
}

// Write buffers r, flushing when the batch is full. A query ID already
// written keeps its first result.
func (w *ResultWriter) Write(r *score.Result) error {
	if w.seen[r.ID] {
		return nil
	}
	w.seen[r.ID] = true
	w.buf = append(w.buf, NewQueryResult(w.trainingPath, r))
	if len(w.buf) >= w.batchSize {
		return w.Flush()
	}
	return nil
}

// Flush writes buffered rows.
func (w *ResultWriter) Flush() error {
	if err := w.store.WriteQueryResults(w.buf); err != nil {
		return err
	}
	w.written += len(w.buf)
	w.buf = w.buf[:0]
	return nil
}

// Written returns the number of rows flushed so far.
func (w *ResultWriter) Written() int {
	return w.written
}
