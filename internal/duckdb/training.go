package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
)

// TrainingRun describes the training file and model that produced a set of
// stored results.
type TrainingRun struct {
	Fingerprint FileFingerprint
	Positions   int
	Sequences   int
	Pseudocount float64
}

// RecordTraining stores or replaces the training run for run.Fingerprint.Path.
func (s *Store) RecordTraining(run TrainingRun) error {
	fp := run.Fingerprint
	_, err := s.db.Exec(`INSERT OR REPLACE INTO training_runs VALUES (?, ?, ?, ?, ?, ?)`,
		fp.Path, fp.Size, fp.ModTime.UTC(), int64(run.Positions), int64(run.Sequences), run.Pseudocount)
	if err != nil {
		return fmt.Errorf("record training run: %w", err)
	}
	return nil
}

// LookupTraining returns the stored training run for path, or nil if none.
func (s *Store) LookupTraining(path string) (*TrainingRun, error) {
	var run TrainingRun
	var positions, sequences int64
	err := s.db.QueryRow(`SELECT training_path, training_size, training_modtime,
		positions, sequences, pseudocount
		FROM training_runs WHERE training_path=?`, path).Scan(
		&run.Fingerprint.Path, &run.Fingerprint.Size, &run.Fingerprint.ModTime,
		&positions, &sequences, &run.Pseudocount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query training run: %w", err)
	}
	run.Positions = int(positions)
	run.Sequences = int(sequences)
	return &run, nil
}

// TrainingCurrent reports whether the stored run for fp.Path was produced
// from a file with the same size and modification time.
func (s *Store) TrainingCurrent(fp FileFingerprint) (bool, error) {
	run, err := s.LookupTraining(fp.Path)
	if err != nil || run == nil {
		return false, err
	}
	return run.Fingerprint.Matches(fp), nil
}
