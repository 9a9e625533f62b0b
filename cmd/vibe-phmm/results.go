package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-phmm/internal/duckdb"
	"github.com/inodb/vibe-phmm/internal/output"
)

func newResultsCmd() *cobra.Command {
	var queryID string

	cmd := &cobra.Command{
		Use:   "results <msa>",
		Short: "Show stored scoring results for an alignment",
		Long: `Show the results a previous 'score --results-db' run stored for <msa>,
best score first. A warning is logged when the alignment file has changed
since the results were stored.`,
		Example: `  vibe-phmm results --results-db runs.duckdb trna.txt
  vibe-phmm results --results-db runs.duckdb --query q17 trna.txt`,
		Args: exactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{"results-db": "results.db"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResults(commandLogger(cmd), cmd.OutOrStdout(), args[0], queryID)
		},
	}

	cmd.Flags().String("results-db", "", "DuckDB file holding stored results")
	cmd.Flags().StringVar(&queryID, "query", "", "Show only this query")

	return cmd
}

func runResults(logger *zap.Logger, w io.Writer, msaPath, queryID string) error {
	dbPath := viper.GetString("results.db")
	if dbPath == "" {
		return &usageError{errors.New("no results database: set --results-db or results.db")}
	}

	defer logger.Sync()

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	key := msaPath
	if msaPath != "-" {
		if key, err = filepath.Abs(msaPath); err != nil {
			return err
		}
		warnIfStale(logger, store, key)
	}

	var results []duckdb.QueryResult
	if queryID != "" {
		r, err := store.LookupQuery(key, queryID)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("no stored result for query %q", queryID)
		}
		results = append(results, *r)
	} else {
		if results, err = store.ResultsForTraining(key); err != nil {
			return err
		}
	}

	tw := output.NewTabWriter(w, true)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, r := range results {
		if err := tw.WriteRow(storedRow(r)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func storedRow(r duckdb.QueryResult) output.Row {
	return output.Row{
		ID:             r.QueryID,
		Length:         r.Length,
		Score:          r.Score,
		MatchFraction:  r.MatchFraction,
		MeanMatchRun:   r.MeanMatchRun,
		MatchHit:       r.MatchHit,
		HasThreshold:   r.HasThreshold,
		AboveThreshold: r.AboveThreshold,
		Path:           r.Path,
	}
}

// warnIfStale logs a warning when the alignment at path no longer matches
// the training run the stored results came from.
func warnIfStale(logger *zap.Logger, store *duckdb.Store, path string) {
	fp, err := duckdb.StatFile(path)
	if err != nil {
		logger.Warn("alignment file not readable; stored results may be stale", zap.Error(err))
		return
	}
	current, err := store.TrainingCurrent(fp)
	if err != nil {
		logger.Warn("checking stored training run", zap.Error(err))
		return
	}
	if !current {
		logger.Warn("alignment changed since results were stored",
			zap.String("alignment", path))
	}
}
