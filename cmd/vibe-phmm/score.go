package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-phmm/internal/classify"
	"github.com/inodb/vibe-phmm/internal/duckdb"
	"github.com/inodb/vibe-phmm/internal/output"
	"github.com/inodb/vibe-phmm/internal/phmm"
	"github.com/inodb/vibe-phmm/internal/score"
	"github.com/inodb/vibe-phmm/internal/seqio"
)

func newScoreCmd() *cobra.Command {
	var (
		outputFile  string
		showPath    bool
		positions   bool
		noThreshold bool
		summary     bool
		skipInvalid bool
	)

	cmd := &cobra.Command{
		Use:   "score <msa> <queries>",
		Short: "Score query sequences against a model trained on an alignment",
		Long: `Train a profile HMM from <msa>, then decode every sequence in <queries>
against it. Each query gets its Viterbi score and both classification rules:
the minimum-score threshold derived from the training sequences and the
match-hit rule on the decoded state path.

Either file may be paired-line or FASTA, optionally gzipped. Use '-' for
stdin. A query with a symbol outside ACGU and '-' stops the run unless
--skip-invalid is given.`,
		Example: `  vibe-phmm score trna.txt queries.fa
  vibe-phmm score --show-path --results-db runs.duckdb trna.txt queries.fa
  vibe-phmm score --path-positions trna.txt queries.fa
  vibe-phmm score --match-q 0.9 --match-l 5 trna.txt - < queries.txt`,
		Args: exactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"pseudocount":      "pseudocount",
				"threshold-n":      "threshold.n",
				"threshold-factor": "threshold.factor",
				"match-q":          "matchhit.q",
				"match-l":          "matchhit.l",
				"workers":          "workers",
				"results-db":       "results.db",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if outputFile != "" && outputFile != "-" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			var summaryOut io.Writer
			if summary {
				summaryOut = cmd.ErrOrStderr()
			}
			return runScore(commandLogger(cmd), out, summaryOut, args[0], args[1], scoreOptions{
				showPath:      showPath || positions,
				pathPositions: positions,
				useThreshold:  !noThreshold,
				skipInvalid:   skipInvalid,
			})
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&showPath, "show-path", false, "Add the decoded state path column")
	cmd.Flags().BoolVar(&positions, "path-positions", false, "Label path states with their model positions (implies --show-path)")
	cmd.Flags().BoolVar(&noThreshold, "no-threshold", false, "Skip the minimum-score threshold rule")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print classification counts to stderr")
	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "Log and skip queries that cannot be decoded")
	cmd.Flags().Float64("pseudocount", phmm.DefaultPseudocount, "Laplace pseudocount added to every count")
	cmd.Flags().Int("threshold-n", classify.DefaultN, "Training sequences scored for the minimum-score threshold")
	cmd.Flags().Float64("threshold-factor", classify.DefaultFactor, "Factor applied to the lowest training score")
	cmd.Flags().Float64("match-q", classify.DefaultQ, "Minimum fraction of residues emitted by Match states")
	cmd.Flags().Float64("match-l", classify.DefaultL, "Minimum mean length of Match runs")
	cmd.Flags().Int("workers", 0, "Scoring goroutines (0 = number of CPUs)")
	cmd.Flags().String("results-db", "", "DuckDB file to store results in")

	return cmd
}

type scoreOptions struct {
	showPath      bool
	pathPositions bool
	useThreshold  bool
	skipInvalid   bool
}

func runScore(logger *zap.Logger, w, summaryOut io.Writer, msaPath, queryPath string, so scoreOptions) error {
	defer logger.Sync()

	m, training, err := trainFromFile(logger, msaPath)
	if err != nil {
		return err
	}
	if m.Length == 0 {
		return fmt.Errorf("train %s: %w", msaPath, phmm.ErrNoMatchColumns)
	}

	opts := classify.Options{
		N:      viper.GetInt("threshold.n"),
		Factor: viper.GetFloat64("threshold.factor"),
		Q:      viper.GetFloat64("matchhit.q"),
		L:      viper.GetFloat64("matchhit.l"),
	}
	if !so.useThreshold {
		training = nil
	}
	c, err := classify.New(m, training, opts)
	if err != nil {
		return fmt.Errorf("minimum-score threshold: %w", err)
	}
	if t, ok := c.Threshold(); ok {
		logger.Info("minimum-score threshold",
			zap.Int("sequences", t.N),
			zap.Float64("min_score", t.Min),
			zap.Float64("factor", t.Factor),
			zap.Float64("threshold", t.Value))
	}

	parser, err := seqio.NewParser(queryPath)
	if err != nil {
		return err
	}
	defer parser.Close()

	tab := output.NewTabWriter(w, so.showPath)
	tab.SetPathPositions(so.pathPositions)
	if err := tab.WriteHeader(); err != nil {
		return err
	}
	sum := output.NewSummaryWriter()
	writers := []score.ResultWriter{tab, sum}

	var dbWriter *duckdb.ResultWriter
	if dbPath := viper.GetString("results.db"); dbPath != "" {
		store, err := duckdb.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		key, err := prepareResultStore(store, msaPath, m)
		if err != nil {
			return err
		}
		dbWriter = store.NewResultWriter(key, 0)
		writers = append(writers, dbWriter)
	}

	scorer := score.NewScorer(m, c)
	scorer.SetLogger(logger)
	scorer.SetSkipInvalid(so.skipInvalid)

	stats, err := scorer.Run(parser, viper.GetInt("workers"), writers...)
	if flushErr := tab.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}
	if dbWriter != nil {
		if err := dbWriter.Flush(); err != nil {
			return fmt.Errorf("store results: %w", err)
		}
		logger.Debug("stored results", zap.Int("rows", dbWriter.Written()))
	}

	logger.Info("scored queries",
		zap.String("queries", queryPath),
		zap.Stringer("format", parser.Format()),
		zap.Int("lines", parser.LineNumber()),
		zap.Int("scored", stats.Scored),
		zap.Int("failed", stats.Failed))
	logger.Debug("classification", zap.Any("categories", sum.Counts()))

	if summaryOut != nil {
		sum.WriteSummary(summaryOut)
	}
	return nil
}

// prepareResultStore records the training run and clears results left by a
// previous run on the same alignment. Results are keyed by the absolute
// alignment path, or "-" for stdin.
func prepareResultStore(store *duckdb.Store, msaPath string, m *phmm.Model) (string, error) {
	key := msaPath
	fp := duckdb.FileFingerprint{Path: key}
	if msaPath != "-" {
		abs, err := filepath.Abs(msaPath)
		if err != nil {
			return "", err
		}
		key = abs
		if fp, err = duckdb.StatFile(abs); err != nil {
			return "", err
		}
	}

	if err := store.ClearResults(key); err != nil {
		return "", fmt.Errorf("clear previous results: %w", err)
	}
	err := store.RecordTraining(duckdb.TrainingRun{
		Fingerprint: fp,
		Positions:   m.Length,
		Sequences:   m.Sequences(),
		Pseudocount: viper.GetFloat64("pseudocount"),
	})
	return key, err
}
