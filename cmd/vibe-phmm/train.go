package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-phmm/internal/output"
	"github.com/inodb/vibe-phmm/internal/phmm"
	"github.com/inodb/vibe-phmm/internal/seq"
	"github.com/inodb/vibe-phmm/internal/seqio"
)

func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train <msa>",
		Short: "Train a model and print its match positions and emissions",
		Long: `Train a profile HMM from a multiple sequence alignment and print the
match columns and the emission probabilities of every match position.

The alignment is read in paired-line format (identifier line, sequence line,
';' comments) or FASTA. Use '-' to read from stdin.`,
		Example: `  vibe-phmm train trna.txt
  vibe-phmm train --pseudocount 0.5 trna.fa.gz`,
		Args: exactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{"pseudocount": "pseudocount"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(commandLogger(cmd), cmd.OutOrStdout(), args[0])
		},
	}

	cmd.Flags().Float64("pseudocount", phmm.DefaultPseudocount, "Laplace pseudocount added to every count")

	return cmd
}

func runTrain(logger *zap.Logger, w io.Writer, msaPath string) error {
	defer logger.Sync()

	m, _, err := trainFromFile(logger, msaPath)
	if err != nil {
		return err
	}

	if err := output.WriteStructure(w, m); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return output.WriteEmissionTable(w, m)
}

// trainFromFile reads the alignment at path and trains a model with the
// configured pseudocount. The training sequences are returned for threshold
// computation.
func trainFromFile(logger *zap.Logger, path string) (*phmm.Model, []seq.Sequence, error) {
	training, err := seqio.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	opts := phmm.Options{Pseudocount: viper.GetFloat64("pseudocount")}
	m, err := phmm.TrainSequences(training, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("train %s: %w", path, err)
	}

	logger.Info("trained model",
		zap.String("alignment", path),
		zap.Int("sequences", m.Sequences()),
		zap.Int("columns", len(m.Structure().Match)),
		zap.Int("match_positions", m.Length),
		zap.Float64("pseudocount", opts.Pseudocount))
	if m.Length == 0 {
		logger.Warn("alignment has no match columns; queries cannot be scored")
	}

	return m, training, nil
}
