package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-phmm/internal/chain"
	"github.com/inodb/vibe-phmm/internal/output"
)

const casinoBlockWidth = 60

func newCasinoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "casino <rolls>",
		Short: "Decode fair and loaded dice from a sequence of rolls",
		Long: `Decode which die, fair (F) or loaded (L), produced each roll using the
dishonest casino model. The input file holds the faces 1-6; line breaks are
ignored. Use '-' to read from stdin.`,
		Example: `  vibe-phmm casino rolls.txt`,
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open rolls file: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runCasino(commandLogger(cmd), cmd.OutOrStdout(), in)
		},
	}
}

func runCasino(logger *zap.Logger, w io.Writer, in io.Reader) error {
	defer logger.Sync()

	obs, err := chain.ReadObservations(in)
	if err != nil {
		return err
	}

	r, err := chain.DishonestCasino().Decode(obs)
	if err != nil {
		return err
	}

	loaded := 0
	for i := 0; i < len(r.States); i++ {
		if r.States[i] == 'L' {
			loaded++
		}
	}
	logger.Debug("decoded rolls",
		zap.Int("rolls", len(obs)),
		zap.Int("loaded", loaded),
		zap.Float64("score", r.Score))

	fmt.Fprintf(w, "Score: %.6f\n\n", r.Score)
	return output.WriteBlocks(w, casinoBlockWidth, obs, r.States)
}
