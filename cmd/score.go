package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score [cv-id] [job-id]",
	Short: "Score a stored CV against a stored job posting",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		score(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func score(cvID, jobID string) {
	ctx := context.Background()
	zl := newLogger()

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	st, err := openStore(config)
	if err != nil {
		zl.Fatal("opening the store", zap.Error(err))
	}
	defer st.Close()

	svc, err := newService(config, st, zl)
	if err != nil {
		zl.Fatal("building the scoring service", zap.Error(err))
	}

	result, err := svc.Score(ctx, cvID, jobID)
	if err != nil {
		zl.Fatal("scoring failed", zap.Error(err))
	}

	printJSON(result)
}
