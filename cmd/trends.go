package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show application trends across all recorded outcomes",
	Run: func(_ *cobra.Command, _ []string) {
		trends()
	},
}

func init() {
	rootCmd.AddCommand(trendsCmd)
}

func trends() {
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

	summary, err := svc.OverallTrends(ctx)
	if err != nil {
		zl.Fatal("computing trends", zap.Error(err))
	}

	printJSON(summary)
}
