package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records",
}

var listCVsCmd = &cobra.Command{
	Use:   "cvs",
	Short: "List stored CV profiles",
	Run: func(_ *cobra.Command, _ []string) {
		listCVs()
	},
}

var listAnalysesCmd = &cobra.Command{
	Use:   "analyses [cv-id]",
	Short: "List match results for a CV, newest first",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		listAnalyses(args[0])
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listCVsCmd)
	listCmd.AddCommand(listAnalysesCmd)
}

func listCVs() {
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

	cvs, err := st.ListCVs(ctx)
	if err != nil {
		zl.Fatal("listing cvs", zap.Error(err))
	}

	printJSON(cvs)
}

func listAnalyses(cvID string) {
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

	analyses, err := st.AnalysesByCV(ctx, cvID)
	if err != nil {
		zl.Fatal("listing analyses", zap.Error(err))
	}

	printJSON(analyses)
}
