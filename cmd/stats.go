package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/profile"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the historical success rate for a seniority/domain bucket",
	Run: func(cmd *cobra.Command, _ []string) {
		stats(cmd)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringP("seniority", "s", "", "seniority bucket (intern, junior, mid, senior, lead, principal)")
	statsCmd.Flags().StringP("domain", "D", "", "domain bucket, e.g. fintech")
}

func stats(cmd *cobra.Command) {
	ctx := context.Background()
	zl := newLogger()

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	rawSeniority, _ := cmd.Flags().GetString("seniority")
	seniority, err := profile.ParseSeniority(rawSeniority)
	if err != nil {
		zl.Fatal("invalid seniority", zap.Error(err))
	}
	domain, _ := cmd.Flags().GetString("domain")

	st, err := openStore(config)
	if err != nil {
		zl.Fatal("opening the store", zap.Error(err))
	}
	defer st.Close()

	svc, err := newService(config, st, zl)
	if err != nil {
		zl.Fatal("building the scoring service", zap.Error(err))
	}

	result, err := svc.StatsFor(ctx, seniority, domain)
	if err != nil {
		zl.Fatal("computing stats", zap.Error(err))
	}

	printJSON(result)
}
