package cmd

import (
	"context"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/history"
)

var outcomeCmd = &cobra.Command{
	Use:   "outcome [match-result-id]",
	Short: "Record the real-world outcome of an application",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		recordOutcome(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(outcomeCmd)

	outcomeCmd.Flags().StringP("outcome", "o", "", "outcome value, prompts interactively when unset")
}

func recordOutcome(cmd *cobra.Command, matchResultID string) {
	ctx := context.Background()
	zl := newLogger()

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	raw, _ := cmd.Flags().GetString("outcome")
	if raw == "" {
		raw = selectOutcome(zl)
	}

	outcome, err := history.ParseOutcome(raw)
	if err != nil {
		zl.Fatal("invalid outcome", zap.Error(err))
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

	record, err := svc.RecordOutcome(ctx, matchResultID, outcome)
	if err != nil {
		zl.Fatal("recording outcome", zap.Error(err))
	}

	printJSON(record)
}

func selectOutcome(zl *zap.Logger) string {
	items := make([]string, 0, len(history.Outcomes))
	for _, o := range history.Outcomes {
		items = append(items, string(o))
	}

	prompt := promptui.Select{
		Label: "Outcome",
		Items: items,
	}

	_, choice, err := prompt.Run()
	if err != nil {
		zl.Fatal("exiting", zap.Error(err))
	}
	return choice
}
