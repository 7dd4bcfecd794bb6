package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Extract a structured record from a raw document and store it",
}

var ingestCVCmd = &cobra.Command{
	Use:   "cv [file]",
	Short: "Extract a CV profile from a text file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ingestCV(args[0])
	},
}

var ingestJobCmd = &cobra.Command{
	Use:   "job [file]",
	Short: "Extract a job posting from a text file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ingestJob(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.AddCommand(ingestCVCmd)
	ingestCmd.AddCommand(ingestJobCmd)

	ingestJobCmd.Flags().String("url", "", "posting url")
	ingestJobCmd.Flags().Int("applicants", -1, "applicant count reported by the source, -1 when unknown")
	ingestJobCmd.Flags().Int("age-days", 0, "posting age in days")
}

func ingestCV(path string) {
	ctx := context.Background()
	zl := newLogger()

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		zl.Fatal("reading cv file", zap.Error(err), zap.String("path", path))
	}

	extractor, err := newExtractor(ctx, config, zl)
	if err != nil {
		zl.Fatal("building the extractor", zap.Error(err))
	}

	cv, err := extractor.ExtractCV(ctx, string(raw))
	if err != nil {
		zl.Fatal("extracting cv", zap.Error(err))
	}

	st, err := openStore(config)
	if err != nil {
		zl.Fatal("opening the store", zap.Error(err))
	}
	defer st.Close()

	id, err := st.SaveCV(ctx, cv)
	if err != nil {
		zl.Fatal("saving cv", zap.Error(err))
	}

	zl.Info("cv ingested", zap.String("cv_id", id), zap.Int("skills", len(cv.Skills)))
	printJSON(cv)
}

func ingestJob(cmd *cobra.Command, path string) {
	ctx := context.Background()
	zl := newLogger()

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		zl.Fatal("reading job file", zap.Error(err), zap.String("path", path))
	}

	extractor, err := newExtractor(ctx, config, zl)
	if err != nil {
		zl.Fatal("building the extractor", zap.Error(err))
	}

	job, err := extractor.ExtractJob(ctx, string(raw))
	if err != nil {
		zl.Fatal("extracting job", zap.Error(err))
	}

	// Source metadata the posting text cannot carry.
	job.URL, _ = cmd.Flags().GetString("url")
	job.PostingAgeDays, _ = cmd.Flags().GetInt("age-days")
	if applicants, _ := cmd.Flags().GetInt("applicants"); applicants >= 0 {
		job.ApplicantCount = &applicants
	}

	st, err := openStore(config)
	if err != nil {
		zl.Fatal("opening the store", zap.Error(err))
	}
	defer st.Close()

	id, err := st.SaveJob(ctx, job)
	if err != nil {
		zl.Fatal("saving job", zap.Error(err))
	}

	zl.Info("job ingested", zap.String("job_id", id), zap.String("title", job.Title))
	printJSON(job)
}
