package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/extract"
	"github.com/spigell/jobmatch/internal/extract/gemini"
	"github.com/spigell/jobmatch/internal/history"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/match"
	"github.com/spigell/jobmatch/internal/secrets"
	"github.com/spigell/jobmatch/internal/store"
)

const (
	app = "jobmatch"

	defaultDatabase = "jobmatch.db"
)

type Config struct {
	Database string        `mapstructure:"database"`
	Scoring  *match.Config `mapstructure:"scoring"`
	AI       *AIConfig     `mapstructure:"ai"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobmatch scores CVs against job postings and recommends whether to apply",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("database", "JOBMATCH_DB"); err != nil {
		log.Fatalf("binding JOBMATCH_DB environment variable: %v", err)
	}
	viper.SetDefault("database", defaultDatabase)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// An explicitly named config file must parse.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app + ".yaml")

	// Every command works with built-in defaults, so a missing default
	// config file is fine.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}
	if config == nil {
		config = &Config{}
	}
	if config.Database == "" {
		config.Database = defaultDatabase
	}
	return config, nil
}

func newLogger() *zap.Logger {
	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return zl
}

func openStore(config *Config) (*store.SQLite, error) {
	return store.OpenSQLite(config.Database)
}

func newService(config *Config, st *store.SQLite, zl *zap.Logger) (*match.Service, error) {
	hist := history.NewAggregator(st, zl)
	return match.NewService(config.Scoring, st, hist, zl)
}

func newExtractor(ctx context.Context, config *Config, zl *zap.Logger) (*extract.Service, error) {
	if config.AI == nil || config.AI.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required under the ai section")
	}
	if p := config.AI.Provider; p != "" && p != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", p)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.AI.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  config.AI.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key, GEMINI_API_KEY or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model)
	if err != nil {
		return nil, err
	}

	extractLogger := logger.WithCommonFields(zl, "gemini", generator.Model())

	return extract.NewService(generator, extractLogger, config.AI.Gemini.MaxLogLength), nil
}

// printJSON renders a command result for the user.
func printJSON(v any) {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("rendering result: %v", err)
	}
	fmt.Println(string(pretty))
}
