package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wasii25/askdb/internal/config"
	"github.com/wasii25/askdb/internal/errors"
	"github.com/wasii25/askdb/internal/logging"
)

var (
	flagEnvFile     string
	flagModel       string
	flagDatabaseURL string
	flagLogLevel    string
	flagVerbose     bool
)

var (
	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "askdb",
	Short: "Ask your database questions in plain language",
	Long: `askdb answers natural-language questions about a PostgreSQL database.
It asks a local Ollama model to translate each question into a SELECT
statement, runs the statement through an MCP database server, and turns
the rows into a conversational answer.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the CLI.
func Execute() error {
	ctx := context.Background()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&flagEnvFile, "env-file", "", "Path to a .env file with ASKDB_ settings",
	)
	rootCmd.PersistentFlags().StringVar(
		&flagModel, "model", "", "Ollama model to use (overrides ASKDB_LLM_MODEL)",
	)
	rootCmd.PersistentFlags().StringVar(
		&flagDatabaseURL, "database-url", "",
		"Database connection URL (overrides ASKDB_DATABASE_URL)",
	)
	rootCmd.PersistentFlags().StringVar(
		&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&flagVerbose, "verbose", "v", false, "Show the generated SQL and timing",
	)
}

// setup loads configuration, applies flag overrides, and initializes logging
// before any subcommand runs.
func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagEnvFile)
	if err != nil {
		return errors.Wrap(err, errors.ErrTypeConfig, "failed to load configuration")
	}

	if flagModel != "" {
		loaded.LLM.Model = flagModel
	}

	if flagDatabaseURL != "" {
		loaded.Database.URL = flagDatabaseURL
	}

	if flagLogLevel != "" {
		loaded.Logging.Level = flagLogLevel
	}

	if err := config.Validate(loaded); err != nil {
		return errors.Wrap(err, errors.ErrTypeConfig, "invalid configuration")
	}

	cfg = loaded
	logger = logging.Setup(loaded.Logging)

	return nil
}
