// Command evalhub-scheduler clones every recurring evaluation campaign
// that is due today. It is meant to run once per day from cron or a
// cloud scheduler; it exits 0 on success and 1 on any failure.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	nowFlag  string
	dryRun   bool
	logLevel string
	envFile  string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "evalhub-scheduler",
	Short: "Clone recurring evaluation campaigns that are due today",
	Long: `evalhub-scheduler reads every ACTIVE campaign definition, decides which
recurring ones fire on today's KST date, and creates the new dated
campaigns with fresh copies of their assignments.

Store credentials come from EVALHUB_STORE_CREDENTIALS, a JSON object
{"mongo_uri", "mongo_database", "username", "password", "auth_source"}.
A .env file in the working directory is loaded first when present.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = buildLogger(logLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := optionsFromFlags()
		if err != nil {
			logger.Error("invalid flags", zap.Error(err))
			return err
		}
		if err := run(cmd.Context(), opts, logger); err != nil {
			logger.Error("scheduler run failed", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&nowFlag, "now", "", "Override the invocation instant (RFC 3339), e.g. 2024-03-15T00:00:00+09:00")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be cloned without writing")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before reading the environment")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func optionsFromFlags() (runOptions, error) {
	opts := runOptions{DryRun: dryRun, EnvFile: envFile}
	if nowFlag != "" {
		t, err := time.Parse(time.RFC3339, nowFlag)
		if err != nil {
			return opts, fmt.Errorf("--now: %w", err)
		}
		opts.Now = t
	}
	return opts, nil
}
