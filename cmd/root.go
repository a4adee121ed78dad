package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/store"
)

// envConfig is the environment-driven CLI configuration, layered under
// the flags.
type envConfig struct {
	DataDir  string `env:"PATHWISE_DATA"`
	LogLevel string `env:"PATHWISE_LOG" envDefault:"warn"`
}

var cfg envConfig

var rootCmd = &cobra.Command{
	Use:   "pathwise",
	Short: "Personalized-learning progress tracker",
	Long:  "Pathwise — deterministic mastery tracking with durable, file-backed session state.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := env.Parse(&cfg); err != nil {
			return fmt.Errorf("parse environment: %w", err)
		}
		setupLogging(cfg.LogLevel)
		return nil
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("data", "", "Path to the data directory (overrides PATHWISE_DATA)")

	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// openStore resolves the data directory using --data flag (highest
// priority), then PATHWISE_DATA, then the default XDG path.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	if p, _ := cmd.Flags().GetString("data"); p != "" {
		return store.Open(p)
	}
	if cfg.DataDir != "" {
		return store.Open(cfg.DataDir)
	}
	dir, err := store.DefaultDataDir()
	if err != nil {
		return nil, err
	}
	return store.Open(dir)
}
