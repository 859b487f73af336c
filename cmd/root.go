package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pairrecall/pairrecall/internal/config"
	"github.com/pairrecall/pairrecall/internal/logging"
	"github.com/pairrecall/pairrecall/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "pairrecall",
	Short: "Word-pair recall experiment",
	Long: `PairRecall runs a timed word-pair memory experiment in the terminal and
analyzes the recorded answers.

Without a sub-command it starts a new session.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/pairrecall/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory for record tables (overrides config and PAIRRECALL_DATA_DIR)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PAIRRECALL_DB env var)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(powerCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config (or the default
// path) and applies the --data-dir flag on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openLogger returns the file logger for cfg. Failing to open the log file
// is reported on stderr and logging is disabled.
func openLogger(cfg *config.Config) *zap.Logger {
	logger, err := logging.NewOrNop(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
	}
	return logger
}
