package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pairrecall/pairrecall/internal/app"
	"github.com/pairrecall/pairrecall/internal/flow"
	"github.com/pairrecall/pairrecall/internal/session"
	"github.com/pairrecall/pairrecall/internal/store"
	"github.com/pairrecall/pairrecall/internal/wordset"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one experiment session (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	runCmd.Flags().String("order", "", "Preselect the condition order: PN or NP")
}

// runApp loads config, the word set and the event log, then launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := openLogger(cfg)
	defer logger.Sync() //nolint:errcheck

	var warnings []string
	words, err := wordset.LoadOrDefault(cfg.WordSource, cfg.Columns)
	if err != nil {
		logger.Warn("using built-in word list", zap.Error(err))
		warnings = append(warnings, "Using the built-in word list: "+err.Error())
	}

	s, startWarnings := session.Start(words, session.StartOptions{PhaseSize: cfg.PhaseSize})
	warnings = append(warnings, startWarnings...)

	order := ""
	if cmd.Flags().Lookup("order") != nil {
		order, _ = cmd.Flags().GetString("order")
	}
	switch strings.ToUpper(order) {
	case "":
	case session.OrderPN:
		s.PersonalizedFirst = true
	case session.OrderNP:
		s.PersonalizedFirst = false
	default:
		return fmt.Errorf("invalid order %q: must be PN or NP", order)
	}

	opts := session.ControllerOptions{
		DataDir:   cfg.DataDir,
		PhaseSize: cfg.PhaseSize,
		Logger:    logger,
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err == nil {
		var st *store.Store
		st, err = store.Open(dbPath)
		if err == nil {
			defer st.Close()
			opts.Events = st.EventRepo()
			opts.Snapshots = st.SnapshotRepo()
		}
	}
	if err != nil {
		logger.Error("event log unavailable", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Event log unavailable:", err)
	}

	logger.Info("starting session",
		zap.String("session_id", s.ID),
		zap.String("word_source", s.WordSource),
		zap.Int("phase_size", cfg.PhaseSize),
	)

	ctrl := session.NewController(s, opts)
	f := flow.New(ctrl, flow.Options{
		Durations: cfg.Durations,
		AllowSkip: cfg.AllowSkip,
		Warnings:  warnings,
		Logger:    logger,
	})

	if err := app.Run(f, logger); err != nil {
		return err
	}

	if s.RecordPath != "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Answers saved to", s.RecordPath)
	}
	return nil
}
