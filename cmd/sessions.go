package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pairrecall/pairrecall/internal/session"
	"github.com/pairrecall/pairrecall/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent sessions from the event log",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return fmt.Errorf("resolve db path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		ctx := context.Background()
		list, err := st.EventRepo().RecentSessions(ctx, limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No sessions recorded yet.")
			return nil
		}
		fmt.Fprintf(out, "%-10s %-17s %-5s %-24s %s\n", "Session", "Started", "Order", "Status", "Scores")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, s := range list {
			status := sessionStatus(ctx, st.SnapshotRepo(), s)
			scores := make([]string, 0, len(s.Phases))
			for _, p := range s.Phases {
				scores = append(scores, fmt.Sprintf("%s %d/%d", p.Condition, p.Correct, p.Correct+p.Incorrect+p.NoAnswer))
			}
			fmt.Fprintf(out, "%-10s %-17s %-5s %-24s %s\n",
				s.SessionID, s.StartedAt.Local().Format("2006-01-02 15:04"), s.OrderLabel, status, strings.Join(scores, ", "))
		}
		return nil
	},
}

// sessionStatus reports "finished", or for an open session the phase its
// latest snapshot was taken in.
func sessionStatus(ctx context.Context, snaps store.SnapshotRepo, s store.SessionSummary) string {
	if s.Finished() {
		return "finished"
	}
	snap, err := snaps.Latest(ctx, s.SessionID)
	if err != nil || snap == nil {
		return "open"
	}
	p, ok := session.ParsePhase(snap.Data.Phase)
	if !ok {
		return "open"
	}
	step, total := p.Step()
	return fmt.Sprintf("stopped at %s (%d/%d)", p, step, total)
}

func init() {
	sessionsCmd.Flags().Int("limit", 20, "Maximum sessions to show")
}
