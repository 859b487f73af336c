package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pairrecall/pairrecall/internal/record"
	"github.com/pairrecall/pairrecall/internal/score"
)

var scoreCmd = &cobra.Command{
	Use:   "score [record.csv]",
	Short: "Score a saved record table",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().String("session", "", "Score the newest record of this session id in the data directory")
	scoreCmd.Flags().Int("phase-size", 0, "Nominal words per round (default from config)")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	path, err := scorePath(cmd, args, cfg.DataDir)
	if err != nil {
		return err
	}

	phaseSize, _ := cmd.Flags().GetInt("phase-size")
	if phaseSize <= 0 {
		phaseSize = cfg.PhaseSize
	}

	rows, err := record.Load(path)
	if err != nil {
		return err
	}
	report := score.FromRows(rows, phaseSize)
	if !report.Available {
		return errors.New(report.Reason)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session %s  (%s)\n", report.SessionID, path)
	fmt.Fprintf(out, "%-7s %-9s %7s %9s %9s %8s\n", "Round", "Condition", "Correct", "Incorrect", "No answer", "Score")
	fmt.Fprintln(out, strings.Repeat("─", 54))
	for _, p := range report.Phases {
		fmt.Fprintf(out, "%-7d %-9s %7d %9d %9d %7.1f%%\n",
			p.Index+1, p.Condition, p.Summary.Correct, p.Summary.Incorrect, p.Summary.NoAnswer, p.Percent)
	}
	fmt.Fprintln(out, strings.Repeat("─", 54))
	fmt.Fprintf(out, "Overall: %d/%d (%.1f%%), difference %+.1f points\n",
		report.CombinedCorrect, report.CombinedTotal, report.CombinedPercent(), report.Difference)

	byCond := score.ByCondition(rows)
	conds := make([]string, 0, len(byCond))
	for c := range byCond {
		conds = append(conds, c)
	}
	sort.Strings(conds)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "By condition:")
	for _, c := range conds {
		s := byCond[c]
		fmt.Fprintf(out, "  %-3s %d/%d correct\n", c, s.Correct, s.Total())
	}
	return nil
}

// scorePath resolves the record file from the positional argument or the
// --session flag.
func scorePath(cmd *cobra.Command, args []string, dataDir string) (string, error) {
	id, _ := cmd.Flags().GetString("session")
	switch {
	case len(args) == 1 && id != "":
		return "", errors.New("give either a record path or --session, not both")
	case len(args) == 1:
		return args[0], nil
	case id != "":
		p, err := record.Latest(dataDir, id)
		if err != nil {
			return "", fmt.Errorf("session %s: %w", id, err)
		}
		return p, nil
	}
	return "", errors.New("a record path or --session is required")
}
