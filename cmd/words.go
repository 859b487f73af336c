package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pairrecall/pairrecall/internal/wordset"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Show the word pairs a session would draw from",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		source, _ := cmd.Flags().GetString("source")
		if source == "" {
			source = cfg.WordSource
		}
		limit, _ := cmd.Flags().GetInt("limit")

		words, err := wordset.LoadOrDefault(source, cfg.Columns)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning:", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Source: %s (%d pairs)\n", words.Origin, words.Len())
		fmt.Fprintf(out, "%6s  %-20s %-20s\n", "ID", "Source", "Target")
		fmt.Fprintln(out, strings.Repeat("─", 48))
		for i, p := range words.Pairs {
			if limit > 0 && i >= limit {
				fmt.Fprintf(out, "... %d more\n", words.Len()-limit)
				break
			}
			fmt.Fprintf(out, "%6d  %-20s %-20s\n", p.WordID, p.Source, p.Target)
		}

		if need := 2 * cfg.PhaseSize; words.Len() < need {
			fmt.Fprintf(out, "\nOnly %d pairs: rounds will use two halves of %d instead of %d words each.\n",
				words.Len(), words.Len()/2, cfg.PhaseSize)
		}
		return nil
	},
}

func init() {
	wordsCmd.Flags().String("source", "", "CSV or XLSX word source (default from config)")
	wordsCmd.Flags().Int("limit", 0, "Show at most this many pairs")
}
