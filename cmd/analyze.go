package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pairrecall/pairrecall/internal/analysis"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare conditions across every record in the data directory",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("orders", "", "CSV table mapping session ids to PN/NP (required)")
	analyzeCmd.Flags().Float64("alpha", analysis.DefaultAlpha, "Significance level")
	analyzeCmd.Flags().Bool("include-unmapped", false, "Also test sessions missing from the order table")
	_ = analyzeCmd.MarkFlagRequired("orders")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := openLogger(cfg)
	defer logger.Sync() //nolint:errcheck

	ordersPath, _ := cmd.Flags().GetString("orders")
	alpha, _ := cmd.Flags().GetFloat64("alpha")
	includeUnmapped, _ := cmd.Flags().GetBool("include-unmapped")

	batch, err := analysis.LoadDir(cfg.DataDir)
	if err != nil {
		return err
	}
	orders, err := analysis.LoadOrders(ordersPath)
	if err != nil {
		return err
	}

	res, err := analysis.NewAnalyzer(logger, alpha).
		IncludeUnmapped(includeUnmapped).
		Analyze(batch, orders)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d record files, %d participants\n", len(batch.Files), len(res.Participants))
	for _, s := range batch.Skipped {
		fmt.Fprintf(out, "  skipped %s\n", s)
	}
	fmt.Fprintln(out)

	printParticipants(out, res.Participants)
	if len(res.Unmapped) > 0 {
		fmt.Fprintf(out, "Sessions without an order: %s\n", strings.Join(res.Unmapped, ", "))
	}
	fmt.Fprintf(out, "Tests run on %d participants\n", res.Tested)
	fmt.Fprintln(out)

	printDescriptive(out, "P", res.DescribeP)
	printDescriptive(out, "N", res.DescribeN)
	fmt.Fprintln(out)

	printTest(out, "Normality P", res.NormalP, res.Alpha)
	printTest(out, "Normality N", res.NormalN, res.Alpha)
	if res.NormalP != nil && res.NormalN != nil {
		if res.BothNormal() {
			fmt.Fprintln(out, "  both conditions look normally distributed")
		} else {
			fmt.Fprintln(out, "  normality rejected for at least one condition")
		}
	}
	printTest(out, "Paired (P vs N)", res.SignedRank, res.Alpha)
	if res.SignedRank != nil {
		if res.RejectH0() {
			fmt.Fprintln(out, "  reject H0: accuracy differs between conditions")
		} else {
			fmt.Fprintln(out, "  fail to reject H0: no detectable difference")
		}
	}
	printTest(out, "Independent (P vs N)", res.RankSum, res.Alpha)

	if len(res.Notes) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Notes:")
		for _, n := range res.Notes {
			fmt.Fprintf(out, "  - %s\n", n)
		}
	}
	return nil
}

func printParticipants(out io.Writer, ps []analysis.Participant) {
	fmt.Fprintf(out, "%-10s %-5s %-12s %-12s %-16s\n", "Session", "Order", "P", "N", "Distractor")
	fmt.Fprintln(out, strings.Repeat("─", 60))
	for _, p := range ps {
		order := p.Order
		if order == "" {
			order = "-"
		}
		fmt.Fprintf(out, "%-10s %-5s %-12s %-12s %-16s\n",
			p.SessionID, order, conditionCell(p.P), conditionCell(p.N), p.DistractorUsage)
	}
	fmt.Fprintln(out, strings.Repeat("─", 60))
}

func conditionCell(c analysis.ConditionScore) string {
	if c.Total == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d %3.0f%%", c.Correct, c.Total, c.Accuracy()*100)
}

func printDescriptive(out io.Writer, label string, d analysis.Descriptive) {
	if d.Count == 0 {
		fmt.Fprintf(out, "%s: no data\n", label)
		return
	}
	sd := "n/a"
	if !math.IsNaN(d.StdDev) {
		sd = fmt.Sprintf("%.3f", d.StdDev)
	}
	fmt.Fprintf(out, "%s: n=%d mean=%.3f sd=%s min=%.3f q1=%.3f median=%.3f q3=%.3f max=%.3f\n",
		label, d.Count, d.Mean, sd, d.Min, d.Q1, d.Median, d.Q3, d.Max)
}

func printTest(out io.Writer, label string, r *analysis.TestResult, alpha float64) {
	if r == nil {
		fmt.Fprintf(out, "%-22s skipped\n", label)
		return
	}
	kind := "approx"
	if r.Exact {
		kind = "exact"
	}
	mark := ""
	if r.Significant(alpha) {
		mark = " *"
	}
	fmt.Fprintf(out, "%-22s %s statistic=%.4f p=%.4f (%s)%s\n", label, r.Name, r.Statistic, r.PValue, kind, mark)
}
