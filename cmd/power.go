package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pairrecall/pairrecall/internal/analysis"
)

var powerCmd = &cobra.Command{
	Use:   "power",
	Short: "Sample size for a paired t-test",
	RunE: func(cmd *cobra.Command, args []string) error {
		effect, _ := cmd.Flags().GetFloat64("effect")
		alpha, _ := cmd.Flags().GetFloat64("alpha")
		power, _ := cmd.Flags().GetFloat64("power")

		n, err := analysis.SampleSize(effect, alpha, power)
		if err != nil {
			return err
		}
		achieved := analysis.PairedTTestPower(effect, alpha, float64(n))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Effect size d=%.3f, alpha=%.3f, target power=%.2f\n", effect, alpha, power)
		fmt.Fprintf(out, "Participants needed: %d (power %.3f)\n", n, achieved)
		return nil
	},
}

func init() {
	powerCmd.Flags().Float64("effect", 0, "Expected effect size (Cohen's d, required)")
	powerCmd.Flags().Float64("alpha", analysis.DefaultAlpha, "Significance level")
	powerCmd.Flags().Float64("power", 0.8, "Desired power")
	_ = powerCmd.MarkFlagRequired("effect")
}
