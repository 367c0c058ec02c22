package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/feasibility-cli/internal/insight"
	"github.com/sells-group/feasibility-cli/internal/model"
	"github.com/sells-group/feasibility-cli/internal/report"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Derive insights from a score record without calling the API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		demand, _ := cmd.Flags().GetFloat64("demand")
		risk, _ := cmd.Flags().GetFloat64("risk")
		competition, _ := cmd.Flags().GetFloat64("competition")
		asJSON, _ := cmd.Flags().GetBool("json")

		rep := insight.Evaluate(model.Scores{Demand: demand, Risk: risk, Competition: competition})
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		return report.RenderInsights(os.Stdout, rep)
	},
}

func init() {
	insightsCmd.Flags().Float64("demand", 0, "demand score (0-100)")
	insightsCmd.Flags().Float64("risk", 0, "risk score (0-100)")
	insightsCmd.Flags().Float64("competition", 0, "competition score (0-100)")
	insightsCmd.Flags().Bool("json", false, "print the report as JSON")
	_ = insightsCmd.MarkFlagRequired("demand")
	_ = insightsCmd.MarkFlagRequired("risk")
	_ = insightsCmd.MarkFlagRequired("competition")
	rootCmd.AddCommand(insightsCmd)
}
