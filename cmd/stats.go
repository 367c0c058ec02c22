package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/feasibility-cli/internal/monitoring"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize recent analyses and raise threshold alerts",
	Long:  "Collects a snapshot of analyses stored within monitoring.lookback_hours, evaluates the mock-rate and feasibility alerts, and optionally posts them to monitoring.webhook_url.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		watch, _ := cmd.Flags().GetBool("watch")
		alert, _ := cmd.Flags().GetBool("alert")
		asJSON, _ := cmd.Flags().GetBool("json")

		mc := cfg.Monitoring
		if !alert {
			mc.WebhookURL = ""
		}
		checker := monitoring.NewChecker(monitoring.NewCollector(st), monitoring.NewAlerter(mc), mc)

		show := func(res *monitoring.CheckResult) {
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				_ = enc.Encode(res)
				return
			}
			formatCheckResult(os.Stdout, res)
		}

		if watch {
			checker.Run(ctx, show)
			return nil
		}

		res, err := checker.Check(ctx)
		if err != nil {
			return err
		}
		show(res)
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("watch", false, "repeat every monitoring.check_interval_secs until interrupted")
	statsCmd.Flags().Bool("alert", false, "post triggered alerts to monitoring.webhook_url")
	statsCmd.Flags().Bool("json", false, "print results as JSON")
	rootCmd.AddCommand(statsCmd)
}

// formatCheckResult writes a snapshot and its alerts to out.
func formatCheckResult(out io.Writer, res *monitoring.CheckResult) {
	s := res.Snapshot
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Window:\tlast %dh\n", s.LookbackHours)
	_, _ = fmt.Fprintf(w, "Analyses:\t%d\n", s.Total)
	_, _ = fmt.Fprintf(w, "  Backend:\t%d\n", s.Backend)
	_, _ = fmt.Fprintf(w, "  Mock:\t%d (%.0f%%)\n", s.Mock, s.MockRate*100)
	_, _ = fmt.Fprintf(w, "Feasible:\t%d (%.0f%%)\n", s.Feasible, s.FeasibleRate*100)
	_, _ = fmt.Fprintf(w, "With prediction:\t%d\n", s.WithPrediction)
	if s.Backend > 0 {
		_, _ = fmt.Fprintf(w, "Avg scores:\tdemand %.1f, risk %.1f, competition %.1f\n",
			s.AvgDemand, s.AvgRisk, s.AvgCompetition)
	}

	types := make([]string, 0, len(s.ByProjectType))
	for t := range s.ByProjectType {
		types = append(types, t)
	}
	slices.Sort(types)
	for _, t := range types {
		_, _ = fmt.Fprintf(w, "  %s:\t%d\n", t, s.ByProjectType[t])
	}

	if len(res.Alerts) == 0 {
		_, _ = fmt.Fprintln(w, "Alerts:\tnone")
	}
	for _, a := range res.Alerts {
		_, _ = fmt.Fprintf(w, "Alert [%s]:\t%s\n", a.Severity, a.Message)
	}
	if res.Sent > 0 {
		_, _ = fmt.Fprintf(w, "Alerts sent:\t%d\n", res.Sent)
	}
	_ = w.Flush()
}
