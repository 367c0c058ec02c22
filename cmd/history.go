package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/feasibility-cli/internal/insight"
	"github.com/sells-group/feasibility-cli/internal/model"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored analyses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		projectType, _ := cmd.Flags().GetString("project-type")
		city, _ := cmd.Flags().GetString("city")
		source, _ := cmd.Flags().GetString("source")
		since, _ := cmd.Flags().GetDuration("since")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		filter := model.AnalysisFilter{
			ProjectType: projectType,
			City:        city,
			Source:      model.Source(source),
			Limit:       limit,
			Offset:      offset,
		}
		if since > 0 {
			filter.CreatedAfter = time.Now().Add(-since)
		}

		items, err := st.ListAnalyses(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "history")
		}
		if len(items) == 0 {
			fmt.Fprintln(os.Stderr, "No analyses found.")
			return nil
		}

		formatHistory(os.Stdout, items)
		return nil
	},
}

func init() {
	historyCmd.Flags().String("project-type", "", "filter by project type")
	historyCmd.Flags().String("city", "", "filter by city (case-insensitive)")
	historyCmd.Flags().String("source", "", "filter by source (backend, mock)")
	historyCmd.Flags().Duration("since", 0, "only analyses newer than this (e.g. 24h)")
	historyCmd.Flags().Int("limit", 20, "max number of analyses to display")
	historyCmd.Flags().Int("offset", 0, "number of analyses to skip")
	rootCmd.AddCommand(historyCmd)
}

// formatHistory writes a tabular list of analyses to out.
func formatHistory(out io.Writer, items []model.Analysis) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tPROJECT\tCITY\tSOURCE\tDEMAND\tRISK\tCOMP\tFEAS\tPREDICTION\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t-------\t----\t------\t------\t----\t----\t----\t----------\t-------")

	for _, a := range items {
		s := a.Result.Scores
		f := insight.ComputeFeasibility(s)
		feas := fmt.Sprintf("%d", f.Score)
		if f.Feasible {
			feas += "*"
		}

		prediction := ""
		if a.Prediction != nil {
			prediction = a.Prediction.Prediction
		}

		city := truncateCity(a.Scenario.City)

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f\t%.0f\t%.0f\t%s\t%s\t%s\n",
			truncateID(a.ID),
			a.Scenario.ProjectType,
			city,
			a.Source,
			s.Demand,
			s.Risk,
			s.Competition,
			feas,
			prediction,
			a.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateCity shortens city names longer than 20 runes to 17 plus "...".
func truncateCity(city string) string {
	r := []rune(city)
	if len(r) > 20 {
		return string(r[:17]) + "..."
	}
	return city
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
