package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/feasibility-cli/internal/insight"
	"github.com/sells-group/feasibility-cli/internal/model"
	"github.com/sells-group/feasibility-cli/internal/report"
	"github.com/sells-group/feasibility-cli/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show or export the latest analysis",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		id, _ := cmd.Flags().GetString("id")
		a, err := loadAnalysis(ctx, st, id)
		if err != nil {
			return err
		}

		jsonPath, _ := cmd.Flags().GetString("json")
		xlsxPath, _ := cmd.Flags().GetString("xlsx")
		return exportResults(os.Stdout, a, jsonPath, xlsxPath)
	},
}

func init() {
	resultsCmd.Flags().String("id", "", "analysis ID (default latest)")
	resultsCmd.Flags().String("json", "", "write the analysis as JSON to this path (- for stdout)")
	resultsCmd.Flags().String("xlsx", "", "write the insight series to this XLSX workbook")
	rootCmd.AddCommand(resultsCmd)
}

// loadAnalysis returns the analysis with id, or the latest one when id is empty.
func loadAnalysis(ctx context.Context, st store.Store, id string) (*model.Analysis, error) {
	if id != "" {
		return st.GetAnalysis(ctx, id)
	}
	a, err := st.LastAnalysis(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "results: load last analysis")
	}
	if a == nil {
		return nil, errNoAnalysis
	}
	return a, nil
}

// exportResults writes the requested exports, or renders a to out when none
// are requested.
func exportResults(out io.Writer, a *model.Analysis, jsonPath, xlsxPath string) error {
	if jsonPath == "" && xlsxPath == "" {
		return report.RenderResults(out, a)
	}

	if jsonPath != "" {
		if err := writeJSONFile(out, a, jsonPath); err != nil {
			return err
		}
	}
	if xlsxPath != "" {
		if err := report.ExportXLSX(xlsxPath, insight.Evaluate(a.Result.Scores)); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", xlsxPath)
	}
	return nil
}

func writeJSONFile(out io.Writer, a *model.Analysis, path string) error {
	if path == "-" {
		return report.WriteJSON(out, a)
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "results: create %s", path)
	}
	if err := report.WriteJSON(f, a); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "results: close %s", path)
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}
