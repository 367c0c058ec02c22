package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/feasibility-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "feasibility",
	Short: "Location feasibility analysis and insights",
	Long:  "Scores a business scenario for a location, derives feasibility, recommendations, demand/supply gap, trend and risk insights, and serves the analysis API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
