package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/newthinker/mercado/internal/analysis"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	analyzePeriod string
	analyzeFormat string
	analyzeExport bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL",
	Short: "Analyze a symbol and print indicators, backtest and recommendation",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzePeriod, "period", "p", "", "history period (e.g. 6mo, 1y, ytd); defaults to the configured period")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "output format: text or json")
	analyzeCmd.Flags().BoolVar(&analyzeExport, "export", false, "store series and trades CSVs in the archive")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeFormat != "text" && analyzeFormat != "json" {
		return fmt.Errorf("unknown format %q", analyzeFormat)
	}

	log := newLogger()
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	application, err := buildApp(cfg, nil, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	report, err := application.Analyze(ctx, args[0], analyzePeriod)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", args[0], err)
	}

	if err := printReport(cmd, report); err != nil {
		return err
	}

	if analyzeExport {
		paths, err := application.ExportAnalysis(ctx, report)
		if err != nil {
			return fmt.Errorf("exporting %s: %w", report.Symbol, err)
		}
		for _, p := range paths {
			log.Info("exported", zap.String("path", p))
		}
	}
	return nil
}

func printReport(cmd *cobra.Command, report *analysis.Report) error {
	out := cmd.OutOrStdout()
	if analyzeFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return analysis.WriteText(out, report)
}
