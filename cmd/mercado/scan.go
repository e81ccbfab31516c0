package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	scanSymbols []string
	scanOutput  string
	scanTop     int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Score the global stock universe and write the PDF ranking",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringSliceVarP(&scanSymbols, "symbols", "s", nil, "symbols to scan instead of the default universe")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "also write the PDF to this file")
	scanCmd.Flags().IntVar(&scanTop, "top", 0, "number of ranked symbols in the report (overrides config)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if scanTop > 0 {
		cfg.Scanner.TopN = scanTop
	}

	application, err := buildApp(cfg, nil, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
	defer cancel()

	errOut := cmd.ErrOrStderr()
	out, err := application.Scan(ctx, scanSymbols, func(done, total int) {
		fmt.Fprintf(errOut, "\rscanned %d/%d", done, total)
	})
	fmt.Fprintln(errOut)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-4s %-12s %-28s %9s %9s %7s %8s\n", "#", "SYMBOL", "NAME", "RETURN%", "VOL%", "SHARPE", "SCORE")
	for i, m := range out.Result.Top() {
		fmt.Fprintf(w, "%-4d %-12s %-28.28s %9.2f %9.2f %7.2f %8.1f\n",
			i+1, m.Symbol, m.Name, m.AnnualReturn, m.Volatility, m.Sharpe, m.Score)
	}
	fmt.Fprintf(w, "\nreport stored at %s\n", out.Path)

	if scanOutput != "" {
		if err := os.WriteFile(scanOutput, out.PDF, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", scanOutput, err)
		}
		log.Info("report written", zap.String("file", scanOutput))
	}
	return nil
}
