package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "mercado",
	Short: "Mercado - technical analysis, signal backtests and market scans",
	Long: `Mercado computes technical indicators over daily prices, backtests a
MACD/RSI crossover signal, checks news sentiment and recommends an action.
It also scores a global stock universe and writes a PDF ranking.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
