package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/mercado/internal/backtest"
	"github.com/newthinker/mercado/internal/core"
)

const fileDateLayout = "20060102"

var seriesHeader = []string{
	"date", "price", "return", "volatility30", "ma50", "ma200", "ema12", "ema26",
	"macd", "signal", "sma20", "bb_upper", "bb_lower", "rsi14", "atr14", "signal_bt",
}

var tradesHeader = []string{"buy_date", "sell_date", "buy_price", "sell_price", "return_pct", "holding_days"}

// SeriesFileName is the export name of an enriched series, e.g. AAPL_analysis_20240131.csv.
func SeriesFileName(symbol string, date time.Time) string {
	return fmt.Sprintf("%s_analysis_%s.csv", safeSymbol(symbol), date.Format(fileDateLayout))
}

// TradesFileName is the export name of a trade list, e.g. AAPL_trades_20240131.csv.
func TradesFileName(symbol string, date time.Time) string {
	return fmt.Sprintf("%s_trades_%s.csv", safeSymbol(symbol), date.Format(fileDateLayout))
}

// ScanFileName is the archive name of a scanner report.
func ScanFileName(date time.Time) string {
	return fmt.Sprintf("scanner_global_%s.pdf", date.Format(fileDateLayout))
}

func safeSymbol(symbol string) string {
	return strings.NewReplacer("^", "", "/", "_", "\\", "_").Replace(strings.ToUpper(symbol))
}

// WriteSeriesCSV writes one row per enriched point. Undefined values are empty cells.
func WriteSeriesCSV(w io.Writer, series []core.EnrichedPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(seriesHeader); err != nil {
		return err
	}
	for _, p := range series {
		record := []string{
			p.Date.Format(time.DateOnly),
			formatFloat(p.Price),
			formatPtr(p.Return),
			formatPtr(p.Volatility30),
			formatPtr(p.MA50),
			formatPtr(p.MA200),
			formatPtr(p.EMA12),
			formatPtr(p.EMA26),
			formatPtr(p.MACD),
			formatPtr(p.SignalLine),
			formatPtr(p.SMA20),
			formatPtr(p.BBUpper),
			formatPtr(p.BBLower),
			formatPtr(p.RSI14),
			formatPtr(p.ATR14),
			strconv.Itoa(int(p.SignalBT)),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTradesCSV writes one row per closed trade.
func WriteTradesCSV(w io.Writer, trades []backtest.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradesHeader); err != nil {
		return err
	}
	for _, t := range trades {
		record := []string{
			t.BuyDate.Format(time.DateOnly),
			t.SellDate.Format(time.DateOnly),
			formatFloat(t.BuyPrice),
			formatFloat(t.SellPrice),
			formatFloat(t.ReturnPct),
			strconv.Itoa(t.HoldingDays()),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
