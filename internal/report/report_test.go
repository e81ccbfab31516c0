package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/newthinker/mercado/internal/analysis"
	"github.com/newthinker/mercado/internal/backtest"
	"github.com/newthinker/mercado/internal/core"
	"github.com/newthinker/mercado/internal/scanner"
	"github.com/newthinker/mercado/internal/storage/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

var day = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

func sampleSeries() []core.EnrichedPoint {
	return []core.EnrichedPoint{
		{PricePoint: core.PricePoint{Date: day.AddDate(0, 0, -1), Price: 100}, EMA12: f(100), SignalBT: core.SignalHold},
		{PricePoint: core.PricePoint{Date: day, Price: 101.5}, Return: f(0.015), EMA12: f(100.23), SignalBT: core.SignalSell},
	}
}

func sampleTrades() []backtest.Trade {
	return []backtest.Trade{
		{BuyDate: day.AddDate(0, -1, 0), SellDate: day, BuyPrice: 100, SellPrice: 110, ReturnPct: 0.1},
	}
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "AAPL_analysis_20240131.csv", SeriesFileName("aapl", day))
	assert.Equal(t, "AAPL_trades_20240131.csv", TradesFileName("AAPL", day))
	assert.Equal(t, "GSPC_analysis_20240131.csv", SeriesFileName("^GSPC", day))
	assert.Equal(t, "scanner_global_20240131.pdf", ScanFileName(day))
}

func TestWriteSeriesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(&buf, sampleSeries()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, seriesHeader, records[0])
	assert.Equal(t, "2024-01-30", records[1][0])
	assert.Equal(t, "100", records[1][1])
	assert.Equal(t, "", records[1][2], "undefined return is an empty cell")
	assert.Equal(t, "100", records[1][6])
	assert.Equal(t, "0.015", records[2][2])
	assert.Equal(t, "-1", records[2][15])
}

func TestWriteTradesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, sampleTrades()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"2023-12-31", "2024-01-31", "100", "110", "0.1", "31"}, records[1])
}

func TestWriteTradesCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, nil))
	assert.Equal(t, strings.Join(tradesHeader, ",")+"\n", buf.String())
}

func sampleScan(n int) *scanner.Result {
	res := &scanner.Result{TopN: 10, FinishedAt: day}
	for i := 0; i < n; i++ {
		res.Ranked = append(res.Ranked, scanner.Metrics{
			Symbol:  "SYM" + string(rune('A'+i)),
			Name:    "Société Générale Holding With A Very Long Name",
			Sector:  "N/A",
			Country: "N/A",
			Price:   100,
			Score:   float64(40 - 7*i),
		})
	}
	return res
}

func TestScannerPDF(t *testing.T) {
	data, err := ScannerPDF(sampleScan(12), day)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Greater(t, len(data), 1000)
}

func TestScannerPDF_EmptyAndNil(t *testing.T) {
	data, err := ScannerPDF(sampleScan(0), day)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	_, err = ScannerPDF(nil, day)
	assert.True(t, errors.Is(err, core.ErrReportFailed))
}

func TestExporter(t *testing.T) {
	store, err := archive.NewLocalFS(t.TempDir())
	require.NoError(t, err)
	exp := NewExporter(store, "/exports/")
	ctx := context.Background()

	paths, err := exp.ExportAnalysis(ctx, &analysis.Report{
		Symbol:      "AAPL",
		Series:      sampleSeries(),
		Trades:      sampleTrades(),
		GeneratedAt: day,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"exports/AAPL_analysis_20240131.csv", "exports/AAPL_trades_20240131.csv"}, paths)

	stored, err := store.Read(ctx, paths[1])
	require.NoError(t, err)
	assert.Contains(t, string(stored), "0.1")

	p, pdf, err := exp.ExportScan(ctx, sampleScan(3))
	require.NoError(t, err)
	assert.Equal(t, "exports/scanner_global_20240131.pdf", p)
	ok, _ := store.Exists(ctx, p)
	assert.True(t, ok)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}
