package report

import (
	"bytes"
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/newthinker/mercado/internal/analysis"
	"github.com/newthinker/mercado/internal/core"
	"github.com/newthinker/mercado/internal/scanner"
	"github.com/newthinker/mercado/internal/storage/archive"
)

// Exporter writes analysis and scan artifacts to archive storage.
type Exporter struct {
	store  archive.Storage
	prefix string
}

// NewExporter creates an exporter writing below prefix.
func NewExporter(store archive.Storage, prefix string) *Exporter {
	return &Exporter{store: store, prefix: strings.Trim(prefix, "/")}
}

// ExportAnalysis stores the series and trades CSVs of a report and returns their paths.
func (e *Exporter) ExportAnalysis(ctx context.Context, r *analysis.Report) ([]string, error) {
	date := r.GeneratedAt
	if date.IsZero() {
		date = time.Now().UTC()
	}

	var series, trades bytes.Buffer
	if err := WriteSeriesCSV(&series, r.Series); err != nil {
		return nil, core.WrapError(core.ErrReportFailed, err)
	}
	if err := WriteTradesCSV(&trades, r.Trades); err != nil {
		return nil, core.WrapError(core.ErrReportFailed, err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{SeriesFileName(r.Symbol, date), series.Bytes()},
		{TradesFileName(r.Symbol, date), trades.Bytes()},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		p := e.path(f.name)
		if err := e.store.Write(ctx, p, f.data); err != nil {
			return paths, core.WrapError(core.ErrReportFailed, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// ExportScan renders and stores the scanner PDF and returns its path.
func (e *Exporter) ExportScan(ctx context.Context, res *scanner.Result) (string, []byte, error) {
	if res == nil {
		return "", nil, core.WrapError(core.ErrReportFailed, errors.New("nil scan result"))
	}
	date := res.FinishedAt
	if date.IsZero() {
		date = time.Now().UTC()
	}

	data, err := ScannerPDF(res, date)
	if err != nil {
		return "", nil, err
	}

	p := e.path(ScanFileName(date))
	if err := e.store.Write(ctx, p, data); err != nil {
		return "", nil, core.WrapError(core.ErrReportFailed, err)
	}
	return p, data, nil
}

func (e *Exporter) path(name string) string {
	if e.prefix == "" {
		return name
	}
	return path.Join(e.prefix, name)
}
