package report

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/newthinker/mercado/internal/core"
	"github.com/newthinker/mercado/internal/scanner"
)

const conclusions = "This analysis ranks stocks by a combination of factors: historical return, " +
	"Sharpe ratio, momentum, volatility and dividends. The listed stocks are candidates based on " +
	"those metrics, not advice. Analyse each one further and consider whether it suits your risk " +
	"profile and goals. Diversify to reduce risk and consult a professional adviser before investing."

var tableColumns = []struct {
	title string
	width float64
	align string
}{
	{"Ticker", 20, "L"},
	{"Name", 44, "L"},
	{"Sector", 24, "L"},
	{"Country", 18, "L"},
	{"Price", 16, "R"},
	{"Ret.(%)", 14, "R"},
	{"Sharpe", 12, "R"},
	{"Vol.(%)", 14, "R"},
	{"Div.(%)", 13, "R"},
	{"Score", 15, "R"},
}

// ScannerPDF renders the top of a scan result as a PDF document.
func ScannerPDF(res *scanner.Result, generated time.Time) ([]byte, error) {
	if res == nil {
		return nil, core.WrapError(core.ErrReportFailed, fmt.Errorf("nil scan result"))
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.SetTitle("Stock Market Analysis", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Stock Market Analysis", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Report generated on "+generated.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	top := res.Top()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Best Investment Opportunities", "", 1, "L", false, 0, "")
	pdf.Ln(2)
	writeTable(pdf, tr, top)
	pdf.Ln(8)

	if len(top) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Best Stocks by Score", "", 1, "L", false, 0, "")
		writeBarChart(pdf, top)
		pdf.Ln(6)
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Conclusions and Recommendations", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, conclusions, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, core.WrapError(core.ErrReportFailed, err)
	}
	return buf.Bytes(), nil
}

func writeTable(pdf *fpdf.Fpdf, tr func(string) string, rows []scanner.Metrics) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(0, 0, 139)
	pdf.SetTextColor(245, 245, 245)
	for _, c := range tableColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
	for _, m := range rows {
		cells := []string{
			m.Symbol,
			truncate(pdf, tr(m.Name), tableColumns[1].width-2),
			truncate(pdf, tr(m.Sector), tableColumns[2].width-2),
			truncate(pdf, tr(m.Country), tableColumns[3].width-2),
			fmt.Sprintf("%.2f", m.Price),
			fmt.Sprintf("%.2f", m.AnnualReturn),
			fmt.Sprintf("%.2f", m.Sharpe),
			fmt.Sprintf("%.2f%%", m.Volatility),
			fmt.Sprintf("%.2f%%", m.DividendYield),
			fmt.Sprintf("%.1f", m.Score),
		}
		for i, c := range tableColumns {
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)
	}
}

// writeBarChart draws a horizontal bar per row, scaled to the largest
// absolute score. Negative scores extend left of the axis.
func writeBarChart(pdf *fpdf.Fpdf, rows []scanner.Metrics) {
	const (
		labelWidth = 24.0
		chartWidth = 150.0
		barHeight  = 5.0
		gap        = 2.0
	)

	maxAbs := 0.0
	hasNegative := false
	for _, m := range rows {
		maxAbs = math.Max(maxAbs, math.Abs(m.Score))
		if m.Score < 0 {
			hasNegative = true
		}
	}
	if maxAbs == 0 {
		maxAbs = 1
	}

	left, _, _, _ := pdf.GetMargins()
	axisX := left + labelWidth
	scale := chartWidth / maxAbs
	if hasNegative {
		axisX += chartWidth / 2
		scale /= 2
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetFillColor(0, 0, 139)
	startY := pdf.GetY() + gap
	y := startY
	for _, m := range rows {
		pdf.SetXY(left, y)
		pdf.CellFormat(labelWidth, barHeight, m.Symbol, "", 0, "L", false, 0, "")

		w := math.Abs(m.Score) * scale
		x := axisX
		if m.Score < 0 {
			x -= w
		}
		pdf.Rect(x, y, w, barHeight, "F")

		if m.Score >= 0 {
			pdf.SetXY(x+w+1, y)
		} else {
			pdf.SetXY(axisX+1, y)
		}
		pdf.CellFormat(14, barHeight, fmt.Sprintf("%.1f", m.Score), "", 0, "L", false, 0, "")

		y += barHeight + gap
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(axisX, startY, axisX, y-gap)
	pdf.SetY(y)
}

func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
