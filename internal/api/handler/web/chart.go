package web

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/newthinker/mercado/internal/core"
	"github.com/newthinker/mercado/internal/indicator"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 800
	chartHeight = 260

	rsiOversold = 30.0
)

var (
	colorPrice  = drawing.ColorFromHex("1f2937")
	colorMA50   = drawing.ColorFromHex("2563eb")
	colorMA200  = drawing.ColorFromHex("f59e0b")
	colorBuy    = drawing.ColorFromHex("16a34a")
	colorSell   = drawing.ColorFromHex("dc2626")
	colorBand   = drawing.ColorFromHex("7c3aed")
	colorRSI    = drawing.ColorFromHex("0891b2")
	colorMACD   = drawing.ColorFromHex("2563eb")
	colorSignal = drawing.ColorFromHex("ea580c")
	colorLevel  = drawing.ColorFromHex("9ca3af")

	dashed = []float64{5, 3}
)

// Charts holds the rendered SVG panels of an analysis page.
type Charts struct {
	Price     template.HTML
	Bollinger template.HTML
	Momentum  template.HTML
}

// buildCharts renders the price, Bollinger and momentum panels. It returns
// nil for series too short to plot.
func buildCharts(series []core.EnrichedPoint) (*Charts, error) {
	if len(series) < 2 {
		return nil, nil
	}

	dates := make([]time.Time, len(series))
	prices := make([]float64, len(series))
	for i, p := range series {
		dates[i] = p.Date
		prices[i] = p.Price
	}
	price := chart.TimeSeries{
		Name:    "Price",
		XValues: dates,
		YValues: prices,
		Style:   chart.Style{StrokeColor: colorPrice, StrokeWidth: 1.5},
	}

	var (
		c   Charts
		err error
	)

	var buys, sells []core.EnrichedPoint
	for _, p := range series {
		switch p.SignalBT {
		case core.SignalBuy:
			buys = append(buys, p)
		case core.SignalSell:
			sells = append(sells, p)
		}
	}
	c.Price, err = renderPanel(newPanel(
		&price,
		line("MA 50", series, func(p core.EnrichedPoint) *float64 { return p.MA50 }, chart.Style{StrokeColor: colorMA50, StrokeWidth: 1}),
		line("MA 200", series, func(p core.EnrichedPoint) *float64 { return p.MA200 }, chart.Style{StrokeColor: colorMA200, StrokeWidth: 1}),
		markers("Buy", buys, colorBuy),
		markers("Sell", sells, colorSell),
	))
	if err != nil {
		return nil, fmt.Errorf("price chart: %w", err)
	}

	c.Bollinger, err = renderPanel(newPanel(
		&price,
		line("BB Upper", series, func(p core.EnrichedPoint) *float64 { return p.BBUpper }, chart.Style{StrokeColor: colorBand, StrokeWidth: 1, StrokeDashArray: dashed}),
		line("BB Lower", series, func(p core.EnrichedPoint) *float64 { return p.BBLower }, chart.Style{StrokeColor: colorBand, StrokeWidth: 1, StrokeDashArray: dashed}),
	))
	if err != nil {
		return nil, fmt.Errorf("bollinger chart: %w", err)
	}

	first, last := dates[0], dates[len(dates)-1]
	momentum := newPanel(
		line("RSI 14", series, func(p core.EnrichedPoint) *float64 { return p.RSI14 }, chart.Style{StrokeColor: colorRSI, StrokeWidth: 1}),
		level("RSI 70", first, last, indicator.RSIOverbought),
		level("RSI 30", first, last, rsiOversold),
		secondary(line("MACD", series, func(p core.EnrichedPoint) *float64 { return p.MACD }, chart.Style{StrokeColor: colorMACD, StrokeWidth: 1})),
		secondary(line("Signal", series, func(p core.EnrichedPoint) *float64 { return p.SignalLine }, chart.Style{StrokeColor: colorSignal, StrokeWidth: 1})),
	)
	momentum.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: 100}
	c.Momentum, err = renderPanel(momentum)
	if err != nil {
		return nil, fmt.Errorf("momentum chart: %w", err)
	}

	return &c, nil
}

// newPanel lays out a time chart. Nil series are dropped.
func newPanel(series ...*chart.TimeSeries) *chart.Chart {
	graph := &chart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
	}
	for _, s := range series {
		if s != nil {
			graph.Series = append(graph.Series, *s)
		}
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph
}

func renderPanel(graph *chart.Chart) (template.HTML, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// line collects the non-null values of one indicator column.
func line(name string, series []core.EnrichedPoint, get func(core.EnrichedPoint) *float64, style chart.Style) *chart.TimeSeries {
	ts := &chart.TimeSeries{Name: name, Style: style}
	for _, p := range series {
		if v := get(p); v != nil {
			ts.XValues = append(ts.XValues, p.Date)
			ts.YValues = append(ts.YValues, *v)
		}
	}
	if len(ts.XValues) == 0 {
		return nil
	}
	return ts
}

func markers(name string, points []core.EnrichedPoint, color drawing.Color) *chart.TimeSeries {
	if len(points) == 0 {
		return nil
	}
	ts := &chart.TimeSeries{
		Name:  name,
		Style: chart.Style{StrokeWidth: chart.Disabled, DotColor: color, DotWidth: 4},
	}
	for _, p := range points {
		ts.XValues = append(ts.XValues, p.Date)
		ts.YValues = append(ts.YValues, p.Price)
	}
	return ts
}

func level(name string, from, to time.Time, v float64) *chart.TimeSeries {
	return &chart.TimeSeries{
		Name:    name,
		XValues: []time.Time{from, to},
		YValues: []float64{v, v},
		Style:   chart.Style{StrokeColor: colorLevel, StrokeWidth: 1, StrokeDashArray: dashed},
	}
}

func secondary(ts *chart.TimeSeries) *chart.TimeSeries {
	if ts != nil {
		ts.YAxis = chart.YAxisSecondary
	}
	return ts
}
