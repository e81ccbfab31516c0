package indicator

import (
	"math"

	"github.com/newthinker/mercado/internal/core"
)

// Indicator windows.
const (
	VolatilityPeriod = 30
	FastMAPeriod     = 50
	SlowMAPeriod     = 200
	FastEMAPeriod    = 12
	SlowEMAPeriod    = 26
	SignalEMAPeriod  = 9
	BollingerPeriod  = 20
	BollingerWidth   = 2.0
	RSIPeriod        = 14
	ATRPeriod        = 14
)

// Compute enriches a daily close series with every indicator and the
// discrete backtest signal. The output has the same length and order as
// the input. Undefined values are nil, never NaN or Inf.
func Compute(series []core.PricePoint) ([]core.EnrichedPoint, error) {
	if len(series) == 0 {
		return nil, core.ErrEmptyInput
	}

	prices := core.Closes(series)

	returns := Returns(prices)
	volatility := RollingStd(returns, VolatilityPeriod)
	ma50 := SMA(prices, FastMAPeriod)
	ma200 := SMA(prices, SlowMAPeriod)

	ema12 := EMA(prices, FastEMAPeriod)
	ema26 := EMA(prices, SlowEMAPeriod)
	macd := make([]float64, len(prices))
	for i := range prices {
		macd[i] = ema12[i] - ema26[i]
	}
	signalLine := EMA(macd, SignalEMAPeriod)

	sma20 := SMA(prices, BollingerPeriod)
	std20 := RollingStd(prices, BollingerPeriod)
	bbUpper := make([]float64, len(prices))
	bbLower := make([]float64, len(prices))
	for i := range prices {
		bbUpper[i] = sma20[i] + BollingerWidth*std20[i]
		bbLower[i] = sma20[i] - BollingerWidth*std20[i]
	}

	rsi := RSI(prices, RSIPeriod)
	atr := ATR(prices, ATRPeriod)

	signals := GenerateSignals(SignalInputs{
		Price:      prices,
		MA50:       ma50,
		MACD:       macd,
		SignalLine: signalLine,
		RSI:        rsi,
	})

	out := make([]core.EnrichedPoint, len(series))
	for i, p := range series {
		out[i] = core.EnrichedPoint{
			PricePoint:   p,
			Return:       value(returns[i]),
			Volatility30: value(volatility[i]),
			MA50:         value(ma50[i]),
			MA200:        value(ma200[i]),
			EMA12:        value(ema12[i]),
			EMA26:        value(ema26[i]),
			MACD:         value(macd[i]),
			SignalLine:   value(signalLine[i]),
			SMA20:        value(sma20[i]),
			BBUpper:      value(bbUpper[i]),
			BBLower:      value(bbLower[i]),
			RSI14:        value(rsi[i]),
			ATR14:        value(atr[i]),
			SignalBT:     signals[i],
		}
	}
	return out, nil
}

// value maps non-finite numbers to nil.
func value(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
