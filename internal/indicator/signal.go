package indicator

import "github.com/newthinker/mercado/internal/core"

// RSIOverbought is the RSI level above which the rule sells.
const RSIOverbought = 70.0

// SignalInputs holds the aligned columns the crossover rule reads.
type SignalInputs struct {
	Price      []float64
	MA50       []float64
	MACD       []float64
	SignalLine []float64
	RSI        []float64
}

// GenerateSignals evaluates the MACD/RSI/MA50 rule row by row.
//
// Buy needs all of: a fresh MACD up-cross, RSI below 70 and price above MA50.
// Sell needs any of: a fresh MACD down-cross, RSI above 70, price below MA50.
// Sell is applied after buy and wins when both hold. Any comparison against
// an undefined (NaN) value is false.
func GenerateSignals(in SignalInputs) []core.Signal {
	out := make([]core.Signal, len(in.Price))
	for i := range in.Price {
		out[i] = resolveSignal(buyCondition(in, i), sellCondition(in, i))
	}
	return out
}

func buyCondition(in SignalInputs, i int) bool {
	if i == 0 {
		return false
	}
	crossUp := in.MACD[i] > in.SignalLine[i] && in.MACD[i-1] <= in.SignalLine[i-1]
	return crossUp && in.RSI[i] < RSIOverbought && in.Price[i] > in.MA50[i]
}

func sellCondition(in SignalInputs, i int) bool {
	crossDown := i > 0 && in.MACD[i] < in.SignalLine[i] && in.MACD[i-1] >= in.SignalLine[i-1]
	return crossDown || in.RSI[i] > RSIOverbought || in.Price[i] < in.MA50[i]
}

// resolveSignal applies buy first and lets sell overwrite it.
func resolveSignal(buy, sell bool) core.Signal {
	sig := core.SignalHold
	if buy {
		sig = core.SignalBuy
	}
	if sell {
		sig = core.SignalSell
	}
	return sig
}
