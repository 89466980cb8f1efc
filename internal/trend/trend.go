// Package trend classifies the higher-timeframe bias of a candle series.
package trend

import (
	"math"

	"github.com/rxtech-lab/argo-smc/internal/indicator"
	"github.com/rxtech-lab/argo-smc/internal/types"
)

// DefaultPeriod is the EMA period used for the higher-timeframe bias.
const DefaultPeriod = 20

// Classify compares the last close with the EMA of closes over period.
// Above is BULL, below is BEAR; an empty series, an undefined EMA or an exact
// tie is NEUTRAL.
func Classify(series types.CandleSeries, period int) types.Trend {
	if series.IsEmpty() {
		return types.TrendNeutral
	}

	closes := series.Closes()

	ema, err := indicator.EMA(closes, period)
	if err != nil {
		return types.TrendNeutral
	}

	lastClose := closes[len(closes)-1]
	lastEMA := ema[len(ema)-1]

	switch {
	case math.IsNaN(lastClose) || math.IsNaN(lastEMA):
		return types.TrendNeutral
	case lastClose > lastEMA:
		return types.TrendBull
	case lastClose < lastEMA:
		return types.TrendBear
	default:
		return types.TrendNeutral
	}
}
