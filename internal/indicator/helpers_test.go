package indicator

import (
	"time"

	"github.com/rxtech-lab/argo-smc/internal/types"
)

var testStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// seriesFromCloses builds 5-minute candles with a one-unit range around each close.
func seriesFromCloses(closes []float64) types.CandleSeries {
	candles := make([]types.Candle, len(closes))
	for i, c := range closes {
		candles[i] = types.Candle{
			Time:   testStart.Add(time.Duration(i) * 5 * time.Minute),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 10,
		}
	}

	series, err := types.NewCandleSeries(candles)
	if err != nil {
		panic(err)
	}

	return series
}

func linearCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}

	return out
}
