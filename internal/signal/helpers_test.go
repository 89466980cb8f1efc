package signal

import (
	"time"

	"github.com/rxtech-lab/argo-smc/internal/indicator"
	"github.com/rxtech-lab/argo-smc/internal/types"
)

var scenarioStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// buyScenario is a 60-candle 5-minute series ending in a wick sweep above the prior
// 20-candle high, with a structure shift and a fair-value gap for BUY.
type buyScenario struct {
	candles []types.Candle
	width   float64
	slow    []float64
	atr     float64
}

func newBuyScenario() *buyScenario {
	candles := make([]types.Candle, 60)
	for i := 0; i < 57; i++ {
		candles[i] = types.Candle{Open: 100, High: 100.5, Low: 99.5, Close: 100, Volume: 10}
	}

	// the prior range high sits inside the lookback window
	candles[45].High = 103

	candles[57] = types.Candle{Open: 100, High: 100.5, Low: 99.6, Close: 100.4, Volume: 10}
	candles[58] = types.Candle{Open: 100.6, High: 101.5, Low: 100.5, Close: 101.4, Volume: 10}
	candles[59] = types.Candle{Open: 101.6, High: 103.5, Low: 101.0, Close: 102, Volume: 10}

	return &buyScenario{
		candles: candles,
		width:   0.01,
		slow:    []float64{31.0, 31.2, 31.4, 31.6, 31.8, 32.0},
		atr:     0.4,
	}
}

// sellScenario mirrors buyScenario below the prior range.
func newSellScenario() *buyScenario {
	candles := make([]types.Candle, 60)
	for i := 0; i < 57; i++ {
		candles[i] = types.Candle{Open: 100, High: 100.5, Low: 99.5, Close: 100, Volume: 10}
	}

	candles[45].Low = 97

	candles[57] = types.Candle{Open: 100, High: 100.4, Low: 99.5, Close: 99.6, Volume: 10}
	candles[58] = types.Candle{Open: 99.4, High: 99.5, Low: 98.5, Close: 98.6, Volume: 10}
	candles[59] = types.Candle{Open: 98.4, High: 99.0, Low: 96.5, Close: 98, Volume: 10}

	return &buyScenario{
		candles: candles,
		width:   0.01,
		slow:    []float64{69.0, 68.8, 68.6, 68.4, 68.2, 68.0},
		atr:     0.4,
	}
}

func (s *buyScenario) frame() indicator.Frame {
	candles := make([]types.Candle, len(s.candles))
	copy(candles, s.candles)

	for i := range candles {
		candles[i].Time = scenarioStart.Add(time.Duration(i) * 5 * time.Minute)
	}

	series, err := types.NewCandleSeries(candles)
	if err != nil {
		panic(err)
	}

	frame := indicator.NewFrame(series)
	n := frame.Len()

	for i := 0; i < n; i++ {
		frame.BBWidthPercent[i] = s.width
		frame.ATR[i] = s.atr
	}

	for i, v := range s.slow {
		frame.TDISlowMA[n-len(s.slow)+i] = v
	}

	return frame
}

// htfSeries returns an hourly series trending by step per candle.
func htfSeries(step float64) types.CandleSeries {
	candles := make([]types.Candle, 40)
	for i := range candles {
		c := 100 + float64(i)*step
		candles[i] = types.Candle{
			Time: scenarioStart.Add(time.Duration(i) * time.Hour),
			Open: c, High: c + 1, Low: c - 1, Close: c,
		}
	}

	series, err := types.NewCandleSeries(candles)
	if err != nil {
		panic(err)
	}

	return series
}
