package scanner

import (
	"time"

	"github.com/rxtech-lab/argo-smc/internal/indicator"
	"github.com/rxtech-lab/argo-smc/internal/types"
)

var scanStart = time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC)

// scenarioFrames fills the indicator columns the signal engine reads with values
// that pass every gate, so only the candles decide the outcome.
type scenarioFrames struct{}

func (scenarioFrames) Compute(series types.CandleSeries) indicator.Frame {
	frame := indicator.NewFrame(series)
	n := frame.Len()

	for i := 0; i < n; i++ {
		frame.BBWidthPercent[i] = 0.01
		frame.ATR[i] = 0.4
	}

	slow := []float64{31.0, 31.2, 31.4, 31.6, 31.8, 32.0}
	for i, v := range slow {
		if idx := n - len(slow) + i; idx >= 0 {
			frame.TDISlowMA[idx] = v
		}
	}

	return frame
}

func flatCandles() []types.Candle {
	candles := make([]types.Candle, 60)
	for i := range candles {
		candles[i] = types.Candle{Open: 100, High: 100.5, Low: 99.5, Close: 100, Volume: 10}
	}

	return candles
}

// buySetupSeries ends in a wick above the prior high with a structure shift and a gap.
func buySetupSeries() types.CandleSeries {
	candles := flatCandles()
	candles[45].High = 103
	candles[57] = types.Candle{Open: 100, High: 100.5, Low: 99.6, Close: 100.4, Volume: 10}
	candles[58] = types.Candle{Open: 100.6, High: 101.5, Low: 100.5, Close: 101.4, Volume: 10}
	candles[59] = types.Candle{Open: 101.6, High: 103.5, Low: 101.0, Close: 102, Volume: 10}

	return seriesOf(candles, 5*time.Minute)
}

func flatSeries() types.CandleSeries {
	return seriesOf(flatCandles(), 5*time.Minute)
}

// uptrendSeries is an hourly series rising one point per candle.
func uptrendSeries() types.CandleSeries {
	candles := make([]types.Candle, 40)
	for i := range candles {
		c := 100 + float64(i)
		candles[i] = types.Candle{Open: c, High: c + 1, Low: c - 1, Close: c}
	}

	return seriesOf(candles, time.Hour)
}

func seriesOf(candles []types.Candle, step time.Duration) types.CandleSeries {
	for i := range candles {
		candles[i].Time = scanStart.Add(time.Duration(i) * step)
	}

	series, err := types.NewCandleSeries(candles)
	if err != nil {
		panic(err)
	}

	return series
}
