// Package structure detects smart-money price structures on the tail of a candle series:
// liquidity sweeps, market-structure shifts and fair-value gaps.
package structure

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-smc/internal/types"
)

const (
	// DefaultSweepLookback is the number of candles before the last one that form the swept range.
	DefaultSweepLookback = 20

	minShiftCandles = 6
	minGapCandles   = 3
)

// LiquiditySweep reports a wick-only breach of the prior range by the last candle.
// The range is the max high / min low of the lookback candles immediately before the
// last one. A breach above the range whose body stays at or below it is a BUY sweep
// at the candle low; a breach below whose body stays at or above it is a SELL sweep at
// the candle high. BUY is checked first, so at most one event is returned.
// Fewer than lookback+2 candles yields None.
func LiquiditySweep(series types.CandleSeries, lookback int) optional.Option[types.SweepEvent] {
	if lookback <= 0 || series.Len() < lookback+2 {
		return optional.None[types.SweepEvent]()
	}

	window := series.Tail(lookback + 1).Candles()
	prevHigh := math.Inf(-1)
	prevLow := math.Inf(1)

	for _, c := range window[:lookback] {
		prevHigh = math.Max(prevHigh, c.High)
		prevLow = math.Min(prevLow, c.Low)
	}

	last := window[lookback]

	if last.High > prevHigh && last.BodyHigh() <= prevHigh {
		return optional.Some(types.SweepEvent{Direction: types.DirectionBuy, SweepLevel: last.Low})
	}

	if last.Low < prevLow && last.BodyLow() >= prevLow {
		return optional.Some(types.SweepEvent{Direction: types.DirectionSell, SweepLevel: last.High})
	}

	return optional.None[types.SweepEvent]()
}

// MarketStructureShift reports whether the last candle broke the extreme of the candle
// two bars earlier in direction: a higher high for BUY, a lower low for SELL.
// It needs at least six candles.
func MarketStructureShift(series types.CandleSeries, direction types.Direction) bool {
	if series.Len() < minShiftCandles {
		return false
	}

	last := series.Last()
	ref := series.At(-3)

	switch direction {
	case types.DirectionBuy:
		return last.High > ref.High
	case types.DirectionSell:
		return last.Low < ref.Low
	default:
		return false
	}
}

// FairValueGap reports an untraded gap between the last candle and the candle two bars
// earlier: last low above its high for BUY, last high below its low for SELL.
func FairValueGap(series types.CandleSeries, direction types.Direction) bool {
	if series.Len() < minGapCandles {
		return false
	}

	last := series.Last()
	ref := series.At(-3)

	switch direction {
	case types.DirectionBuy:
		return last.Low > ref.High
	case types.DirectionSell:
		return last.High < ref.Low
	default:
		return false
	}
}
