package types

import (
	"encoding/json"
	"math"
)

// Direction is the side of a setup.
type Direction string

const (
	// DirectionBuy is a long setup.
	DirectionBuy Direction = "BUY"
	// DirectionSell is a short setup.
	DirectionSell Direction = "SELL"
	// DirectionNone means no setup was emitted.
	DirectionNone Direction = "NO_TRADE"
)

// Trend is the higher-timeframe bias.
type Trend string

const (
	TrendBull    Trend = "BULL"
	TrendBear    Trend = "BEAR"
	TrendNeutral Trend = "NEUTRAL"
)

// Aligned reports whether a trend permits a setup in direction d.
func (t Trend) Aligned(d Direction) bool {
	return (d == DirectionBuy && t == TrendBull) || (d == DirectionSell && t == TrendBear)
}

// SignalStrength grades an emitted signal by the steepness of the momentum slope.
type SignalStrength string

const (
	SignalStrengthSoft SignalStrength = "SOFT"
	SignalStrengthHard SignalStrength = "HARD"
)

// SweepEvent is a wick-only breach of the prior range on the last candle.
type SweepEvent struct {
	Direction  Direction `json:"direction"`
	SweepLevel float64   `json:"sweep_level"`
}

// Decision is the outcome of one signal evaluation: either NoTrade or Signal.
type Decision interface {
	// Action returns the emitted direction, DirectionNone for NoTrade.
	Action() Direction
	isDecision()
}

// NoTrade is a rejected evaluation with a diagnostic reason.
type NoTrade struct {
	Reason string `json:"reason"`
}

// Action implements Decision.
func (NoTrade) Action() Direction { return DirectionNone }

func (NoTrade) isDecision() {}

// Signal is an emitted setup with its price levels and the indicator readings behind it.
type Signal struct {
	Direction      Direction      `json:"direction"`
	EntryPrice     float64        `json:"entry_price"`
	StopLoss       float64        `json:"stop_loss"`
	TakeProfit     float64        `json:"take_profit"`
	RiskFactor     float64        `json:"risk_factor"`
	SignalStrength SignalStrength `json:"signal_strength"`
	TDISlowMA      float64        `json:"tdi_slow_ma"`
	TDISlope       float64        `json:"tdi_slope"`
	BBWidthPercent float64        `json:"bb_width_percent"`
	ATR            float64        `json:"atr"`
}

// Action implements Decision.
func (s Signal) Action() Direction { return s.Direction }

func (Signal) isDecision() {}

// Risk returns the absolute distance between entry and stop.
func (s Signal) Risk() float64 {
	if s.EntryPrice > s.StopLoss {
		return s.EntryPrice - s.StopLoss
	}

	return s.StopLoss - s.EntryPrice
}

// MarshalJSON encodes the signal with non-finite readings as null.
func (s Signal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Direction      Direction      `json:"direction"`
		EntryPrice     *float64       `json:"entry_price"`
		StopLoss       *float64       `json:"stop_loss"`
		TakeProfit     *float64       `json:"take_profit"`
		RiskFactor     *float64       `json:"risk_factor"`
		SignalStrength SignalStrength `json:"signal_strength"`
		TDISlowMA      *float64       `json:"tdi_slow_ma"`
		TDISlope       *float64       `json:"tdi_slope"`
		BBWidthPercent *float64       `json:"bb_width_percent"`
		ATR            *float64       `json:"atr"`
	}{
		Direction:      s.Direction,
		EntryPrice:     finite(s.EntryPrice),
		StopLoss:       finite(s.StopLoss),
		TakeProfit:     finite(s.TakeProfit),
		RiskFactor:     finite(s.RiskFactor),
		SignalStrength: s.SignalStrength,
		TDISlowMA:      finite(s.TDISlowMA),
		TDISlope:       finite(s.TDISlope),
		BBWidthPercent: finite(s.BBWidthPercent),
		ATR:            finite(s.ATR),
	})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return &v
}
