package signal

import (
	"math"

	"github.com/rxtech-lab/argo-smc/internal/indicator"
	"github.com/rxtech-lab/argo-smc/internal/structure"
	"github.com/rxtech-lab/argo-smc/internal/types"
)

// FilterName identifies one gate of the signal pipeline.
type FilterName string

const (
	FilterMinHistory      FilterName = "min_history"
	FilterBBWidth         FilterName = "bb_width"
	FilterLiquiditySweep  FilterName = "liquidity_sweep"
	FilterHTFAlignment    FilterName = "htf_alignment"
	FilterTDIZone         FilterName = "tdi_zone"
	FilterTDISlope        FilterName = "tdi_slope"
	FilterTDIDivergence   FilterName = "tdi_divergence"
	FilterMarketStructure FilterName = "market_structure_shift"
	FilterFairValueGap    FilterName = "fair_value_gap"
)

// Rejection reasons reported in NoTrade.
const (
	ReasonInsufficientData = "Insufficient data"
	ReasonBBWidth          = "BB width filter"
	ReasonNoSweep          = "No liquidity sweep"
	ReasonHTFMisaligned    = "HTF misaligned"
	ReasonWeakTDIZone      = "Weak TDI zone"
	ReasonFlatTDI          = "Flat TDI"
	ReasonTDIDivergence    = "TDI divergence"
	ReasonNoMSS            = "No MSS"
	ReasonNoFVG            = "No FVG"
	ReasonDuplicate        = "Duplicate signal"
	ReasonComputationFault = "Computation fault"
	ReasonMissingState     = "Missing state"
)

// evaluation carries the intermediate results of one GenerateSignal call.
type evaluation struct {
	cfg   Config
	state *State
	frame indicator.Frame
	last  indicator.FrameRow

	sweep     types.SweepEvent
	direction types.Direction
	slope     float64
}

// filter is a named gate: pass returns false to reject with reason.
type filter struct {
	name   FilterName
	reason string
	pass   func(ev *evaluation) bool
}

// pipeline lists every gate in evaluation order.
var pipeline = []filter{
	{
		name:   FilterMinHistory,
		reason: ReasonInsufficientData,
		pass: func(ev *evaluation) bool {
			return ev.frame.Len() >= ev.cfg.MinHistory
		},
	},
	{
		name:   FilterBBWidth,
		reason: ReasonBBWidth,
		pass: func(ev *evaluation) bool {
			width := ev.last.BBWidthPercent

			return width >= ev.cfg.MinBBWidth && width <= ev.cfg.MaxBBWidth
		},
	},
	{
		name:   FilterLiquiditySweep,
		reason: ReasonNoSweep,
		pass: func(ev *evaluation) bool {
			event := structure.LiquiditySweep(ev.frame.Series, ev.cfg.SweepLookback)
			if event.IsNone() {
				return false
			}

			ev.sweep = event.Unwrap()
			ev.direction = ev.sweep.Direction

			return true
		},
	},
	{
		name:   FilterHTFAlignment,
		reason: ReasonHTFMisaligned,
		pass: func(ev *evaluation) bool {
			return ev.state.HTFTrend.Aligned(ev.direction)
		},
	},
	{
		name:   FilterTDIZone,
		reason: ReasonWeakTDIZone,
		pass: func(ev *evaluation) bool {
			slow := ev.last.TDISlowMA
			if ev.direction == types.DirectionBuy {
				return slow >= ev.cfg.MinTDIBuy
			}

			return slow <= ev.cfg.MaxTDISell
		},
	},
	{
		name:   FilterTDISlope,
		reason: ReasonFlatTDI,
		pass: func(ev *evaluation) bool {
			return math.Abs(ev.slope) >= ev.cfg.MinTDISlope
		},
	},
	{
		name:   FilterTDIDivergence,
		reason: ReasonTDIDivergence,
		pass: func(ev *evaluation) bool {
			window := ev.cfg.DivergenceWindow
			priceSlope := indicator.Slope(indicator.Tail(ev.frame.Series.Closes(), window))
			momentumSlope := indicator.Slope(indicator.Tail(ev.frame.TDISlowMA, window))

			if ev.direction == types.DirectionBuy {
				return !(priceSlope > 0 && momentumSlope < 0)
			}

			return !(priceSlope < 0 && momentumSlope > 0)
		},
	},
	{
		name:   FilterMarketStructure,
		reason: ReasonNoMSS,
		pass: func(ev *evaluation) bool {
			return structure.MarketStructureShift(ev.frame.Series, ev.direction)
		},
	},
	{
		name:   FilterFairValueGap,
		reason: ReasonNoFVG,
		pass: func(ev *evaluation) bool {
			return structure.FairValueGap(ev.frame.Series, ev.direction)
		},
	},
}

// AllFilters returns every filter name in pipeline order.
func AllFilters() []FilterName {
	names := make([]FilterName, len(pipeline))
	for i, f := range pipeline {
		names[i] = f.name
	}

	return names
}

func lookupFilter(name FilterName) (filter, bool) {
	for _, f := range pipeline {
		if f.name == name {
			return f, true
		}
	}

	return filter{}, false
}

// selectFilters returns the enabled filters in pipeline order.
func selectFilters(names []FilterName) []filter {
	enabled := make(map[FilterName]bool, len(names))
	for _, name := range names {
		enabled[name] = true
	}

	selected := make([]filter, 0, len(names))
	for _, f := range pipeline {
		if enabled[f.name] {
			selected = append(selected, f)
		}
	}

	return selected
}
