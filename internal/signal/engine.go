// Package signal turns an indicator frame and a higher-timeframe bias into a trade decision
// by running an ordered pipeline of named gates.
package signal

import (
	"fmt"
	"math"

	"github.com/rxtech-lab/argo-smc/internal/indicator"
	"github.com/rxtech-lab/argo-smc/internal/logger"
	"github.com/rxtech-lab/argo-smc/internal/trend"
	"github.com/rxtech-lab/argo-smc/internal/types"
	"go.uber.org/zap"
)

// Engine evaluates the signal pipeline. It holds no per-symbol data and is safe for
// concurrent use as long as each State is used by one goroutine at a time.
type Engine struct {
	cfg     Config
	filters []filter
	log     *logger.Logger
}

// NewEngine validates cfg and builds an engine.
func NewEngine(cfg Config, log *logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNop()
	}

	return &Engine{
		cfg:     cfg,
		filters: selectFilters(cfg.Filters),
		log:     log.Named("signal"),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetHTFTrend classifies the higher-timeframe series and stores the bias in state.
// A nil state is rejected: nothing is classified and TrendNeutral is returned.
func (e *Engine) SetHTFTrend(state *State, htf types.CandleSeries) types.Trend {
	if state == nil {
		e.log.Error("htf trend without state", zap.Int("candles", htf.Len()))
		return types.TrendNeutral
	}

	bias := trend.Classify(htf, e.cfg.HTFEMAPeriod)
	state.HTFTrend = bias

	return bias
}

// GenerateSignal runs the pipeline on frame. Rejections return NoTrade with the
// failing gate's reason; state.LastSignal only changes when a Signal is returned.
// A nil state is rejected with ReasonMissingState before any gate runs.
func (e *Engine) GenerateSignal(state *State, frame indicator.Frame) (decision types.Decision) {
	if state == nil {
		e.log.Error("signal evaluation without state", zap.Int("rows", frame.Len()))
		return types.NoTrade{Reason: ReasonMissingState}
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("signal evaluation failed", zap.String("panic", fmt.Sprint(r)), zap.Int("rows", frame.Len()))
			decision = types.NoTrade{Reason: ReasonComputationFault}
		}
	}()

	if frame.Len() == 0 {
		return types.NoTrade{Reason: ReasonInsufficientData}
	}

	ev := &evaluation{
		cfg:   e.cfg,
		state: state,
		frame: frame,
		last:  frame.Last(),
		slope: indicator.Slope(indicator.Tail(frame.TDISlowMA, e.cfg.SlopeWindow)),
	}

	for _, f := range e.filters {
		if !f.pass(ev) {
			return types.NoTrade{Reason: f.reason}
		}
	}

	signal, ok := e.levels(ev)
	if !ok {
		return types.NoTrade{Reason: fmt.Sprintf("Invalid %s risk", ev.direction)}
	}

	if ev.direction == state.LastSignal {
		return types.NoTrade{Reason: ReasonDuplicate}
	}

	state.LastSignal = ev.direction

	return signal
}

// levels derives entry, stop and target from the sweep and checks the risk bound.
func (e *Engine) levels(ev *evaluation) (types.Signal, bool) {
	entry := ev.last.Candle.Close
	atr := e.effectiveATR(ev.last, ev.frame.ATRFallbackRatio)
	buffer := atr * e.cfg.ATRStopMultiplier

	var stop, target, risk float64

	if ev.direction == types.DirectionBuy {
		stop = ev.sweep.SweepLevel - buffer
		risk = entry - stop
		target = entry + risk*e.cfg.RiskRewardRatio
	} else {
		stop = ev.sweep.SweepLevel + buffer
		risk = stop - entry
		target = entry - risk*e.cfg.RiskRewardRatio
	}

	if !(risk > 0) || math.IsInf(risk, 0) {
		return types.Signal{}, false
	}

	if risk < entry*e.cfg.MinRiskPct || risk > entry*e.cfg.MaxRiskPct {
		return types.Signal{}, false
	}

	strength := types.SignalStrengthSoft
	if math.Abs(ev.slope) > e.cfg.HardSlope {
		strength = types.SignalStrengthHard
	}

	return types.Signal{
		Direction:      ev.direction,
		EntryPrice:     entry,
		StopLoss:       stop,
		TakeProfit:     target,
		RiskFactor:     e.cfg.RiskRewardRatio,
		SignalStrength: strength,
		TDISlowMA:      ev.last.TDISlowMA,
		TDISlope:       ev.slope,
		BBWidthPercent: ev.last.BBWidthPercent,
		ATR:            atr,
	}, true
}

// effectiveATR returns the last ATR, or close * ratio while ATR is undefined. ratio is
// the frame's ATRFallbackRatio.
func (e *Engine) effectiveATR(row indicator.FrameRow, ratio float64) float64 {
	atr := row.ATR
	if !math.IsNaN(atr) && !math.IsInf(atr, 0) && atr > 0 {
		return atr
	}

	if !(ratio > 0) || math.IsInf(ratio, 0) {
		ratio = indicator.DefaultATRFallbackRatio
	}

	fallback := row.Candle.Close * ratio
	e.log.Warn("atr fallback",
		zap.Float64("atr", atr),
		zap.Float64("close", row.Candle.Close),
		zap.Float64("fallback", fallback),
	)

	return fallback
}
