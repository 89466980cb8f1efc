package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-smc/internal/logger"
	"github.com/rxtech-lab/argo-smc/internal/types"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
	"go.uber.org/zap"
)

// Params configures the default indicator set.
type Params struct {
	RSIPeriod        int     `yaml:"rsi_period" json:"rsi_period" jsonschema:"title=RSI Period,default=14" validate:"gte=2"`
	TDIFastPeriod    int     `yaml:"tdi_fast_period" json:"tdi_fast_period" jsonschema:"title=TDI Fast Period,default=1" validate:"gte=1"`
	TDISlowPeriod    int     `yaml:"tdi_slow_period" json:"tdi_slow_period" jsonschema:"title=TDI Slow Period,default=7" validate:"gte=1"`
	BBPeriod         int     `yaml:"bb_period" json:"bb_period" jsonschema:"title=Bollinger Period,default=20" validate:"gte=2"`
	BBDeviation      float64 `yaml:"bb_deviation" json:"bb_deviation" jsonschema:"title=Bollinger Deviation,default=2" validate:"gt=0"`
	ATRPeriod        int     `yaml:"atr_period" json:"atr_period" jsonschema:"title=ATR Period,default=14" validate:"gte=1"`
	ATRFallbackRatio float64 `yaml:"atr_fallback_ratio" json:"atr_fallback_ratio" jsonschema:"title=ATR Fallback Ratio,default=0.001" validate:"gt=0"`
}

// DefaultParams returns the standard indicator parameters.
func DefaultParams() Params {
	return Params{
		RSIPeriod:        14,
		TDIFastPeriod:    1,
		TDISlowPeriod:    7,
		BBPeriod:         20,
		BBDeviation:      2.0,
		ATRPeriod:        14,
		ATRFallbackRatio: DefaultATRFallbackRatio,
	}
}

// Engine turns a candle series into a Frame by applying its registered indicators in order.
type Engine struct {
	registry IndicatorRegistry
	log      *logger.Logger
}

// NewEngine creates an engine with RSI, TDI, Bollinger Bands and ATR registered.
func NewEngine(params Params, log *logger.Logger) (*Engine, error) {
	registry := NewIndicatorRegistry()

	for _, ind := range []Indicator{
		NewRSI(params.RSIPeriod),
		NewTDI(params.TDIFastPeriod, params.TDISlowPeriod),
		NewBollingerBands(params.BBPeriod, params.BBDeviation),
		NewATR(params.ATRPeriod, params.ATRFallbackRatio),
	} {
		if err := registry.RegisterIndicator(ind); err != nil {
			return nil, err
		}
	}

	return NewEngineWithRegistry(registry, log), nil
}

// NewEngineWithRegistry creates an engine over a caller-supplied registry.
func NewEngineWithRegistry(registry IndicatorRegistry, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}

	return &Engine{
		registry: registry,
		log:      log.Named("indicator"),
	}
}

// Compute returns a new frame for series. It never fails: an indicator that is still
// warming up keeps its NaN columns, and one that errors or panics is replaced by its
// fallback columns and the fault is logged.
func (e *Engine) Compute(series types.CandleSeries) Frame {
	frame := NewFrame(series)

	for _, name := range e.registry.ListIndicators() {
		ind, err := e.registry.GetIndicator(name)
		if err != nil {
			continue
		}

		err = e.apply(ind, &frame)
		if err == nil {
			continue
		}

		var insufficient *errors.InsufficientDataError
		if errors.As(err, &insufficient) {
			e.log.Debug("indicator warming up",
				zap.String("indicator", string(name)),
				zap.Int("candles", series.Len()),
				zap.Int("missing", insufficient.Missing()),
			)

			continue
		}

		e.log.Error("indicator failed, using fallback",
			zap.String("indicator", string(name)),
			zap.Int("candles", series.Len()),
			zap.Error(err),
		)
		ind.Fallback(&frame)
	}

	return frame
}

func (e *Engine) apply(ind Indicator, frame *Frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeIndicatorCalculation, fmt.Sprintf("panic in %s: %v", ind.Name(), r))
		}
	}()

	return ind.Apply(frame)
}
