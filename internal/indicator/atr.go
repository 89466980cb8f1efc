package indicator

import (
	"github.com/markcheno/go-talib"
	"github.com/rxtech-lab/argo-smc/internal/types"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
)

// ATR represents the Average True Range indicator.
type ATR struct {
	period        int
	fallbackRatio float64
}

// NewATR creates a new ATR indicator. fallbackRatio is the fraction of the close
// used as the ATR column when the calculation fails.
func NewATR(period int, fallbackRatio float64) Indicator {
	return &ATR{
		period:        period,
		fallbackRatio: fallbackRatio,
	}
}

// Name returns the name of the indicator.
func (a *ATR) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

// Apply writes the ATR column.
func (a *ATR) Apply(frame *Frame) error {
	frame.ATRFallbackRatio = a.fallbackRatio

	values, err := CalculateATR(frame.Series.Highs(), frame.Series.Lows(), frame.Series.Closes(), a.period)
	if err != nil && !errors.IsInsufficientDataError(err) {
		return err
	}

	frame.ATR = values

	return err
}

// Fallback replaces the ATR column with close * fallbackRatio.
func (a *ATR) Fallback(frame *Frame) {
	frame.ATRFallbackRatio = a.fallbackRatio
	closes := frame.Series.Closes()
	frame.ATR = make([]float64, len(closes))

	for i, c := range closes {
		frame.ATR[i] = c * a.fallbackRatio
	}
}

// CalculateATR returns the simple rolling mean of the true range over period.
// The first true range is high - low. With fewer than period candles the column is
// all NaN and an InsufficientDataError is returned alongside it.
func CalculateATR(highs, lows, closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	n := len(closes)
	if len(highs) != n || len(lows) != n {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "mismatched column lengths: high=%d low=%d close=%d", len(highs), len(lows), n)
	}

	if !allFinite(highs) || !allFinite(lows) || !allFinite(closes) {
		return nil, errors.New(errors.ErrCodeIndicatorCalculation, "atr requires finite prices")
	}

	if n < period {
		return nanSlice(n), errors.NewInsufficientDataErrorf(period, n, "atr", "atr needs %d candles, got %d", period, n)
	}

	trueRange := []float64{highs[0] - lows[0]}
	if n > 1 {
		trueRange = talib.TRange(highs, lows, closes)
		trueRange[0] = highs[0] - lows[0]
	}

	if period == 1 {
		return trueRange, nil
	}

	out := talib.Sma(trueRange, period)
	maskWarmup(out, period)

	return out, nil
}
