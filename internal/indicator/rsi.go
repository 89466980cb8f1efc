package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-smc/internal/types"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
)

// epsilon is the float64 machine epsilon used to keep RSI finite.
var epsilon = math.Nextafter(1, 2) - 1

// RSI represents the Relative Strength Index indicator.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with the given period.
func NewRSI(period int) Indicator {
	return &RSI{
		period: period,
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Apply writes the RSI column.
func (r *RSI) Apply(frame *Frame) error {
	values, err := CalculateRSI(frame.Series.Closes(), r.period)
	if err != nil && !errors.IsInsufficientDataError(err) {
		return err
	}

	frame.RSI = values

	return err
}

// Fallback leaves an all-NaN RSI column.
func (r *RSI) Fallback(frame *Frame) {
	frame.RSI = nanSlice(frame.Len())
}

// CalculateRSI computes Wilder-style RSI using an exponentially weighted mean with
// alpha = 1/period and bias-adjusted weights. Values before index period-1 are NaN.
// With fewer than period closes the whole column is NaN and an InsufficientDataError
// is returned alongside it.
func CalculateRSI(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	out := nanSlice(len(closes))
	if len(closes) < period {
		return out, errors.NewInsufficientDataErrorf(period, len(closes), "rsi", "rsi needs %d closes, got %d", period, len(closes))
	}

	prices := sanitizeCloses(closes)
	decay := 1 - 1/float64(period)

	var gainSum, lossSum, weight float64

	for i := range prices {
		var gain, loss float64

		if i > 0 {
			delta := prices[i] - prices[i-1]
			if delta > 0 {
				gain = delta
			} else if delta < 0 {
				loss = -delta
			}
		}

		gainSum = gain + decay*gainSum
		lossSum = loss + decay*lossSum
		weight = 1 + decay*weight

		if i < period-1 {
			continue
		}

		avgGain := gainSum / weight
		avgLoss := lossSum / weight

		if avgLoss == 0 {
			avgLoss = epsilon
		}

		out[i] = 100 - 100/(1+avgGain/avgLoss)
	}

	if !allFinite(out[period-1:]) {
		return nanSlice(len(closes)), errors.New(errors.ErrCodeIndicatorCalculation, "rsi produced a non-finite value")
	}

	return out, nil
}

// sanitizeCloses forward-fills NaN closes and replaces zero closes with epsilon.
func sanitizeCloses(closes []float64) []float64 {
	out := make([]float64, len(closes))
	last := math.NaN()

	for i, c := range closes {
		if math.IsNaN(c) {
			c = last
		}

		if c == 0 {
			c = epsilon
		}

		out[i] = c
		last = c
	}

	return out
}
