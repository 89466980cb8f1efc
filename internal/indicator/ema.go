package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-smc/pkg/errors"
)

// EMA returns the exponential moving average of values with alpha = 2/(period+1),
// seeded with the first value. Leading NaNs stay NaN and a NaN input carries the
// previous average forward.
func EMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	out := nanSlice(len(values))
	alpha := 2.0 / float64(period+1)
	prev := math.NaN()

	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = prev
		case math.IsNaN(prev):
			prev = v
			out[i] = v
		default:
			prev = alpha*v + (1-alpha)*prev
			out[i] = prev
		}
	}

	return out, nil
}
