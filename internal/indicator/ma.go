package indicator

import (
	"math"

	"github.com/markcheno/go-talib"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
)

// SMA returns the rolling mean of values over period. A window containing a
// non-finite value yields NaN, so the first period-1 values are always NaN.
//
// talib.Sma keeps one running total for the whole input, so a single NaN would
// poison every later value. Each run of consecutive finite values is therefore
// averaged on its own.
func SMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	n := len(values)
	out := nanSlice(n)

	for start := 0; start < n; {
		if !finite(values[start]) {
			start++
			continue
		}

		end := start
		for end < n && finite(values[end]) {
			end++
		}

		if end-start >= period {
			run := talib.Sma(values[start:end], period)
			copy(out[start+period-1:end], run[period-1:])
		}

		start = end
	}

	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
