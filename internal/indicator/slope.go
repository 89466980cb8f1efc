package indicator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// Slope returns the least-squares slope of values against x = 0..n-1.
// It is NaN for fewer than two values or when any value is not finite.
func Slope(values []float64) float64 {
	n := len(values)
	if n < 2 || !allFinite(values) {
		return math.NaN()
	}

	fitted := talib.LinearRegSlope(values, n)

	return fitted[n-1]
}
