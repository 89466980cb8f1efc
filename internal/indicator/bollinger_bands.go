package indicator

import (
	"math"

	"github.com/markcheno/go-talib"
	"github.com/rxtech-lab/argo-smc/internal/types"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
)

// BollingerBands implements the Indicator interface for Bollinger Bands.
type BollingerBands struct {
	period int     // Number of periods for moving average
	stdDev float64 // Number of standard deviations
}

// BollingerBandsResult holds the band columns for a series.
type BollingerBandsResult struct {
	Middle       []float64
	Upper        []float64
	Lower        []float64
	Std          []float64
	WidthPercent []float64
}

// NewBollingerBands creates a new Bollinger Bands indicator.
func NewBollingerBands(period int, stdDev float64) Indicator {
	return &BollingerBands{
		period: period,
		stdDev: stdDev,
	}
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Apply writes the band columns and the rejection flags.
func (bb *BollingerBands) Apply(frame *Frame) error {
	result, err := CalculateBollingerBands(frame.Series.Closes(), bb.period, bb.stdDev)
	if err != nil && !errors.IsInsufficientDataError(err) {
		return err
	}

	frame.BBMiddle = result.Middle
	frame.BBUpper = result.Upper
	frame.BBLower = result.Lower
	frame.BBStd = result.Std
	frame.BBWidthPercent = result.WidthPercent

	n := frame.Len()
	frame.BBRejectionBuy = make([]bool, n)
	frame.BBRejectionSell = make([]bool, n)

	for i := 0; i < n; i++ {
		c := frame.Series.At(i)
		// comparisons against NaN bands are false
		frame.BBRejectionBuy[i] = c.Low < result.Lower[i] && c.Close > result.Lower[i]
		frame.BBRejectionSell[i] = c.High > result.Upper[i] && c.Close < result.Upper[i]
	}

	return err
}

// Fallback leaves the band columns NaN and the rejection flags false.
func (bb *BollingerBands) Fallback(frame *Frame) {
	n := frame.Len()
	frame.BBMiddle = nanSlice(n)
	frame.BBUpper = nanSlice(n)
	frame.BBLower = nanSlice(n)
	frame.BBStd = nanSlice(n)
	frame.BBWidthPercent = nanSlice(n)
	frame.BBRejectionBuy = make([]bool, n)
	frame.BBRejectionSell = make([]bool, n)
}

// CalculateBollingerBands computes the middle band as the rolling mean of closes and
// the bands at stdDev sample standard deviations around it. A series shorter than
// period yields all-NaN bands and an InsufficientDataError.
func CalculateBollingerBands(closes []float64, period int, stdDev float64) (BollingerBandsResult, error) {
	if period <= 1 {
		return BollingerBandsResult{}, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be greater than 1, got %d", period)
	}

	if stdDev <= 0 {
		return BollingerBandsResult{}, errors.Newf(errors.ErrCodeInvalidParameter, "stdDev must be a positive number, got %f", stdDev)
	}

	n := len(closes)
	result := BollingerBandsResult{
		Middle:       nanSlice(n),
		Upper:        nanSlice(n),
		Lower:        nanSlice(n),
		Std:          nanSlice(n),
		WidthPercent: nanSlice(n),
	}

	if n < period {
		return result, errors.NewInsufficientDataErrorf(period, n, "bollinger_bands", "bollinger bands need %d closes, got %d", period, n)
	}

	if !allFinite(closes) {
		return result, errors.New(errors.ErrCodeIndicatorCalculation, "bollinger bands require finite closes")
	}

	middle := talib.Sma(closes, period)
	// talib uses the population deviation; rescale to the sample deviation
	std := talib.StdDev(closes, period, 1)
	correction := math.Sqrt(float64(period) / float64(period-1))

	for i := period - 1; i < n; i++ {
		sd := std[i] * correction
		upper := middle[i] + stdDev*sd
		lower := middle[i] - stdDev*sd

		result.Middle[i] = middle[i]
		result.Std[i] = sd
		result.Upper[i] = upper
		result.Lower[i] = lower
		result.WidthPercent[i] = (upper - lower) / middle[i]
	}

	return result, nil
}
