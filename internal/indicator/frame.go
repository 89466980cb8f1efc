package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-smc/internal/types"
)

// DefaultATRFallbackRatio is the fraction of the close used as ATR while the ATR
// column is undefined.
const DefaultATRFallbackRatio = 0.001

// Frame is a candle series augmented with indicator columns. Every column has
// the same length as the series; float columns are NaN until their warm-up completes.
type Frame struct {
	Series types.CandleSeries

	RSI       []float64
	TDIFastMA []float64
	TDISlowMA []float64

	BBMiddle       []float64
	BBUpper        []float64
	BBLower        []float64
	BBStd          []float64
	BBWidthPercent []float64

	BBRejectionBuy  []bool
	BBRejectionSell []bool

	ATR []float64

	// ATRFallbackRatio is the ratio the ATR indicator was configured with. Consumers
	// that need a volatility estimate on a row with undefined ATR use close * ratio.
	ATRFallbackRatio float64
}

// FrameRow is a snapshot of one frame index.
type FrameRow struct {
	Candle types.Candle

	RSI       float64
	TDIFastMA float64
	TDISlowMA float64

	BBMiddle       float64
	BBUpper        float64
	BBLower        float64
	BBStd          float64
	BBWidthPercent float64

	BBRejectionBuy  bool
	BBRejectionSell bool

	ATR float64
}

// NewFrame creates a frame over series with all columns unset (NaN / false).
func NewFrame(series types.CandleSeries) Frame {
	n := series.Len()

	return Frame{
		Series:          series,
		RSI:             nanSlice(n),
		TDIFastMA:       nanSlice(n),
		TDISlowMA:       nanSlice(n),
		BBMiddle:        nanSlice(n),
		BBUpper:         nanSlice(n),
		BBLower:         nanSlice(n),
		BBStd:           nanSlice(n),
		BBWidthPercent:  nanSlice(n),
		BBRejectionBuy:  make([]bool, n),
		BBRejectionSell: make([]bool, n),
		ATR:             nanSlice(n),

		ATRFallbackRatio: DefaultATRFallbackRatio,
	}
}

// Len returns the number of rows.
func (f Frame) Len() int {
	return f.Series.Len()
}

// Row returns the snapshot at index i. Negative indices count from the end.
func (f Frame) Row(i int) FrameRow {
	if i < 0 {
		i += f.Len()
	}

	return FrameRow{
		Candle:          f.Series.At(i),
		RSI:             f.RSI[i],
		TDIFastMA:       f.TDIFastMA[i],
		TDISlowMA:       f.TDISlowMA[i],
		BBMiddle:        f.BBMiddle[i],
		BBUpper:         f.BBUpper[i],
		BBLower:         f.BBLower[i],
		BBStd:           f.BBStd[i],
		BBWidthPercent:  f.BBWidthPercent[i],
		BBRejectionBuy:  f.BBRejectionBuy[i],
		BBRejectionSell: f.BBRejectionSell[i],
		ATR:             f.ATR[i],
	}
}

// Last returns the snapshot of the most recent row.
func (f Frame) Last() FrameRow {
	return f.Row(-1)
}

// Tail returns the last n values of column, or all of it when n exceeds its length.
func Tail(column []float64, n int) []float64 {
	if n >= len(column) {
		return column
	}

	if n <= 0 {
		return nil
	}

	return column[len(column)-n:]
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// maskWarmup sets the first period-1 values to NaN.
func maskWarmup(values []float64, period int) {
	for i := 0; i < period-1 && i < len(values); i++ {
		values[i] = math.NaN()
	}
}
