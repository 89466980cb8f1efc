package indicator

import (
	"github.com/rxtech-lab/argo-smc/internal/types"
)

// TDI is the Traders Dynamic Index: a fast and a slow moving average of RSI.
// It must run after RSI.
type TDI struct {
	fastPeriod int
	slowPeriod int
}

// NewTDI creates a TDI indicator with the given moving-average periods.
func NewTDI(fastPeriod, slowPeriod int) Indicator {
	return &TDI{
		fastPeriod: fastPeriod,
		slowPeriod: slowPeriod,
	}
}

// Name returns the name of the indicator.
func (t *TDI) Name() types.IndicatorType {
	return types.IndicatorTypeTDI
}

// Apply writes the fast and slow TDI columns.
func (t *TDI) Apply(frame *Frame) error {
	fast, err := SMA(frame.RSI, t.fastPeriod)
	if err != nil {
		return err
	}

	slow, err := SMA(frame.RSI, t.slowPeriod)
	if err != nil {
		return err
	}

	frame.TDIFastMA = fast
	frame.TDISlowMA = slow

	return nil
}

// Fallback leaves both TDI columns NaN.
func (t *TDI) Fallback(frame *Frame) {
	frame.TDIFastMA = nanSlice(frame.Len())
	frame.TDISlowMA = nanSlice(frame.Len())
}
