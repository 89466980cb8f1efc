package indicator

import (
	"github.com/rxtech-lab/argo-smc/internal/types"
)

// Indicator writes one family of columns into a Frame.
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Apply computes the indicator columns from the frame's series and earlier columns.
	Apply(frame *Frame) error
	// Fallback writes the documented fallback columns after Apply failed.
	Fallback(frame *Frame)
}
