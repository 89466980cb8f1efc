package signal

import (
	"github.com/rxtech-lab/argo-smc/internal/types"
)

// State is the per-symbol memory of the engine: the higher-timeframe bias and the
// direction of the last emitted signal. One State must never be shared between symbols.
type State struct {
	HTFTrend   types.Trend     `json:"htf_trend"`
	LastSignal types.Direction `json:"last_signal"`
}

// NewState returns a state with a neutral bias and no previous signal.
func NewState() *State {
	return &State{
		HTFTrend:   types.TrendNeutral,
		LastSignal: types.DirectionNone,
	}
}

// Reset clears the bias and the debounce memory.
func (s *State) Reset() {
	s.HTFTrend = types.TrendNeutral
	s.LastSignal = types.DirectionNone
}
