package scanner

import (
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-smc/internal/session"
	"github.com/rxtech-lab/argo-smc/internal/types"
)

// Result is the latest evaluation of one symbol.
type Result struct {
	Symbol   string          `json:"symbol"`
	Time     time.Time       `json:"time"`
	Session  session.Session `json:"session"`
	Price    float64         `json:"price"`
	HTFTrend types.Trend     `json:"htf_trend"`
	Action   types.Direction `json:"action"`
	Reason   string          `json:"reason,omitempty"`
	Signal   *types.Signal   `json:"signal,omitempty"`
	SetupID  string          `json:"setup_id,omitempty"`
}

// Decision rebuilds the engine decision the result was made from.
func (r Result) Decision() types.Decision {
	if r.Signal != nil {
		return *r.Signal
	}

	return types.NoTrade{Reason: r.Reason}
}

// CycleReport summarizes one ScanOnce call.
type CycleReport struct {
	ID       string          `json:"id"`
	Session  session.Session `json:"session"`
	Started  time.Time       `json:"started"`
	Duration time.Duration   `json:"duration"`
	Scanned  int             `json:"scanned"`
	Skipped  int             `json:"skipped"`
	Signals  int             `json:"signals"`
	Alerts   int             `json:"alerts"`
}

// SetupID identifies a setup by symbol, direction, session and the minute it was seen.
func SetupID(symbol string, direction types.Direction, sess session.Session, t time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%d", symbol, direction, sess, t.Unix()/60)
}
