package marketdata

import (
	"context"

	"github.com/rxtech-lab/argo-smc/internal/types"
)

// DefaultPricePrecision is used for symbols without a known tick size.
const DefaultPricePrecision int32 = 2

// Provider supplies candles and prices for the scanner. Implementations retry
// transient failures; any returned error means the symbol is skipped this cycle.
type Provider interface {
	// Klines returns the most recent limit candles of symbol, oldest first.
	Klines(ctx context.Context, symbol string, interval Interval, limit int) (types.CandleSeries, error)
	// CurrentPrice returns the last price rounded to the symbol's tick precision.
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
	// PricePrecisions returns the tick precision of each tradable symbol. Unknown symbols are omitted.
	PricePrecisions(ctx context.Context, symbols []string) (map[string]int32, error)
}
