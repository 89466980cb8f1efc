package scanner

import (
	"sync"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-smc/internal/session"
	"github.com/rxtech-lab/argo-smc/internal/signal"
	"github.com/rxtech-lab/argo-smc/internal/types"
	"github.com/stretchr/testify/suite"
)

type SymbolsTestSuite struct {
	suite.Suite
}

func TestSymbolsSuite(t *testing.T) {
	suite.Run(t, new(SymbolsTestSuite))
}

func (suite *SymbolsTestSuite) TestSelectSymbols() {
	tests := []struct {
		name     string
		symbols  []string
		quote    string
		max      int
		expected []string
	}{
		{
			name:     "filters by quote asset",
			symbols:  []string{"BTCUSDT", "ETHBUSD", "SOLUSDT"},
			quote:    "USDT",
			max:      30,
			expected: []string{"BTCUSDT", "SOLUSDT"},
		},
		{
			name:     "drops the quote asset itself",
			symbols:  []string{"USDT", "BTCUSDT"},
			quote:    "USDT",
			max:      30,
			expected: []string{"BTCUSDT"},
		},
		{
			name:     "normalizes and deduplicates",
			symbols:  []string{" btcusdt", "BTCUSDT", "", "ethusdt "},
			quote:    "usdt",
			max:      30,
			expected: []string{"BTCUSDT", "ETHUSDT"},
		},
		{
			name:     "caps at max symbols",
			symbols:  []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"},
			quote:    "USDT",
			max:      2,
			expected: []string{"BTCUSDT", "ETHUSDT"},
		},
		{
			name:     "nothing matches",
			symbols:  []string{"BTCBUSD"},
			quote:    "USDT",
			max:      30,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(tt.expected, SelectSymbols(tt.symbols, tt.quote, tt.max))
		})
	}
}

func (suite *SymbolsTestSuite) TestDefaultSymbolsAreQuotedInUSDT() {
	cfg := DefaultConfig()
	suite.NoError(cfg.Validate())
	suite.Len(SelectSymbols(cfg.Symbols, cfg.QuoteAsset, cfg.MaxSymbols), len(DefaultSymbols))
}

func (suite *SymbolsTestSuite) TestSetupID() {
	at := time.Date(2024, 3, 1, 8, 0, 59, 0, time.UTC)
	id := SetupID("BTCUSDT", types.DirectionBuy, session.London, at)
	suite.Equal("BTCUSDT_BUY_LONDON_28488000", id)

	// same minute, same setup
	suite.Equal(id, SetupID("BTCUSDT", types.DirectionBuy, session.London, at.Add(-59*time.Second)))
	suite.NotEqual(id, SetupID("BTCUSDT", types.DirectionBuy, session.London, at.Add(time.Second)))
}

func (suite *SymbolsTestSuite) TestStateBook() {
	book := NewStateBook()

	_, ok := book.Snapshot("BTCUSDT")
	suite.False(ok)

	book.With("BTCUSDT", func(state *signal.State) {
		suite.Equal(types.TrendNeutral, state.HTFTrend)
		state.LastSignal = types.DirectionBuy
	})

	state, ok := book.Snapshot("BTCUSDT")
	suite.True(ok)
	suite.Equal(types.DirectionBuy, state.LastSignal)

	other, _ := book.Snapshot("ETHUSDT")
	suite.Equal(types.Direction(""), other.LastSignal)

	book.Reset("BTCUSDT")
	state, _ = book.Snapshot("BTCUSDT")
	suite.Equal(types.DirectionNone, state.LastSignal)
}

func (suite *SymbolsTestSuite) TestStateBookSerializesPerSymbol() {
	book := NewStateBook()
	counts := map[string]int{}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for i := 0; i < 100; i++ {
		for _, symbol := range []string{"BTCUSDT", "ETHUSDT"} {
			wg.Add(1)

			go func() {
				defer wg.Done()

				book.With(symbol, func(state *signal.State) {
					if state.LastSignal == types.DirectionBuy {
						state.LastSignal = types.DirectionSell
					} else {
						state.LastSignal = types.DirectionBuy
					}

					mu.Lock()
					counts[symbol]++
					mu.Unlock()
				})
			}()
		}
	}

	wg.Wait()

	suite.Equal(100, counts["BTCUSDT"])
	suite.Equal(100, counts["ETHUSDT"])

	// an even number of toggles from NO_TRADE ends on SELL
	state, _ := book.Snapshot("BTCUSDT")
	suite.Equal(types.DirectionSell, state.LastSignal)
}
