package signal

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-smc/internal/indicator"
	"github.com/rxtech-lab/argo-smc/internal/logger"
	"github.com/rxtech-lab/argo-smc/internal/types"
	"github.com/rxtech-lab/argo-smc/mocks"
	"github.com/stretchr/testify/suite"
)

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
	state  *State
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	engine, err := NewEngine(DefaultConfig(), logger.NewNop())
	suite.Require().NoError(err)

	suite.engine = engine
	suite.state = NewState()
}

func (suite *EngineTestSuite) newEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg, logger.NewNop())
	suite.Require().NoError(err)

	return engine
}

func (suite *EngineTestSuite) requireNoTrade(decision types.Decision, reason string) {
	noTrade, ok := decision.(types.NoTrade)
	suite.Require().True(ok, "expected NoTrade, got %#v", decision)
	suite.Equal(reason, noTrade.Reason)
}

func (suite *EngineTestSuite) requireSignal(decision types.Decision) types.Signal {
	signal, ok := decision.(types.Signal)
	suite.Require().True(ok, "expected Signal, got %#v", decision)

	return signal
}

func (suite *EngineTestSuite) TestSetHTFTrend() {
	suite.Equal(types.TrendBull, suite.engine.SetHTFTrend(suite.state, htfSeries(1)))
	suite.Equal(types.TrendBull, suite.state.HTFTrend)

	suite.Equal(types.TrendBear, suite.engine.SetHTFTrend(suite.state, htfSeries(-1)))
	suite.Equal(types.TrendBear, suite.state.HTFTrend)

	suite.Equal(types.TrendNeutral, suite.engine.SetHTFTrend(suite.state, types.CandleSeries{}))
	suite.Equal(types.TrendNeutral, suite.state.HTFTrend)
}

func (suite *EngineTestSuite) TestBuyScenario() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	frame := newBuyScenario().frame()

	signal := suite.requireSignal(suite.engine.GenerateSignal(suite.state, frame))

	suite.Equal(types.DirectionBuy, signal.Direction)
	suite.Equal(102.0, signal.EntryPrice)
	suite.InDelta(101.0-0.5*0.4, signal.StopLoss, 1e-9)
	suite.InDelta(signal.EntryPrice+2*(signal.EntryPrice-signal.StopLoss), signal.TakeProfit, 1e-9)
	suite.Equal(2.0, signal.RiskFactor)
	suite.Equal(types.SignalStrengthSoft, signal.SignalStrength)
	suite.InDelta(32.0, signal.TDISlowMA, 1e-9)
	suite.InDelta(0.2, signal.TDISlope, 1e-9)
	suite.InDelta(0.01, signal.BBWidthPercent, 1e-12)
	suite.InDelta(0.4, signal.ATR, 1e-12)
	suite.Equal(types.DirectionBuy, suite.state.LastSignal)
}

func (suite *EngineTestSuite) TestSellScenario() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(-1))
	frame := newSellScenario().frame()

	signal := suite.requireSignal(suite.engine.GenerateSignal(suite.state, frame))

	suite.Equal(types.DirectionSell, signal.Direction)
	suite.Equal(98.0, signal.EntryPrice)
	suite.InDelta(99.2, signal.StopLoss, 1e-9)
	suite.InDelta(95.6, signal.TakeProfit, 1e-9)
	suite.Less(signal.TakeProfit, signal.EntryPrice)
	suite.Less(signal.EntryPrice, signal.StopLoss)
	suite.Equal(types.DirectionSell, suite.state.LastSignal)
}

func (suite *EngineTestSuite) TestDuplicateSignal() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	frame := newBuyScenario().frame()

	suite.requireSignal(suite.engine.GenerateSignal(suite.state, frame))
	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, frame), ReasonDuplicate)
	suite.Equal(types.DirectionBuy, suite.state.LastSignal)
}

func (suite *EngineTestSuite) TestOppositeDirectionAfterSignal() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	suite.requireSignal(suite.engine.GenerateSignal(suite.state, newBuyScenario().frame()))

	suite.engine.SetHTFTrend(suite.state, htfSeries(-1))
	signal := suite.requireSignal(suite.engine.GenerateSignal(suite.state, newSellScenario().frame()))
	suite.Equal(types.DirectionSell, signal.Direction)
	suite.Equal(types.DirectionSell, suite.state.LastSignal)
}

func (suite *EngineTestSuite) TestStatesAreIndependent() {
	other := NewState()
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	suite.engine.SetHTFTrend(other, htfSeries(1))
	frame := newBuyScenario().frame()

	suite.requireSignal(suite.engine.GenerateSignal(suite.state, frame))
	suite.requireSignal(suite.engine.GenerateSignal(other, frame))
}

func (suite *EngineTestSuite) TestHardSignal() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	scenario := newBuyScenario()
	scenario.slow = []float64{30.0, 30.5, 31.0, 31.5, 32.0, 32.5}

	signal := suite.requireSignal(suite.engine.GenerateSignal(suite.state, scenario.frame()))
	suite.Equal(types.SignalStrengthHard, signal.SignalStrength)
	suite.InDelta(0.5, signal.TDISlope, 1e-9)
}

func (suite *EngineTestSuite) TestInsufficientData() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	scenario := newBuyScenario()
	scenario.candles = scenario.candles[11:]

	suite.Equal(49, scenario.frame().Len())
	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, scenario.frame()), ReasonInsufficientData)
	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, indicator.Frame{}), ReasonInsufficientData)
	suite.Equal(types.DirectionNone, suite.state.LastSignal)
}

func (suite *EngineTestSuite) TestShortGeneratedSeriesAreInsufficient() {
	indicators, err := indicator.NewEngine(indicator.DefaultParams(), logger.NewNop())
	suite.Require().NoError(err)

	for n := 0; n < 50; n += 7 {
		frame := indicators.Compute(mocks.Series(int64(n), n))
		suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, frame), ReasonInsufficientData)
	}
}

func (suite *EngineTestSuite) TestBBWidthFilter() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))

	for _, width := range []float64{0.05, 0.001, math.NaN()} {
		scenario := newBuyScenario()
		scenario.width = width
		suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, scenario.frame()), ReasonBBWidth)
	}
}

func (suite *EngineTestSuite) TestNoSweep() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	scenario := newBuyScenario()
	scenario.candles[59].Close = 103.2

	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, scenario.frame()), ReasonNoSweep)
}

func (suite *EngineTestSuite) TestHTFMisaligned() {
	frame := newBuyScenario().frame()
	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, frame), ReasonHTFMisaligned)

	suite.engine.SetHTFTrend(suite.state, htfSeries(-1))
	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, frame), ReasonHTFMisaligned)
}

func (suite *EngineTestSuite) TestWeakTDIZone() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	scenario := newBuyScenario()
	scenario.slow = []float64{27.0, 27.2, 27.4, 27.6, 27.8, 28.0}

	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, scenario.frame()), ReasonWeakTDIZone)

	suite.engine.SetHTFTrend(suite.state, htfSeries(-1))
	scenario = newSellScenario()
	scenario.slow = []float64{73.0, 72.8, 72.6, 72.4, 72.2, 72.0}

	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, scenario.frame()), ReasonWeakTDIZone)
}

func (suite *EngineTestSuite) TestFlatTDI() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	scenario := newBuyScenario()
	scenario.slow = []float64{32, 32, 32, 32.05, 32.1, 32.1}

	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, scenario.frame()), ReasonFlatTDI)

	scenario.slow = []float64{32, 32, 32, math.NaN(), 32, 32}
	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, scenario.frame()), ReasonFlatTDI)
}

func (suite *EngineTestSuite) TestTDIDivergence() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	scenario := newBuyScenario()
	// momentum falling while price rises
	scenario.slow = []float64{34.0, 33.6, 33.2, 32.8, 32.4, 32.0}

	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, scenario.frame()), ReasonTDIDivergence)

	suite.engine.SetHTFTrend(suite.state, htfSeries(-1))
	scenario = newSellScenario()
	scenario.slow = []float64{66.0, 66.4, 66.8, 67.2, 67.6, 68.0}

	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, scenario.frame()), ReasonTDIDivergence)
}

func (suite *EngineTestSuite) TestBalancedSkipsDivergence() {
	cfg, err := ConfigForProfile(ProfileBalanced)
	suite.Require().NoError(err)
	engine := suite.newEngine(cfg)

	engine.SetHTFTrend(suite.state, htfSeries(1))
	scenario := newBuyScenario()
	scenario.slow = []float64{34.0, 33.6, 33.2, 32.8, 32.4, 32.0}

	signal := suite.requireSignal(engine.GenerateSignal(suite.state, scenario.frame()))
	suite.Equal(types.SignalStrengthHard, signal.SignalStrength)
}

func (suite *EngineTestSuite) TestNoMSS() {
	cfg := DefaultConfig()
	cfg.SweepLookback = 1
	engine := suite.newEngine(cfg)
	engine.SetHTFTrend(suite.state, htfSeries(1))

	scenario := newBuyScenario()
	// c[-3] holds a higher high than the swept candle
	scenario.candles[57] = types.Candle{Open: 100, High: 104, Low: 99.6, Close: 100.4}
	scenario.candles[58] = types.Candle{Open: 100.6, High: 101.5, Low: 100.5, Close: 101.4}
	scenario.candles[59] = types.Candle{Open: 101.4, High: 101.8, Low: 101.0, Close: 101.5}

	suite.requireNoTrade(engine.GenerateSignal(suite.state, scenario.frame()), ReasonNoMSS)
}

func (suite *EngineTestSuite) TestNoFVG() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	scenario := newBuyScenario()
	scenario.candles[59].Low = 100.4

	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, scenario.frame()), ReasonNoFVG)
}

func (suite *EngineTestSuite) TestRiskTooSmall() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	scenario := newBuyScenario()
	scenario.candles[59] = types.Candle{Open: 101.97, High: 103.5, Low: 101.96, Close: 102}
	scenario.atr = 0.02

	// risk = 102 - (101.96 - 0.01) = 0.05, about 0.05% of entry
	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, scenario.frame()), "Invalid BUY risk")
	suite.Equal(types.DirectionNone, suite.state.LastSignal)

	suite.engine.SetHTFTrend(suite.state, htfSeries(-1))
	scenario = newSellScenario()
	scenario.candles[59] = types.Candle{Open: 98.03, High: 98.04, Low: 96.5, Close: 98}
	scenario.atr = 0.02

	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, scenario.frame()), "Invalid SELL risk")
}

func (suite *EngineTestSuite) TestEveryProfileEnforcesRiskBand() {
	for _, profile := range []Profile{ProfileStrict, ProfileBalanced, ProfileClassic} {
		suite.Run(string(profile), func() {
			cfg, err := ConfigForProfile(profile)
			suite.Require().NoError(err)
			engine := suite.newEngine(cfg)
			state := NewState()

			engine.SetHTFTrend(state, htfSeries(1))
			scenario := newBuyScenario()
			scenario.candles[59] = types.Candle{Open: 101.97, High: 103.5, Low: 101.96, Close: 102}
			scenario.atr = 0.02

			suite.requireNoTrade(engine.GenerateSignal(state, scenario.frame()), "Invalid BUY risk")
			suite.Equal(types.DirectionNone, state.LastSignal)
		})
	}
}

func (suite *EngineTestSuite) TestRiskTooLarge() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	scenario := newBuyScenario()
	scenario.atr = 4

	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, scenario.frame()), "Invalid BUY risk")
}

func (suite *EngineTestSuite) TestATRFallback() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	scenario := newBuyScenario()
	scenario.atr = math.NaN()

	signal := suite.requireSignal(suite.engine.GenerateSignal(suite.state, scenario.frame()))
	suite.InDelta(102*0.001, signal.ATR, 1e-12)
	suite.InDelta(101.0-0.5*0.102, signal.StopLoss, 1e-9)
}

func (suite *EngineTestSuite) TestATRFallbackUsesFrameRatio() {
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	scenario := newBuyScenario()
	scenario.atr = math.NaN()

	frame := scenario.frame()
	frame.ATRFallbackRatio = 0.002

	signal := suite.requireSignal(suite.engine.GenerateSignal(suite.state, frame))
	suite.InDelta(102*0.002, signal.ATR, 1e-12)
	suite.InDelta(101.0-0.5*0.204, signal.StopLoss, 1e-9)

	// an unset ratio falls back to the indicator default
	suite.state.Reset()
	suite.engine.SetHTFTrend(suite.state, htfSeries(1))
	frame.ATRFallbackRatio = 0

	signal = suite.requireSignal(suite.engine.GenerateSignal(suite.state, frame))
	suite.InDelta(102*indicator.DefaultATRFallbackRatio, signal.ATR, 1e-12)
}

func (suite *EngineTestSuite) TestClassicProfile() {
	cfg, err := ConfigForProfile(ProfileClassic)
	suite.Require().NoError(err)
	engine := suite.newEngine(cfg)

	engine.SetHTFTrend(suite.state, htfSeries(1))
	scenario := newBuyScenario()
	scenario.width = 0.05
	scenario.slow = []float64{10, 10, 10, 10, 10, 10}

	signal := suite.requireSignal(engine.GenerateSignal(suite.state, scenario.frame()))
	// stop sits at the sweep level
	suite.InDelta(101.0, signal.StopLoss, 1e-12)
	suite.InDelta(104.0, signal.TakeProfit, 1e-9)
}

func (suite *EngineTestSuite) TestClassicHistoryFloor() {
	cfg, err := ConfigForProfile(ProfileClassic)
	suite.Require().NoError(err)
	engine := suite.newEngine(cfg)

	engine.SetHTFTrend(suite.state, htfSeries(1))
	scenario := newBuyScenario()
	scenario.candles = scenario.candles[28:]

	suite.Equal(32, scenario.frame().Len())
	suite.requireSignal(engine.GenerateSignal(suite.state, scenario.frame()))
}

func (suite *EngineTestSuite) TestNilStateIsRejected() {
	suite.NotPanics(func() {
		suite.Equal(types.TrendNeutral, suite.engine.SetHTFTrend(nil, htfSeries(1)))
	})

	suite.NotPanics(func() {
		suite.requireNoTrade(suite.engine.GenerateSignal(nil, newBuyScenario().frame()), ReasonMissingState)
	})

	// a bullish bias on a fresh state still yields a signal afterwards
	suite.Equal(types.TrendBull, suite.engine.SetHTFTrend(suite.state, htfSeries(1)))
	suite.requireSignal(suite.engine.GenerateSignal(suite.state, newBuyScenario().frame()))
}

func (suite *EngineTestSuite) TestMalformedFrameIsAFault() {
	frame := newBuyScenario().frame()
	frame.ATR = frame.ATR[:10]

	suite.requireNoTrade(suite.engine.GenerateSignal(suite.state, frame), ReasonComputationFault)
}

func (suite *EngineTestSuite) TestEmittedSignalsRespectLevelsAndRiskBand() {
	indicators, err := indicator.NewEngine(indicator.DefaultParams(), logger.NewNop())
	suite.Require().NoError(err)

	cfg := DefaultConfig()
	gen := mocks.NewCandleGenerator(11)
	genCfg := mocks.DefaultConfig()
	genCfg.Count = 400
	genCfg.Volatility = 0.004
	candles := gen.Generate(genCfg)

	for _, bias := range []types.Trend{types.TrendBull, types.TrendBear} {
		state := &State{HTFTrend: bias, LastSignal: types.DirectionNone}

		for end := 60; end <= len(candles); end++ {
			series, err := types.NewCandleSeries(candles[end-60 : end])
			suite.Require().NoError(err)

			decision := suite.engine.GenerateSignal(state, indicators.Compute(series))

			signal, ok := decision.(types.Signal)
			if !ok {
				continue
			}

			risk := math.Abs(signal.EntryPrice - signal.StopLoss)
			suite.GreaterOrEqual(risk, cfg.MinRiskPct*signal.EntryPrice-1e-9)
			suite.LessOrEqual(risk, cfg.MaxRiskPct*signal.EntryPrice+1e-9)

			if signal.Direction == types.DirectionBuy {
				suite.Less(signal.StopLoss, signal.EntryPrice)
				suite.Less(signal.EntryPrice, signal.TakeProfit)
			} else {
				suite.Less(signal.TakeProfit, signal.EntryPrice)
				suite.Less(signal.EntryPrice, signal.StopLoss)
			}

			suite.Equal(signal.Direction, state.LastSignal)
		}
	}
}
