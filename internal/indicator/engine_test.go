package indicator

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-smc/internal/logger"
	"github.com/rxtech-lab/argo-smc/internal/types"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	engine, err := NewEngine(DefaultParams(), logger.NewNop())
	suite.Require().NoError(err)
	suite.engine = engine
}

func wavyCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 3*math.Sin(float64(i)/4) + 0.05*float64(i)
	}

	return out
}

func (suite *EngineTestSuite) TestDefaultParams() {
	params := DefaultParams()
	suite.Equal(14, params.RSIPeriod)
	suite.Equal(1, params.TDIFastPeriod)
	suite.Equal(7, params.TDISlowPeriod)
	suite.Equal(20, params.BBPeriod)
	suite.Equal(2.0, params.BBDeviation)
	suite.Equal(14, params.ATRPeriod)
	suite.Equal(DefaultATRFallbackRatio, params.ATRFallbackRatio)
}

func (suite *EngineTestSuite) TestShortSeriesWarmsUpWithoutFallback() {
	params := DefaultParams()
	params.ATRFallbackRatio = 0.002

	engine, err := NewEngine(params, logger.NewNop())
	suite.Require().NoError(err)

	frame := engine.Compute(seriesFromCloses(wavyCloses(10)))

	suite.Equal(0.002, frame.ATRFallbackRatio)
	for i := 0; i < 10; i++ {
		suite.True(math.IsNaN(frame.RSI[i]), "rsi %d", i)
		suite.True(math.IsNaN(frame.BBMiddle[i]), "bb %d", i)
		// a warming-up ATR is not replaced by close * ratio
		suite.True(math.IsNaN(frame.ATR[i]), "atr %d", i)
		suite.False(frame.BBRejectionBuy[i])
	}
}

func (suite *EngineTestSuite) TestFrameCarriesConfiguredFallbackRatio() {
	suite.Equal(DefaultATRFallbackRatio, NewFrame(types.CandleSeries{}).ATRFallbackRatio)

	params := DefaultParams()
	params.ATRFallbackRatio = 0.005

	engine, err := NewEngine(params, logger.NewNop())
	suite.Require().NoError(err)
	suite.Equal(0.005, engine.Compute(seriesFromCloses(wavyCloses(40))).ATRFallbackRatio)
}

func (suite *EngineTestSuite) TestColumnsHaveSeriesLength() {
	frame := suite.engine.Compute(seriesFromCloses(wavyCloses(60)))

	suite.Equal(60, frame.Len())
	for _, column := range [][]float64{
		frame.RSI, frame.TDIFastMA, frame.TDISlowMA, frame.BBMiddle, frame.BBUpper,
		frame.BBLower, frame.BBStd, frame.BBWidthPercent, frame.ATR,
	} {
		suite.Len(column, 60)
	}

	suite.Len(frame.BBRejectionBuy, 60)
	suite.Len(frame.BBRejectionSell, 60)
}

func (suite *EngineTestSuite) TestWarmupIsNaN() {
	frame := suite.engine.Compute(seriesFromCloses(wavyCloses(60)))

	suite.True(math.IsNaN(frame.RSI[12]))
	suite.False(math.IsNaN(frame.RSI[13]))
	suite.Equal(frame.RSI[20], frame.TDIFastMA[20])
	suite.True(math.IsNaN(frame.TDISlowMA[18]))
	suite.False(math.IsNaN(frame.TDISlowMA[19]))
	suite.True(math.IsNaN(frame.BBMiddle[18]))
	suite.False(math.IsNaN(frame.BBMiddle[19]))
	suite.True(math.IsNaN(frame.ATR[12]))
	suite.False(math.IsNaN(frame.ATR[13]))
}

func (suite *EngineTestSuite) TestDeterministic() {
	series := seriesFromCloses(wavyCloses(80))
	first := suite.engine.Compute(series)
	second := suite.engine.Compute(series)

	suite.Equal(first.Last(), second.Last())
	suite.Equal(first.Row(40), second.Row(40))
}

func (suite *EngineTestSuite) TestDoesNotMutateSeries() {
	closes := wavyCloses(40)
	series := seriesFromCloses(closes)
	before := series.Candles()

	suite.engine.Compute(series)
	suite.Equal(before, series.Candles())
}

func (suite *EngineTestSuite) TestEmptySeries() {
	frame := suite.engine.Compute(types.CandleSeries{})
	suite.Equal(0, frame.Len())
	suite.Empty(frame.RSI)
	suite.Empty(frame.ATR)
}

func (suite *EngineTestSuite) TestFailingIndicatorFallsBack() {
	registry := NewIndicatorRegistry()

	failing := newMockIndicator(types.IndicatorTypeRSI)
	failing.apply = func(frame *Frame) error {
		return errors.New(errors.ErrCodeIndicatorCalculation, "boom")
	}

	panicking := newMockIndicator(types.IndicatorTypeTDI)
	panicking.apply = func(frame *Frame) error {
		panic("index out of range")
	}

	suite.NoError(registry.RegisterIndicator(failing))
	suite.NoError(registry.RegisterIndicator(panicking))
	suite.NoError(registry.RegisterIndicator(NewATR(14, 0.001)))

	engine := NewEngineWithRegistry(registry, nil)
	frame := engine.Compute(seriesFromCloses(wavyCloses(30)))

	suite.Equal(1, failing.fallbacks)
	suite.Equal(1, panicking.fallbacks)
	suite.False(math.IsNaN(frame.ATR[29]))
}

func (suite *EngineTestSuite) TestRowSnapshot() {
	frame := suite.engine.Compute(seriesFromCloses(wavyCloses(60)))
	row := frame.Row(-1)

	suite.Equal(frame.Series.Last(), row.Candle)
	suite.Equal(frame.RSI[59], row.RSI)
	suite.Equal(frame.TDISlowMA[59], row.TDISlowMA)
	suite.Equal(frame.BBWidthPercent[59], row.BBWidthPercent)
	suite.Equal(frame.ATR[59], row.ATR)
	suite.Equal(row, frame.Last())
}
