package indicator

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-smc/internal/types"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ATRTestSuite struct {
	suite.Suite
}

func TestATRSuite(t *testing.T) {
	suite.Run(t, new(ATRTestSuite))
}

func (suite *ATRTestSuite) TestName() {
	suite.Equal(types.IndicatorTypeATR, NewATR(14, 0.001).Name())
}

func (suite *ATRTestSuite) TestConstantRange() {
	n := 20
	highs := linearCloses(n, 101, 0)
	lows := linearCloses(n, 99, 0)
	closes := linearCloses(n, 100, 0)

	out, err := CalculateATR(highs, lows, closes, 14)
	suite.NoError(err)
	suite.Len(out, n)

	for i := 0; i < 13; i++ {
		suite.True(math.IsNaN(out[i]), "index %d", i)
	}

	for i := 13; i < n; i++ {
		suite.InDelta(2.0, out[i], 1e-9)
	}
}

func (suite *ATRTestSuite) TestGapUsesPreviousClose() {
	highs := []float64{11, 21, 21}
	lows := []float64{9, 19, 19}
	closes := []float64{10, 20, 20}

	out, err := CalculateATR(highs, lows, closes, 1)
	suite.NoError(err)
	suite.InDelta(2.0, out[0], 1e-9)
	suite.InDelta(11.0, out[1], 1e-9)
	suite.InDelta(2.0, out[2], 1e-9)

	out, err = CalculateATR(highs, lows, closes, 3)
	suite.NoError(err)
	suite.InDelta(5.0, out[2], 1e-9)
}

func (suite *ATRTestSuite) TestShortAndEmpty() {
	out, err := CalculateATR([]float64{2}, []float64{1}, []float64{1.5}, 14)
	suite.True(math.IsNaN(out[0]))

	var insufficient *errors.InsufficientDataError
	suite.Require().True(errors.As(err, &insufficient))
	suite.Equal(14, insufficient.Required)
	suite.Equal(1, insufficient.Actual)
	suite.Equal(13, insufficient.Missing())

	out, err = CalculateATR(nil, nil, nil, 14)
	suite.True(errors.HasCode(err, errors.ErrCodeInsufficientData))
	suite.Empty(out)
}

func (suite *ATRTestSuite) TestInvalidInput() {
	_, err := CalculateATR([]float64{1}, []float64{1}, []float64{1}, 0)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	_, err = CalculateATR([]float64{1, 2}, []float64{1}, []float64{1}, 14)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = CalculateATR([]float64{1, math.NaN()}, []float64{1, 1}, []float64{1, 1}, 14)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorCalculation))
}

func (suite *ATRTestSuite) TestFallbackUsesCloseRatio() {
	frame := NewFrame(seriesFromCloses([]float64{100, 200, 300}))
	NewATR(14, 0.002).Fallback(&frame)

	suite.Equal(0.002, frame.ATRFallbackRatio)
	suite.InDelta(0.2, frame.ATR[0], 1e-12)
	suite.InDelta(0.4, frame.ATR[1], 1e-12)
	suite.InDelta(0.6, frame.ATR[2], 1e-12)
}
