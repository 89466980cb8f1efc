package types

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-smc/pkg/errors"
)

// Candle is one OHLCV bar. Time is the bar's open time.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// BodyHigh returns the higher of open and close.
func (c Candle) BodyHigh() float64 {
	return math.Max(c.Open, c.Close)
}

// BodyLow returns the lower of open and close.
func (c Candle) BodyLow() float64 {
	return math.Min(c.Open, c.Close)
}

// CandleSeries is an immutable sequence of candles, strictly ascending by time.
// The zero value is an empty series.
type CandleSeries struct {
	candles []Candle
}

// NewCandleSeries copies candles into a series, rejecting unordered or duplicate timestamps.
func NewCandleSeries(candles []Candle) (CandleSeries, error) {
	for i := 1; i < len(candles); i++ {
		if !candles[i].Time.After(candles[i-1].Time) {
			return CandleSeries{}, errors.Newf(errors.ErrCodeInvalidCandleSeries,
				"candle %d at %s is not after candle %d at %s",
				i, candles[i].Time.Format(time.RFC3339), i-1, candles[i-1].Time.Format(time.RFC3339))
		}
	}

	owned := make([]Candle, len(candles))
	copy(owned, candles)

	return CandleSeries{candles: owned}, nil
}

// Len returns the number of candles.
func (s CandleSeries) Len() int {
	return len(s.candles)
}

// IsEmpty reports whether the series has no candles.
func (s CandleSeries) IsEmpty() bool {
	return len(s.candles) == 0
}

// At returns the candle at index i. Negative indices count from the end (-1 is the last candle).
func (s CandleSeries) At(i int) Candle {
	if i < 0 {
		i += len(s.candles)
	}

	return s.candles[i]
}

// Last returns the most recent candle. It panics on an empty series.
func (s CandleSeries) Last() Candle {
	return s.candles[len(s.candles)-1]
}

// Tail returns the last n candles as a series. n larger than Len returns the whole series.
func (s CandleSeries) Tail(n int) CandleSeries {
	if n >= len(s.candles) {
		return s
	}

	if n <= 0 {
		return CandleSeries{}
	}

	return CandleSeries{candles: s.candles[len(s.candles)-n:]}
}

// Candles returns a copy of the underlying candles.
func (s CandleSeries) Candles() []Candle {
	out := make([]Candle, len(s.candles))
	copy(out, s.candles)

	return out
}

// Highs returns the high column.
func (s CandleSeries) Highs() []float64 {
	return s.column(func(c Candle) float64 { return c.High })
}

// Lows returns the low column.
func (s CandleSeries) Lows() []float64 {
	return s.column(func(c Candle) float64 { return c.Low })
}

// Closes returns the close column.
func (s CandleSeries) Closes() []float64 {
	return s.column(func(c Candle) float64 { return c.Close })
}

func (s CandleSeries) column(field func(Candle) float64) []float64 {
	out := make([]float64, len(s.candles))
	for i, c := range s.candles {
		out[i] = field(c)
	}

	return out
}

// ParseCandleRecords converts loosely typed records (for example decoded JSON rows) into candles.
// Field names are matched case-insensitively; values may be numbers or numeric strings.
// "time" accepts time.Time, unix milliseconds, or an RFC3339 string.
func ParseCandleRecords(records []map[string]any) ([]Candle, error) {
	candles := make([]Candle, 0, len(records))

	for i, record := range records {
		fields := make(map[string]any, len(record))
		for k, v := range record {
			fields[strings.ToLower(strings.TrimSpace(k))] = v
		}

		var candle Candle

		var err error

		candle.Time, err = parseRecordTime(fields["time"])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "record %d: time", i)
		}

		for name, dst := range map[string]*float64{
			"open":   &candle.Open,
			"high":   &candle.High,
			"low":    &candle.Low,
			"close":  &candle.Close,
			"volume": &candle.Volume,
		} {
			value, err := parseRecordFloat(fields[name])
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "record %d: %s", i, name)
			}

			*dst = value
		}

		candles = append(candles, candle)
	}

	return candles, nil
}

func parseRecordFloat(v any) (float64, error) {
	switch value := v.(type) {
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(value), 64)
	case nil:
		return 0, errors.New(errors.ErrCodeMissingParameter, "missing value")
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidType, "unsupported value type %T", v)
	}
}

func parseRecordTime(v any) (time.Time, error) {
	switch value := v.(type) {
	case time.Time:
		return value, nil
	case int64:
		return time.UnixMilli(value).UTC(), nil
	case int:
		return time.UnixMilli(int64(value)).UTC(), nil
	case float64:
		return time.UnixMilli(int64(value)).UTC(), nil
	case string:
		return time.Parse(time.RFC3339, strings.TrimSpace(value))
	case nil:
		return time.Time{}, errors.New(errors.ErrCodeMissingParameter, "missing value")
	default:
		return time.Time{}, errors.Newf(errors.ErrCodeInvalidType, "unsupported time type %T", v)
	}
}
