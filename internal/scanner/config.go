package scanner

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
	"github.com/rxtech-lab/argo-smc/pkg/marketdata"
)

// DefaultSymbols is the scan universe used when none is configured.
var DefaultSymbols = []string{
	"BTCUSDT", "ETHUSDT", "BNBUSDT", "SOLUSDT", "XRPUSDT", "ADAUSDT",
	"DOGEUSDT", "AVAXUSDT", "DOTUSDT", "TRXUSDT", "BCHUSDT", "LTCUSDT",
	"UNIUSDT", "NEARUSDT", "ETCUSDT", "XLMUSDT", "APTUSDT", "SUIUSDT",
	"IMXUSDT", "FILUSDT", "ATOMUSDT", "VETUSDT",
}

// Config controls the scan universe and cadence.
type Config struct {
	QuoteAsset    string              `validate:"required"`
	MaxSymbols    int                 `validate:"gt=0"`
	Symbols       []string            `validate:"required,min=1"`
	Interval      marketdata.Interval `validate:"required"`
	HTFInterval   marketdata.Interval `validate:"required"`
	LTFLimit      int                 `validate:"gt=0,lte=1500"`
	HTFLimit      int                 `validate:"gt=0,lte=1500"`
	PollInterval  time.Duration       `validate:"gt=0"`
	AlertCooldown time.Duration       `validate:"gte=0"`
	Workers       int                 `validate:"gt=0"`
}

// DefaultConfig returns the settings of the production bot.
func DefaultConfig() Config {
	symbols := make([]string, len(DefaultSymbols))
	copy(symbols, DefaultSymbols)

	return Config{
		QuoteAsset:    "USDT",
		MaxSymbols:    30,
		Symbols:       symbols,
		Interval:      marketdata.IntervalFiveMinutes,
		HTFInterval:   marketdata.IntervalOneHour,
		LTFLimit:      100,
		HTFLimit:      50,
		PollInterval:  5 * time.Second,
		AlertCooldown: 10 * time.Minute,
		Workers:       4,
	}
}

// Validate checks field bounds and the intervals.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid scanner config", err)
	}

	for _, interval := range []marketdata.Interval{c.Interval, c.HTFInterval} {
		if !interval.IsValid() {
			return errors.Newf(errors.ErrCodeInvalidInterval, "unsupported interval %q", interval)
		}
	}

	return nil
}
