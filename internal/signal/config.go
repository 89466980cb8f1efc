package signal

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-smc/internal/structure"
	"github.com/rxtech-lab/argo-smc/internal/trend"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
)

// Profile names a preset gating pipeline.
type Profile string

const (
	// ProfileStrict runs every gate.
	ProfileStrict Profile = "strict"
	// ProfileBalanced drops the divergence gate and lowers the history floor to 40.
	ProfileBalanced Profile = "balanced"
	// ProfileClassic is the sweep/HTF/MSS/FVG pipeline with the stop at the sweep level and a
	// wider 3% risk ceiling.
	ProfileClassic Profile = "classic"
)

// Config holds the thresholds of the signal pipeline. It is immutable once
// passed to NewEngine and can be shared across symbols.
type Config struct {
	Profile Profile `yaml:"profile" json:"profile" jsonschema:"title=Profile,enum=strict,enum=balanced,enum=classic,default=strict" validate:"omitempty,oneof=strict balanced classic"`

	MinHistory    int     `yaml:"min_history" json:"min_history" jsonschema:"title=Minimum History,description=Minimum number of candles before any signal,default=50" validate:"gte=6"`
	MinBBWidth    float64 `yaml:"min_bb_width" json:"min_bb_width" jsonschema:"title=Minimum BB Width,default=0.003" validate:"gte=0"`
	MaxBBWidth    float64 `yaml:"max_bb_width" json:"max_bb_width" jsonschema:"title=Maximum BB Width,default=0.03" validate:"gtefield=MinBBWidth"`
	SweepLookback int     `yaml:"sweep_lookback" json:"sweep_lookback" jsonschema:"title=Sweep Lookback,default=20" validate:"gte=1"`
	HTFEMAPeriod  int     `yaml:"htf_ema_period" json:"htf_ema_period" jsonschema:"title=HTF EMA Period,default=20" validate:"gte=1"`

	MinTDIBuy        float64 `yaml:"min_tdi_buy" json:"min_tdi_buy" jsonschema:"title=Minimum TDI for BUY,default=30" validate:"gte=0,lte=100"`
	MaxTDISell       float64 `yaml:"max_tdi_sell" json:"max_tdi_sell" jsonschema:"title=Maximum TDI for SELL,default=70" validate:"gte=0,lte=100"`
	MinTDISlope      float64 `yaml:"min_tdi_slope" json:"min_tdi_slope" jsonschema:"title=Minimum TDI Slope,default=0.15" validate:"gte=0"`
	HardSlope        float64 `yaml:"hard_slope" json:"hard_slope" jsonschema:"title=HARD Signal Slope,default=0.35" validate:"gte=0"`
	SlopeWindow      int     `yaml:"slope_window" json:"slope_window" jsonschema:"title=Slope Window,default=4" validate:"gte=2"`
	DivergenceWindow int     `yaml:"divergence_window" json:"divergence_window" jsonschema:"title=Divergence Window,default=6" validate:"gte=2"`

	ATRStopMultiplier float64 `yaml:"atr_stop_multiplier" json:"atr_stop_multiplier" jsonschema:"title=ATR Stop Multiplier,default=0.5" validate:"gte=0"`
	RiskRewardRatio   float64 `yaml:"risk_reward_ratio" json:"risk_reward_ratio" jsonschema:"title=Risk Reward Ratio,default=2" validate:"gt=0"`
	MinRiskPct        float64 `yaml:"min_risk_pct" json:"min_risk_pct" jsonschema:"title=Minimum Risk Percent,default=0.0015" validate:"gte=0"`
	MaxRiskPct        float64 `yaml:"max_risk_pct" json:"max_risk_pct" jsonschema:"title=Maximum Risk Percent,default=0.02" validate:"gtefield=MinRiskPct"`

	// Filters selects the gates that run; they always run in pipeline order.
	Filters []FilterName `yaml:"filters" json:"filters" jsonschema:"title=Filters" validate:"required,min=1,dive,required"`
}

// DefaultConfig returns the strict profile.
func DefaultConfig() Config {
	return Config{
		Profile:           ProfileStrict,
		MinHistory:        50,
		MinBBWidth:        0.003,
		MaxBBWidth:        0.03,
		SweepLookback:     structure.DefaultSweepLookback,
		HTFEMAPeriod:      trend.DefaultPeriod,
		MinTDIBuy:         30,
		MaxTDISell:        70,
		MinTDISlope:       0.15,
		HardSlope:         0.35,
		SlopeWindow:       4,
		DivergenceWindow:  6,
		ATRStopMultiplier: 0.5,
		RiskRewardRatio:   2.0,
		MinRiskPct:        0.0015,
		MaxRiskPct:        0.02,
		Filters:           AllFilters(),
	}
}

// ConfigForProfile returns the preset configuration for a profile. An empty profile is strict.
func ConfigForProfile(profile Profile) (Config, error) {
	cfg := DefaultConfig()

	switch profile {
	case ProfileStrict, "":
		return cfg, nil
	case ProfileBalanced:
		cfg.Profile = ProfileBalanced
		cfg.MinHistory = 40
		cfg.Filters = []FilterName{
			FilterMinHistory,
			FilterBBWidth,
			FilterLiquiditySweep,
			FilterHTFAlignment,
			FilterTDIZone,
			FilterTDISlope,
			FilterMarketStructure,
			FilterFairValueGap,
		}

		return cfg, nil
	case ProfileClassic:
		cfg.Profile = ProfileClassic
		cfg.MinHistory = 30
		cfg.ATRStopMultiplier = 0
		cfg.MaxRiskPct = 0.03
		cfg.Filters = []FilterName{
			FilterMinHistory,
			FilterLiquiditySweep,
			FilterHTFAlignment,
			FilterMarketStructure,
			FilterFairValueGap,
		}

		return cfg, nil
	default:
		return Config{}, errors.Newf(errors.ErrCodeInvalidProfile, "unknown signal profile %q", profile)
	}
}

// Validate validates the Config struct.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid signal config", err)
	}

	if c.HardSlope < c.MinTDISlope {
		return errors.Newf(errors.ErrCodeInvalidThreshold, "hard slope %.2f is below the minimum slope %.2f", c.HardSlope, c.MinTDISlope)
	}

	seen := make(map[FilterName]bool, len(c.Filters))
	for _, name := range c.Filters {
		if _, ok := lookupFilter(name); !ok {
			return errors.Newf(errors.ErrCodeUnknownFilter, "unknown filter %q", name)
		}

		if seen[name] {
			return errors.Newf(errors.ErrCodeStrategyConfigError, "filter %q listed twice", name)
		}

		seen[name] = true
	}

	for _, required := range []FilterName{FilterMinHistory, FilterLiquiditySweep} {
		if !seen[required] {
			return errors.Newf(errors.ErrCodeStrategyConfigError, "filter %q is required", required)
		}
	}

	return nil
}
