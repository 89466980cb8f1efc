// Package config loads the bot configuration from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-smc/internal/indicator"
	"github.com/rxtech-lab/argo-smc/internal/notification"
	"github.com/rxtech-lab/argo-smc/internal/scanner"
	"github.com/rxtech-lab/argo-smc/internal/setupstore"
	"github.com/rxtech-lab/argo-smc/internal/signal"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
	"github.com/rxtech-lab/argo-smc/pkg/marketdata"
	"github.com/rxtech-lab/argo-smc/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-smc/pkg/utils"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// RunMode selects production or development behaviour. Development logs at debug
// level and never delivers alerts to Telegram.
type RunMode string

const (
	RunModeProduction  RunMode = "PRODUCTION"
	RunModeDevelopment RunMode = "DEVELOPMENT"
)

// Config is the complete bot configuration.
type Config struct {
	RunMode  RunMode `yaml:"run_mode" jsonschema:"title=Run Mode,enum=PRODUCTION,enum=DEVELOPMENT,default=PRODUCTION" env:"RUN_MODE, overwrite" validate:"oneof=PRODUCTION DEVELOPMENT"`
	LogLevel string  `yaml:"log_level" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info" env:"LOG_LEVEL, overwrite" validate:"oneof=debug info warn error"`

	Binance    BinanceConfig    `yaml:"binance"`
	Scanner    ScannerConfig    `yaml:"scanner"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Redis      RedisConfig      `yaml:"redis"`
	HTTP       HTTPConfig       `yaml:"http"`
	Indicators indicator.Params `yaml:"indicators"`
	Strategy   StrategyConfig   `yaml:"strategy"`
}

// BinanceConfig configures market data access.
type BinanceConfig struct {
	Provider          string `yaml:"provider" jsonschema:"title=Provider,enum=binance-futures,default=binance-futures" env:"MARKET_DATA_PROVIDER, overwrite" validate:"required"`
	APIKey            string `yaml:"api_key" jsonschema:"title=API Key" env:"BINANCE_API_KEY, overwrite"`
	APISecret         string `yaml:"api_secret" jsonschema:"title=API Secret" env:"BINANCE_API_SECRET, overwrite"`
	Testnet           bool   `yaml:"testnet" jsonschema:"title=Use Testnet,default=false" env:"BINANCE_TESTNET, overwrite"`
	APITimeoutSeconds int    `yaml:"api_timeout_seconds" jsonschema:"title=API Timeout Seconds,default=5" env:"API_TIMEOUT_SECONDS, overwrite" validate:"gt=0"`
	MaxRetries        uint64 `yaml:"max_retries" jsonschema:"title=Max Retries,default=3" env:"API_MAX_RETRIES, overwrite" validate:"lte=10"`
}

// ScannerConfig configures the scan universe and cadence.
type ScannerConfig struct {
	QuoteAsset             string   `yaml:"quote_asset" jsonschema:"title=Quote Asset,default=USDT" env:"QUOTE_ASSET, overwrite" validate:"required"`
	MaxSymbols             int      `yaml:"max_symbols" jsonschema:"title=Max Symbols,default=30" env:"MAX_SYMBOLS, overwrite" validate:"gt=0"`
	Symbols                []string `yaml:"symbols" jsonschema:"title=Symbols" env:"SYMBOLS, overwrite" validate:"required,min=1"`
	Timeframe              string   `yaml:"timeframe" jsonschema:"title=Timeframe,default=5m" env:"TIMEFRAME, overwrite" validate:"required"`
	HTFTimeframe           string   `yaml:"htf_timeframe" jsonschema:"title=Higher Timeframe,default=1h" env:"HTF_TIMEFRAME, overwrite" validate:"required"`
	LTFCandles             int      `yaml:"ltf_candles" jsonschema:"title=Trading Timeframe Candles,default=100" env:"LTF_CANDLES, overwrite" validate:"gt=0,lte=1500"`
	HTFCandles             int      `yaml:"htf_candles" jsonschema:"title=Higher Timeframe Candles,default=50" env:"HTF_CANDLES, overwrite" validate:"gt=0,lte=1500"`
	PollingIntervalSeconds int      `yaml:"polling_interval_seconds" jsonschema:"title=Polling Interval Seconds,default=5" env:"POLLING_INTERVAL_SECONDS, overwrite" validate:"gt=0"`
	AlertCooldownMinutes   int      `yaml:"alert_cooldown_minutes" jsonschema:"title=Duplicate Alert Cooldown Minutes,default=10" env:"ALERT_DUPLICATE_COOLDOWN_MINUTES, overwrite" validate:"gte=0"`
	Workers                int      `yaml:"workers" jsonschema:"title=Parallel Workers,default=4" env:"SCAN_WORKERS, overwrite" validate:"gt=0,lte=64"`
}

// TelegramConfig configures alert delivery. Alerts are logged when either field is empty.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token" jsonschema:"title=Bot Token" env:"TELEGRAM_BOT_TOKEN, overwrite"`
	ChatID   string `yaml:"chat_id" jsonschema:"title=Chat ID" env:"TELEGRAM_CHAT_ID, overwrite"`
}

// RedisConfig configures the shared setup store. An empty address keeps claims in memory.
type RedisConfig struct {
	Addr      string `yaml:"addr" jsonschema:"title=Address" env:"REDIS_ADDR, overwrite"`
	Password  string `yaml:"password" jsonschema:"title=Password" env:"REDIS_PASSWORD, overwrite"`
	DB        int    `yaml:"db" jsonschema:"title=Database,default=0" env:"REDIS_DB, overwrite" validate:"gte=0"`
	KeyPrefix string `yaml:"key_prefix" jsonschema:"title=Key Prefix,default=smc:setup:" env:"REDIS_KEY_PREFIX, overwrite"`
}

// HTTPConfig configures the status server. An empty address disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr" jsonschema:"title=Listen Address,default=:8080" env:"HTTP_ADDR, overwrite"`
}

// StrategyConfig selects a signal profile and overrides individual thresholds.
type StrategyConfig struct {
	Profile   signal.Profile    `yaml:"profile" jsonschema:"title=Profile,enum=strict,enum=balanced,enum=classic,default=strict" env:"STRATEGY_PROFILE, overwrite" validate:"omitempty,oneof=strict balanced classic"`
	Overrides StrategyOverrides `yaml:"overrides"`
}

// StrategyOverrides holds a partial signal configuration applied on top of the profile preset.
type StrategyOverrides struct {
	node yaml.Node
}

// UnmarshalYAML keeps the raw node until the profile is known.
func (o *StrategyOverrides) UnmarshalYAML(value *yaml.Node) error {
	o.node = *value

	return nil
}

// IsZero reports whether no overrides were given.
func (o StrategyOverrides) IsZero() bool {
	return o.node.Kind == 0
}

// JSONSchema describes the overrides as an optional subset of the signal configuration.
func (StrategyOverrides) JSONSchema() *jsonschema.Schema {
	schema := utils.NewSchemaReflector().Reflect(signal.Config{})
	schema.Version = ""
	schema.Required = nil
	schema.Title = "Strategy Overrides"

	return schema
}

// Default returns the configuration of the production bot.
func Default() Config {
	defaults := scanner.DefaultConfig()

	return Config{
		RunMode:  RunModeProduction,
		LogLevel: "info",
		Binance: BinanceConfig{
			Provider:          string(marketdata.ProviderBinanceFutures),
			APITimeoutSeconds: 5,
			MaxRetries:        3,
		},
		Scanner: ScannerConfig{
			QuoteAsset:             defaults.QuoteAsset,
			MaxSymbols:             defaults.MaxSymbols,
			Symbols:                defaults.Symbols,
			Timeframe:              defaults.Interval.String(),
			HTFTimeframe:           defaults.HTFInterval.String(),
			LTFCandles:             defaults.LTFLimit,
			HTFCandles:             defaults.HTFLimit,
			PollingIntervalSeconds: int(defaults.PollInterval / time.Second),
			AlertCooldownMinutes:   int(defaults.AlertCooldown / time.Minute),
			Workers:                defaults.Workers,
		},
		Redis: RedisConfig{
			KeyPrefix: setupstore.DefaultKeyPrefix,
		},
		HTTP:       HTTPConfig{Addr: ":8080"},
		Indicators: indicator.DefaultParams(),
		Strategy:   StrategyConfig{Profile: signal.ProfileStrict},
	}
}

// Load reads path (optional) and the process environment.
func Load(ctx context.Context, path string) (Config, error) {
	return LoadWithLookuper(ctx, path, envconfig.OsLookuper())
}

// LoadWithLookuper reads path (optional) and the environment provided by lookuper.
func LoadWithLookuper(ctx context.Context, path string, lookuper envconfig.Lookuper) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
		}

		if err := Parse(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to process environment", err)
	}

	cfg.RunMode = RunMode(strings.ToUpper(string(cfg.RunMode)))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Parse decodes YAML onto cfg; fields absent from data keep their values.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config yaml", err)
	}

	return nil
}

// Validate checks every section, including the derived scanner and signal configurations.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if _, err := marketdata.GetProviderInfo(c.Binance.Provider); err != nil {
		return err
	}

	if _, err := c.ScannerConfig(); err != nil {
		return err
	}

	if _, err := c.SignalConfig(); err != nil {
		return err
	}

	return nil
}

// ScannerConfig converts the scanner section.
func (c Config) ScannerConfig() (scanner.Config, error) {
	interval, err := marketdata.ParseInterval(c.Scanner.Timeframe)
	if err != nil {
		return scanner.Config{}, err
	}

	htfInterval, err := marketdata.ParseInterval(c.Scanner.HTFTimeframe)
	if err != nil {
		return scanner.Config{}, err
	}

	cfg := scanner.Config{
		QuoteAsset:    c.Scanner.QuoteAsset,
		MaxSymbols:    c.Scanner.MaxSymbols,
		Symbols:       c.Scanner.Symbols,
		Interval:      interval,
		HTFInterval:   htfInterval,
		LTFLimit:      c.Scanner.LTFCandles,
		HTFLimit:      c.Scanner.HTFCandles,
		PollInterval:  time.Duration(c.Scanner.PollingIntervalSeconds) * time.Second,
		AlertCooldown: time.Duration(c.Scanner.AlertCooldownMinutes) * time.Minute,
		Workers:       c.Scanner.Workers,
	}

	if err := cfg.Validate(); err != nil {
		return scanner.Config{}, err
	}

	return cfg, nil
}

// SignalConfig returns the profile preset with the overrides applied.
func (c Config) SignalConfig() (signal.Config, error) {
	cfg, err := signal.ConfigForProfile(c.Strategy.Profile)
	if err != nil {
		return signal.Config{}, err
	}

	if !c.Strategy.Overrides.IsZero() {
		if err := c.Strategy.Overrides.node.Decode(&cfg); err != nil {
			return signal.Config{}, errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to apply strategy overrides", err)
		}

		if c.Strategy.Profile != "" {
			cfg.Profile = c.Strategy.Profile
		}
	}

	if err := cfg.Validate(); err != nil {
		return signal.Config{}, err
	}

	return cfg, nil
}

// BinanceClientConfig converts the binance section.
func (c Config) BinanceClientConfig() provider.BinanceConfig {
	cfg := provider.DefaultBinanceConfig()
	cfg.APIKey = c.Binance.APIKey
	cfg.APISecret = c.Binance.APISecret
	cfg.Testnet = c.Binance.Testnet
	cfg.Timeout = time.Duration(c.Binance.APITimeoutSeconds) * time.Second
	cfg.MaxRetries = c.Binance.MaxRetries

	return cfg
}

// TelegramNotifierConfig converts the telegram section.
func (c Config) TelegramNotifierConfig() notification.TelegramConfig {
	return notification.TelegramConfig{
		BotToken: c.Telegram.BotToken,
		ChatID:   c.Telegram.ChatID,
	}
}

// RedisStoreConfig converts the redis section.
func (c Config) RedisStoreConfig() setupstore.RedisConfig {
	return setupstore.RedisConfig{
		Addr:      c.Redis.Addr,
		Password:  c.Redis.Password,
		DB:        c.Redis.DB,
		KeyPrefix: c.Redis.KeyPrefix,
	}
}

// Schema returns the JSON schema of the configuration file.
func Schema() (string, error) {
	return utils.GetSchemaFromConfig(Config{})
}
