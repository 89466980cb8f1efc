package main

import (
	"context"

	"github.com/rxtech-lab/argo-smc/internal/api"
	"github.com/rxtech-lab/argo-smc/internal/config"
	"github.com/rxtech-lab/argo-smc/internal/indicator"
	"github.com/rxtech-lab/argo-smc/internal/logger"
	"github.com/rxtech-lab/argo-smc/internal/metrics"
	"github.com/rxtech-lab/argo-smc/internal/notification"
	"github.com/rxtech-lab/argo-smc/internal/scanner"
	"github.com/rxtech-lab/argo-smc/internal/setupstore"
	"github.com/rxtech-lab/argo-smc/internal/signal"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
	"github.com/rxtech-lab/argo-smc/pkg/marketdata"
	"github.com/rxtech-lab/argo-smc/pkg/marketdata/provider"
	"go.uber.org/zap"
)

// bot wires the configured collaborators around one scanner.
type bot struct {
	provider marketdata.Provider
	scanner  *scanner.Scanner
	server   *api.Server
	store    setupstore.SetupStore
	metrics  *metrics.Metrics
	log      *logger.Logger
}

func newBot(ctx context.Context, cfg config.Config, log *logger.Logger) (*bot, error) {
	scannerCfg, err := cfg.ScannerConfig()
	if err != nil {
		return nil, err
	}

	signalCfg, err := cfg.SignalConfig()
	if err != nil {
		return nil, err
	}

	indicators, err := indicator.NewEngine(cfg.Indicators, log)
	if err != nil {
		return nil, err
	}

	engine, err := signal.NewEngine(signalCfg, log)
	if err != nil {
		return nil, err
	}

	marketData, err := provider.NewMarketDataProvider(marketdata.ProviderType(cfg.Binance.Provider), cfg.BinanceClientConfig(), log)
	if err != nil {
		return nil, err
	}

	store, err := newSetupStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	m := metrics.New()

	s, err := scanner.New(scannerCfg, scanner.Dependencies{
		Provider:   marketData,
		Indicators: indicators,
		Engine:     engine,
		Notifier:   newNotifier(cfg, log),
		Store:      store,
		Metrics:    m,
		Logger:     log,
	})
	if err != nil {
		_ = store.Close()

		return nil, err
	}

	return &bot{
		provider: marketData,
		scanner:  s,
		server:   api.NewServer(s, m.Handler(), log),
		store:    store,
		metrics:  m,
		log:      log,
	}, nil
}

func (b *bot) Close() {
	if err := b.store.Close(); err != nil {
		b.log.Warn("failed to close setup store", zap.Error(err))
	}
}

// newNotifier returns the Telegram notifier, or a log notifier in development
// mode or when Telegram is not configured.
func newNotifier(cfg config.Config, log *logger.Logger) notification.Notifier {
	if cfg.RunMode == config.RunModeDevelopment {
		return notification.NewLogNotifier(log)
	}

	telegram, err := notification.NewTelegramNotifier(cfg.TelegramNotifierConfig())
	if err != nil {
		if !errors.HasCode(err, errors.ErrCodeNotifierDisabled) {
			log.Warn("telegram notifier unavailable", zap.Error(err))
		}

		log.Info("telegram not configured, alerts are logged only")

		return notification.NewLogNotifier(log)
	}

	return telegram
}

// newSetupStore returns a Redis store when an address is configured, otherwise memory.
func newSetupStore(ctx context.Context, cfg config.Config, log *logger.Logger) (setupstore.SetupStore, error) {
	if cfg.Redis.Addr == "" {
		return setupstore.NewMemoryStore(), nil
	}

	store, err := setupstore.NewRedisStore(ctx, cfg.RedisStoreConfig())
	if err != nil {
		return nil, err
	}

	log.Info("using redis setup store", zap.String("addr", cfg.Redis.Addr))

	return store, nil
}
