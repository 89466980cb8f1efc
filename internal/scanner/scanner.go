// Package scanner polls market data for a universe of symbols, runs the signal
// engine on each and alerts on new setups.
package scanner

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-smc/internal/indicator"
	"github.com/rxtech-lab/argo-smc/internal/logger"
	"github.com/rxtech-lab/argo-smc/internal/metrics"
	"github.com/rxtech-lab/argo-smc/internal/notification"
	"github.com/rxtech-lab/argo-smc/internal/session"
	"github.com/rxtech-lab/argo-smc/internal/setupstore"
	"github.com/rxtech-lab/argo-smc/internal/signal"
	"github.com/rxtech-lab/argo-smc/internal/types"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
	"github.com/rxtech-lab/argo-smc/pkg/marketdata"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FrameComputer turns candles into an indicator frame. *indicator.Engine implements it.
type FrameComputer interface {
	Compute(series types.CandleSeries) indicator.Frame
}

// Dependencies are the collaborators of a Scanner. Provider, Indicators and
// Engine are required; the rest default to a log notifier, an in-memory setup
// store, fresh metrics and a no-op logger.
type Dependencies struct {
	Provider   marketdata.Provider
	Indicators FrameComputer
	Engine     *signal.Engine
	Notifier   notification.Notifier
	Store      setupstore.SetupStore
	Metrics    *metrics.Metrics
	Logger     *logger.Logger
}

// Scanner runs the signal engine over a symbol universe.
type Scanner struct {
	cfg        Config
	provider   marketdata.Provider
	indicators FrameComputer
	engine     *signal.Engine
	notifier   notification.Notifier
	store      setupstore.SetupStore
	metrics    *metrics.Metrics
	log        *logger.Logger
	states     *StateBook
	now        func() time.Time

	mu      sync.RWMutex
	symbols []string
	latest  map[string]Result
}

// New creates a scanner. Call Prepare (or Run) before ScanOnce.
func New(cfg Config, deps Dependencies) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if deps.Provider == nil || deps.Indicators == nil || deps.Engine == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "scanner requires a provider, an indicator engine and a signal engine")
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}

	log = log.Named("scanner")

	notifier := deps.Notifier
	if notifier == nil {
		notifier = notification.NewLogNotifier(log)
	}

	store := deps.Store
	if store == nil {
		store = setupstore.NewMemoryStore()
	}

	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}

	return &Scanner{
		cfg:        cfg,
		provider:   deps.Provider,
		indicators: deps.Indicators,
		engine:     deps.Engine,
		notifier:   notifier,
		store:      store,
		metrics:    m,
		log:        log,
		states:     NewStateBook(),
		now:        func() time.Time { return time.Now().UTC() },
		symbols:    nil,
		latest:     make(map[string]Result),
	}, nil
}

// Prepare selects the scan universe: configured symbols in the quote asset that
// the exchange lists with a price precision.
func (s *Scanner) Prepare(ctx context.Context) ([]string, error) {
	candidates := SelectSymbols(s.cfg.Symbols, s.cfg.QuoteAsset, s.cfg.MaxSymbols)
	if len(candidates) == 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "no symbols quoted in %s", s.cfg.QuoteAsset)
	}

	precisions, err := s.provider.PricePrecisions(ctx, candidates)
	if err != nil {
		return nil, err
	}

	monitored := make([]string, 0, len(candidates))

	for _, symbol := range candidates {
		if _, ok := precisions[symbol]; !ok {
			s.log.Warn("symbol not listed, skipping", zap.String("symbol", symbol))

			continue
		}

		monitored = append(monitored, symbol)
	}

	if len(monitored) == 0 {
		return nil, errors.New(errors.ErrCodeNoDataFound, "none of the configured symbols is listed")
	}

	s.mu.Lock()
	s.symbols = monitored
	s.mu.Unlock()

	s.metrics.SymbolsMonitored.Set(float64(len(monitored)))
	s.log.Info("scan universe ready", zap.Strings("symbols", monitored))

	return monitored, nil
}

// Symbols returns the prepared scan universe.
func (s *Scanner) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	symbols := make([]string, len(s.symbols))
	copy(symbols, s.symbols)

	return symbols
}

// Run prepares the universe, announces it and scans every PollInterval until ctx is done.
func (s *Scanner) Run(ctx context.Context) error {
	symbols := s.Symbols()
	if len(symbols) == 0 {
		var err error

		symbols, err = s.Prepare(ctx)
		if err != nil {
			return err
		}
	}

	notification.SafeSend(ctx, s.notifier, notification.FormatStartupMessage(symbols), s.log)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		if _, err := s.ScanOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			s.log.Error("scan cycle failed", zap.Error(err))
		}

		timer.Reset(s.cfg.PollInterval)
	}
}

// ScanOnce evaluates every symbol once. Symbols whose data cannot be fetched are
// skipped for the cycle; only cancellation of ctx is returned as an error.
func (s *Scanner) ScanOnce(ctx context.Context) (CycleReport, error) {
	started := s.now()
	report := CycleReport{
		ID:      uuid.NewString(),
		Session: session.At(started),
		Started: started,
	}
	log := &logger.Logger{Logger: s.log.With(zap.String("cycle_id", report.ID), zap.String("session", string(report.Session)))}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for _, symbol := range s.Symbols() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result, err := s.evaluate(gctx, symbol, report.Session)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}

				s.metrics.FetchFailures.WithLabelValues(symbol).Inc()
				log.Warn("skipping symbol",
					zap.String("symbol", symbol),
					zap.Int("code", int(errors.GetCode(err))),
					zap.Error(err),
				)

				mu.Lock()
				report.Skipped++
				mu.Unlock()

				return nil
			}

			s.storeResult(result)

			alerted := false
			if result.Signal != nil {
				alerted = s.alert(gctx, log, result)
			}

			mu.Lock()
			report.Scanned++
			if result.Signal != nil {
				report.Signals++
			}
			if alerted {
				report.Alerts++
			}
			mu.Unlock()

			return nil
		})
	}

	err := g.Wait()
	report.Duration = s.now().Sub(started)

	if err != nil {
		return report, err
	}

	s.metrics.CyclesTotal.Inc()
	s.metrics.CycleDuration.Observe(report.Duration.Seconds())
	log.Info("scan cycle complete",
		zap.Int("scanned", report.Scanned),
		zap.Int("skipped", report.Skipped),
		zap.Int("signals", report.Signals),
		zap.Int("alerts", report.Alerts),
		zap.Duration("duration", report.Duration),
	)

	return report, nil
}

// Analyze evaluates one symbol now, updating its state, without alerting.
func (s *Scanner) Analyze(ctx context.Context, symbol string) (Result, error) {
	result, err := s.evaluate(ctx, symbol, session.At(s.now()))
	if err != nil {
		return Result{}, err
	}

	s.storeResult(result)

	return result, nil
}

// Latest returns the most recent result of every evaluated symbol, sorted by symbol.
func (s *Scanner) Latest() []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Result, 0, len(s.latest))
	for _, r := range s.latest {
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Symbol < results[j].Symbol })

	return results
}

// LatestFor returns the most recent result of symbol.
func (s *Scanner) LatestFor(symbol string) (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.latest[symbol]

	return r, ok
}

// evaluate fetches both timeframes and runs the engine under the symbol's state lock.
func (s *Scanner) evaluate(ctx context.Context, symbol string, sess session.Session) (Result, error) {
	price, err := s.provider.CurrentPrice(ctx, symbol)
	if err != nil {
		return Result{}, err
	}

	ltf, err := s.provider.Klines(ctx, symbol, s.cfg.Interval, s.cfg.LTFLimit)
	if err != nil {
		return Result{}, err
	}

	htf, err := s.provider.Klines(ctx, symbol, s.cfg.HTFInterval, s.cfg.HTFLimit)
	if err != nil {
		return Result{}, err
	}

	if ltf.IsEmpty() || htf.IsEmpty() {
		return Result{}, errors.Newf(errors.ErrCodeNoDataFound, "no candles for %s", symbol)
	}

	frame := s.indicators.Compute(ltf)

	var (
		bias     types.Trend
		decision types.Decision
	)

	s.states.With(symbol, func(state *signal.State) {
		bias = s.engine.SetHTFTrend(state, htf)
		decision = s.engine.GenerateSignal(state, frame)
	})

	result := Result{
		Symbol:   symbol,
		Time:     s.now(),
		Session:  sess,
		Price:    price,
		HTFTrend: bias,
		Action:   decision.Action(),
	}

	switch d := decision.(type) {
	case types.Signal:
		result.Signal = &d
		result.SetupID = SetupID(symbol, d.Direction, sess, result.Time)
		s.metrics.ObserveDecision(string(d.Direction), string(d.SignalStrength))
	case types.NoTrade:
		result.Reason = d.Reason
		s.metrics.ObserveDecision(string(types.DirectionNone), d.Reason)
	}

	return result, nil
}

// alert claims the setup ID and sends the setup message. A failing store does not
// block the alert.
func (s *Scanner) alert(ctx context.Context, log *logger.Logger, result Result) bool {
	claimed, err := s.store.Claim(ctx, result.SetupID, s.cfg.AlertCooldown)
	if err != nil {
		log.Warn("setup store unavailable", zap.String("setup_id", result.SetupID), zap.Error(err))

		claimed = true
	}

	if !claimed {
		log.Debug("setup already alerted", zap.String("setup_id", result.SetupID))

		return false
	}

	msg := notification.FormatSetupMessage(notification.Setup{
		ID:       result.SetupID,
		Symbol:   result.Symbol,
		Signal:   *result.Signal,
		HTFTrend: result.HTFTrend,
		Session:  result.Session,
	})

	delivered := notification.SafeSend(ctx, s.notifier, msg, log)
	s.metrics.ObserveNotification(delivered)

	log.Info("setup detected",
		zap.String("symbol", result.Symbol),
		zap.String("direction", string(result.Signal.Direction)),
		zap.String("strength", string(result.Signal.SignalStrength)),
		zap.Float64("entry", result.Signal.EntryPrice),
		zap.Float64("stop_loss", result.Signal.StopLoss),
		zap.Float64("take_profit", result.Signal.TakeProfit),
		zap.String("setup_id", result.SetupID),
		zap.Bool("delivered", delivered),
	)

	return delivered
}

func (s *Scanner) storeResult(result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest[result.Symbol] = result
}
