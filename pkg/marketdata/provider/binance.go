package provider

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/cenkalti/backoff/v4"
	"github.com/rxtech-lab/argo-smc/internal/logger"
	"github.com/rxtech-lab/argo-smc/internal/types"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
	"github.com/rxtech-lab/argo-smc/pkg/marketdata"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// binanceInvalidSymbol is the API error code returned for unknown symbols.
	binanceInvalidSymbol = -1121
	maxTickPrecision     = 18
)

// BinanceConfig configures the futures REST client.
type BinanceConfig struct {
	APIKey        string
	APISecret     string
	Testnet       bool
	Timeout       time.Duration
	MaxRetries    uint64
	RetryInterval time.Duration
}

// DefaultBinanceConfig returns unauthenticated mainnet settings.
func DefaultBinanceConfig() BinanceConfig {
	return BinanceConfig{
		Timeout:       5 * time.Second,
		MaxRetries:    3,
		RetryInterval: 500 * time.Millisecond,
	}
}

// Service interfaces for mocking the Binance futures API

// KlinesService interface for fetching candles.
type KlinesService interface {
	Symbol(symbol string) KlinesService
	Interval(interval string) KlinesService
	Limit(limit int) KlinesService
	Do(ctx context.Context) ([]*futures.Kline, error)
}

// ListPricesService interface for fetching the last traded price.
type ListPricesService interface {
	Symbol(symbol string) ListPricesService
	Do(ctx context.Context) ([]*futures.SymbolPrice, error)
}

// ExchangeInfoService interface for fetching symbol filters.
type ExchangeInfoService interface {
	Do(ctx context.Context) (*futures.ExchangeInfo, error)
}

// BinanceAPIClient abstracts the futures client for testing.
type BinanceAPIClient interface {
	NewKlinesService() KlinesService
	NewListPricesService() ListPricesService
	NewExchangeInfoService() ExchangeInfoService
}

// realBinanceClient wraps the actual futures.Client.
type realBinanceClient struct {
	client *futures.Client
}

func (r *realBinanceClient) NewKlinesService() KlinesService {
	return &realKlinesService{service: r.client.NewKlinesService()}
}

func (r *realBinanceClient) NewListPricesService() ListPricesService {
	return &realListPricesService{service: r.client.NewListPricesService()}
}

func (r *realBinanceClient) NewExchangeInfoService() ExchangeInfoService {
	return &realExchangeInfoService{service: r.client.NewExchangeInfoService()}
}

// Real service wrappers

type realKlinesService struct {
	service *futures.KlinesService
}

func (s *realKlinesService) Symbol(symbol string) KlinesService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realKlinesService) Interval(interval string) KlinesService {
	s.service = s.service.Interval(interval)

	return s
}

func (s *realKlinesService) Limit(limit int) KlinesService {
	s.service = s.service.Limit(limit)

	return s
}

func (s *realKlinesService) Do(ctx context.Context) ([]*futures.Kline, error) {
	return s.service.Do(ctx)
}

type realListPricesService struct {
	service *futures.ListPricesService
}

func (s *realListPricesService) Symbol(symbol string) ListPricesService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realListPricesService) Do(ctx context.Context) ([]*futures.SymbolPrice, error) {
	return s.service.Do(ctx)
}

type realExchangeInfoService struct {
	service *futures.ExchangeInfoService
}

func (s *realExchangeInfoService) Do(ctx context.Context) (*futures.ExchangeInfo, error) {
	return s.service.Do(ctx)
}

// BinanceClient implements marketdata.Provider over the USDⓈ-M futures REST API.
type BinanceClient struct {
	client BinanceAPIClient
	config BinanceConfig
	log    *logger.Logger

	mu         sync.RWMutex
	precisions map[string]int32
}

// NewBinanceClient creates a provider backed by the real futures client.
func NewBinanceClient(config BinanceConfig, log *logger.Logger) *BinanceClient {
	// UseTestnet is read by futures.NewClient when it picks the base URL.
	futures.UseTestnet = config.Testnet
	client := futures.NewClient(config.APIKey, config.APISecret)

	return newBinanceClientWithAPI(&realBinanceClient{client: client}, config, log)
}

// newBinanceClientWithAPI creates a provider with an injected API client (for testing).
func newBinanceClientWithAPI(api BinanceAPIClient, config BinanceConfig, log *logger.Logger) *BinanceClient {
	if log == nil {
		log = logger.NewNop()
	}

	return &BinanceClient{
		client:     api,
		config:     config,
		log:        log.Named("binance"),
		precisions: make(map[string]int32),
	}
}

// Klines returns the latest limit candles for symbol.
func (c *BinanceClient) Klines(ctx context.Context, symbol string, interval marketdata.Interval, limit int) (types.CandleSeries, error) {
	if !interval.IsValid() {
		return types.CandleSeries{}, errors.Newf(errors.ErrCodeInvalidInterval, "unsupported interval %q", interval)
	}

	klines, err := retry(ctx, c, "klines", symbol, func(reqCtx context.Context) ([]*futures.Kline, error) {
		return c.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval.String()).
			Limit(limit).
			Do(reqCtx)
	})
	if err != nil {
		return types.CandleSeries{}, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch %s klines for %s", interval, symbol)
	}

	candles, err := processKlines(klines)
	if err != nil {
		return types.CandleSeries{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse klines for %s", symbol)
	}

	series, err := types.NewCandleSeries(candles)
	if err != nil {
		return types.CandleSeries{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "klines for %s are out of order", symbol)
	}

	return series, nil
}

// CurrentPrice returns the last price rounded to the symbol's tick precision.
// Precisions are learned from PricePrecisions; unknown symbols use two decimals.
func (c *BinanceClient) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	prices, err := retry(ctx, c, "price", symbol, func(reqCtx context.Context) ([]*futures.SymbolPrice, error) {
		return c.client.NewListPricesService().Symbol(symbol).Do(reqCtx)
	})
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch price for %s", symbol)
	}

	for _, p := range prices {
		if p == nil || p.Symbol != symbol {
			continue
		}

		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return 0, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid price %q for %s", p.Price, symbol)
		}

		return price.Round(c.precision(symbol)).InexactFloat64(), nil
	}

	return 0, errors.Newf(errors.ErrCodeSymbolNotFound, "no price returned for %s", symbol)
}

// PricePrecisions returns the tick precision of every requested symbol listed on the
// exchange with a price filter.
func (c *BinanceClient) PricePrecisions(ctx context.Context, symbols []string) (map[string]int32, error) {
	info, err := retry(ctx, c, "exchange_info", "", func(reqCtx context.Context) (*futures.ExchangeInfo, error) {
		return c.client.NewExchangeInfoService().Do(reqCtx)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to fetch exchange info", err)
	}

	if info == nil {
		return nil, errors.New(errors.ErrCodeNoDataFound, "empty exchange info")
	}

	wanted := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		wanted[s] = struct{}{}
	}

	result := make(map[string]int32, len(symbols))

	for i := range info.Symbols {
		sym := &info.Symbols[i]
		if _, ok := wanted[sym.Symbol]; !ok {
			continue
		}

		filter := sym.PriceFilter()
		if filter == nil {
			continue
		}

		precision, err := TickPrecision(filter.TickSize)
		if err != nil {
			c.log.Warn("invalid tick size", zap.String("symbol", sym.Symbol), zap.String("tick_size", filter.TickSize))

			precision = marketdata.DefaultPricePrecision
		}

		result[sym.Symbol] = precision
	}

	c.mu.Lock()
	for symbol, precision := range result {
		c.precisions[symbol] = precision
	}
	c.mu.Unlock()

	return result, nil
}

func (c *BinanceClient) precision(symbol string) int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if p, ok := c.precisions[symbol]; ok {
		return p
	}

	return marketdata.DefaultPricePrecision
}

// TickPrecision returns the number of significant decimals of a tick size,
// e.g. "0.01000" -> 2, "1.0" -> 0.
func TickPrecision(tickSize string) (int32, error) {
	tick, err := decimal.NewFromString(tickSize)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid tick size %q", tickSize)
	}

	for p := int32(0); p <= maxTickPrecision; p++ {
		if tick.Equal(tick.Truncate(p)) {
			return p, nil
		}
	}

	return maxTickPrecision, nil
}

// retry runs op with bounded exponential backoff. Invalid-symbol errors are not retried.
func retry[T any](ctx context.Context, c *BinanceClient, op string, symbol string, fn func(context.Context) (T, error)) (T, error) {
	policy := backoff.NewExponentialBackOff()
	if c.config.RetryInterval > 0 {
		policy.InitialInterval = c.config.RetryInterval
	}

	attempt := 0
	operation := func() (T, error) {
		attempt++

		reqCtx := ctx
		if c.config.Timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, c.config.Timeout)
			defer cancel()
		}

		result, err := fn(reqCtx)
		if err == nil {
			return result, nil
		}

		var apiErr *common.APIError
		if errors.As(err, &apiErr) && apiErr.Code == binanceInvalidSymbol {
			return result, backoff.Permanent(err)
		}

		c.log.Debug("binance request failed",
			zap.String("op", op),
			zap.String("symbol", symbol),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		return result, err
	}

	return backoff.RetryWithData(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.config.MaxRetries), ctx))
}

// processKlines converts binance klines into candles, oldest first.
func processKlines(klines []*futures.Kline) ([]types.Candle, error) {
	candles := make([]types.Candle, 0, len(klines))

	for _, k := range klines {
		if k == nil {
			continue
		}

		open, err := strconv.ParseFloat(k.Open, 64)
		if err != nil {
			return nil, err
		}

		high, err := strconv.ParseFloat(k.High, 64)
		if err != nil {
			return nil, err
		}

		low, err := strconv.ParseFloat(k.Low, 64)
		if err != nil {
			return nil, err
		}

		closePrice, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, err
		}

		volume, err := strconv.ParseFloat(k.Volume, 64)
		if err != nil {
			return nil, err
		}

		candles = append(candles, types.Candle{
			Time:   time.UnixMilli(k.OpenTime).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	return candles, nil
}
