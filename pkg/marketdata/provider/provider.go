package provider

import (
	"github.com/rxtech-lab/argo-smc/internal/logger"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
	"github.com/rxtech-lab/argo-smc/pkg/marketdata"
)

// NewMarketDataProvider creates a new market data provider based on the provider type.
func NewMarketDataProvider(providerType marketdata.ProviderType, config BinanceConfig, log *logger.Logger) (marketdata.Provider, error) {
	switch providerType {
	case marketdata.ProviderBinanceFutures:
		return NewBinanceClient(config, log), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}
