// Package marketdata downloads historical closing-price series from
// external vendors so they can be fed into the backtest engine.
package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rxtech-lab/backtest-api/pkg/errors"
	"github.com/rxtech-lab/backtest-api/pkg/marketdata/provider"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  ProviderType `validate:"required,oneof=polygon binance"`
	PolygonApiKey string       `validate:"required_if=ProviderType polygon"`
}

// FetchParams holds the parameters for a historical fetch request.
type FetchParams struct {
	Ticker    string            `validate:"required"`
	StartDate time.Time         `validate:"required"`
	EndDate   time.Time         `validate:"required,gtfield=StartDate"`
	Interval  provider.Interval `validate:"required,oneof=minute hour day"`
}

// Client is the market data client responsible for fetching closing
// prices from the configured provider.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnFetchProgress
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, onProgress provider.OnFetchProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}

	var marketProvider provider.Provider

	var err error

	switch config.ProviderType {
	case ProviderPolygon:
		marketProvider, err = provider.NewPolygonClient(config.PolygonApiKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Polygon client: %w", err)
		}
	case ProviderBinance:
		marketProvider, err = provider.NewBinanceClient()
		if err != nil {
			return nil, fmt.Errorf("failed to create Binance client: %w", err)
		}
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider type: %s", config.ProviderType)
	}

	return &Client{
		provider:   marketProvider,
		config:     config,
		validate:   validate,
		onProgress: onProgress,
	}, nil
}

// NewClientWithProvider creates a client around an existing provider.
// Used by tests to inject mocks.
func NewClientWithProvider(config ClientConfig, marketProvider provider.Provider, onProgress provider.OnFetchProgress) *Client {
	return &Client{
		provider:   marketProvider,
		config:     config,
		validate:   validator.New(),
		onProgress: onProgress,
	}
}

// FetchCloses validates the parameters and fetches the closing prices.
// A fetch that yields no data is an error; a price series needs at least
// two points to be useful to the backtest engine.
func (c *Client) FetchCloses(ctx context.Context, params FetchParams) ([]float64, error) {
	if err := c.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("invalid fetch parameters: %w", err)
	}

	closes, err := c.provider.FetchCloses(ctx, params.Ticker, params.StartDate, params.EndDate, params.Interval, c.onProgress)
	if err != nil {
		return nil, err
	}

	if len(closes) < 2 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "not enough data for %s: got %d points", params.Ticker, len(closes))
	}

	return closes, nil
}
