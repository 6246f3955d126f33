package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rxtech-lab/backtest-api/mocks"
	"github.com/rxtech-lab/backtest-api/pkg/errors"
	"github.com/rxtech-lab/backtest-api/pkg/marketdata/provider"
)

func validFetchParams() FetchParams {
	return FetchParams{
		Ticker:    "BTCUSDT",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Interval:  provider.IntervalDay,
	}
}

func TestNewClientConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  ClientConfig
		wantErr bool
	}{
		{
			name:    "binance needs no credentials",
			config:  ClientConfig{ProviderType: ProviderBinance},
			wantErr: false,
		},
		{
			name:    "polygon requires an API key",
			config:  ClientConfig{ProviderType: ProviderPolygon},
			wantErr: true,
		},
		{
			name:    "polygon with API key",
			config:  ClientConfig{ProviderType: ProviderPolygon, PolygonApiKey: "test-key"},
			wantErr: false,
		},
		{
			name:    "missing provider type",
			config:  ClientConfig{},
			wantErr: true,
		},
		{
			name:    "unknown provider type",
			config:  ClientConfig{ProviderType: "yahoo"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config, nil)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, client)
			}
		})
	}
}

func TestFetchClosesParamValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockProvider := mocks.NewMockProvider(ctrl)
	client := NewClientWithProvider(ClientConfig{ProviderType: ProviderBinance}, mockProvider, nil)

	tests := []struct {
		name   string
		mutate func(*FetchParams)
	}{
		{
			name:   "missing ticker",
			mutate: func(p *FetchParams) { p.Ticker = "" },
		},
		{
			name:   "end before start",
			mutate: func(p *FetchParams) { p.EndDate = p.StartDate.Add(-time.Hour) },
		},
		{
			name:   "unknown interval",
			mutate: func(p *FetchParams) { p.Interval = "week" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validFetchParams()
			tt.mutate(&params)

			_, err := client.FetchCloses(context.Background(), params)
			assert.Error(t, err)
		})
	}
}

func TestFetchClosesDelegatesToProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockProvider := mocks.NewMockProvider(ctrl)
	client := NewClientWithProvider(ClientConfig{ProviderType: ProviderBinance}, mockProvider, nil)

	params := validFetchParams()
	expected := []float64{100, 101.5, 99.25}

	mockProvider.EXPECT().
		FetchCloses(gomock.Any(), params.Ticker, params.StartDate, params.EndDate, params.Interval, gomock.Any()).
		Return(expected, nil)

	closes, err := client.FetchCloses(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, expected, closes)
}

func TestFetchClosesPropagatesProviderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockProvider := mocks.NewMockProvider(ctrl)
	client := NewClientWithProvider(ClientConfig{ProviderType: ProviderBinance}, mockProvider, nil)

	fetchErr := errors.New(errors.ErrCodeMarketDataFetchFailed, "connection refused")

	mockProvider.EXPECT().
		FetchCloses(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fetchErr)

	_, err := client.FetchCloses(context.Background(), validFetchParams())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))
}

// A series with fewer than two points is useless to the backtest engine.
func TestFetchClosesRejectsTooFewPoints(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockProvider := mocks.NewMockProvider(ctrl)
	client := NewClientWithProvider(ClientConfig{ProviderType: ProviderBinance}, mockProvider, nil)

	mockProvider.EXPECT().
		FetchCloses(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]float64{100}, nil)

	_, err := client.FetchCloses(context.Background(), validFetchParams())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeDataNotFound))
}
