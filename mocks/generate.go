package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/backtest-api/pkg/marketdata/provider Provider
