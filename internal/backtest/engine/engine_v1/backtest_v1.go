package engine

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	backtestEngine "github.com/rxtech-lab/backtest-api/internal/backtest/engine"
	"github.com/rxtech-lab/backtest-api/internal/logger"
	"github.com/rxtech-lab/backtest-api/internal/types"
	"github.com/rxtech-lab/backtest-api/pkg/errors"
)

// BacktestEngineV1 is the reference engine implementation: a synchronous
// walk over the price series feeding the trade simulator, followed by a
// statistics fold over the closed trades.
type BacktestEngineV1 struct {
	logger *logger.Logger
}

var _ backtestEngine.Engine = (*BacktestEngineV1)(nil)

// NewBacktestEngineV1 creates a new engine with the given logger.
func NewBacktestEngineV1(l *logger.Logger) *BacktestEngineV1 {
	return &BacktestEngineV1{
		logger: l,
	}
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, prices []float64, params types.StrategyParams, callbacks backtestEngine.LifecycleCallbacks) (types.BacktestResult, error) {
	runID := uuid.New().String()

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(runID, len(prices)); err != nil {
			return types.BacktestResult{}, errors.Wrap(errors.ErrCodeCallbackFailed, "run start callback failed", err)
		}
	}

	sim := NewSimulator(params, len(prices))

	for i, price := range prices {
		select {
		case <-ctx.Done():
			return types.BacktestResult{}, errors.Wrap(errors.ErrCodeBacktestCanceled, "backtest canceled", ctx.Err())
		default:
		}

		sim.Step(i, price)

		if callbacks.OnProcessData != nil {
			if err := (*callbacks.OnProcessData)(i+1, len(prices)); err != nil {
				return types.BacktestResult{}, errors.Wrap(errors.ErrCodeCallbackFailed, "process data callback failed", err)
			}
		}
	}

	trades := sim.ClosedTrades()
	result := types.BacktestResult{
		Trades:     trades,
		Statistics: Aggregate(trades),
	}

	b.logger.Debug("backtest run complete",
		zap.String("run_id", runID),
		zap.Int("data_points", len(prices)),
		zap.Int("closed_trades", len(trades)),
	)

	if callbacks.OnRunEnd != nil {
		(*callbacks.OnRunEnd)(result)
	}

	return result, nil
}
