package engine

import (
	"context"

	"github.com/rxtech-lab/backtest-api/internal/types"
)

// Lifecycle callback types for backtest phases.
// Callbacks with an error return can abort execution by returning an error.

// OnRunStartCallback is called once before any price is processed.
// runID is a unique identifier generated for this run.
type OnRunStartCallback func(runID string, totalDataPoints int) error

// OnProcessDataCallback is called for each price point processed.
type OnProcessDataCallback func(current int, total int) error

// OnRunEndCallback is called after the run completes successfully.
type OnRunEndCallback func(result types.BacktestResult)

// LifecycleCallbacks holds all lifecycle callback functions for the engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart    *OnRunStartCallback
	OnProcessData *OnProcessDataCallback
	OnRunEnd      *OnRunEndCallback
}

// Engine runs a single fixed-parameter strategy over a historical price
// series. Each Run is independent and stateless; no state is shared
// between calls.
type Engine interface {
	// Run simulates the strategy against the price series and aggregates
	// the closed trades into summary statistics. The context can be used
	// to cancel a run between price steps.
	Run(ctx context.Context, prices []float64, params types.StrategyParams, callbacks LifecycleCallbacks) (types.BacktestResult, error)
}
