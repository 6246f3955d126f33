package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/backtest-api/internal/types"
)

func TestSimulate(t *testing.T) {
	tests := []struct {
		name     string
		prices   []float64
		params   types.StrategyParams
		expected []types.Trade
	}{
		{
			name:   "long take profit",
			prices: []float64{100, 100, 110, 90},
			params: types.StrategyParams{
				EntryPrice: 100,
				TakeProfit: 110,
				StopLoss:   90,
				Direction:  types.TradeDirectionLong,
			},
			expected: []types.Trade{
				{
					EntryTime:  0,
					ExitTime:   2,
					EntryPrice: 100,
					ExitPrice:  110,
					Result:     types.TradeResultTakeProfit,
					ProfitLoss: 10,
				},
			},
		},
		{
			name:   "long stop loss",
			prices: []float64{100, 100, 85},
			params: types.StrategyParams{
				EntryPrice: 100,
				TakeProfit: 110,
				StopLoss:   90,
				Direction:  types.TradeDirectionLong,
			},
			expected: []types.Trade{
				{
					EntryTime:  0,
					ExitTime:   2,
					EntryPrice: 100,
					ExitPrice:  90,
					Result:     types.TradeResultStopLoss,
					ProfitLoss: -10,
				},
			},
		},
		{
			name:   "open trade at series end is discarded",
			prices: []float64{50, 60},
			params: types.StrategyParams{
				EntryPrice: 50,
				TakeProfit: 100,
				StopLoss:   10,
				Direction:  types.TradeDirectionLong,
			},
			expected: []types.Trade{},
		},
		{
			name:   "short take profit on falling price",
			prices: []float64{100, 100, 90},
			params: types.StrategyParams{
				EntryPrice: 100,
				TakeProfit: 90,
				StopLoss:   110,
				Direction:  types.TradeDirectionShort,
			},
			expected: []types.Trade{
				{
					EntryTime:  0,
					ExitTime:   2,
					EntryPrice: 100,
					ExitPrice:  90,
					Result:     types.TradeResultTakeProfit,
					ProfitLoss: 10,
				},
			},
		},
		{
			name:   "short stop loss on rising price",
			prices: []float64{100, 100, 115},
			params: types.StrategyParams{
				EntryPrice: 100,
				TakeProfit: 90,
				StopLoss:   110,
				Direction:  types.TradeDirectionShort,
			},
			expected: []types.Trade{
				{
					EntryTime:  0,
					ExitTime:   2,
					EntryPrice: 100,
					ExitPrice:  110,
					Result:     types.TradeResultStopLoss,
					ProfitLoss: -10,
				},
			},
		},
		{
			name:   "take profit wins when both thresholds trigger",
			prices: []float64{100, 100, 100},
			params: types.StrategyParams{
				EntryPrice: 100,
				// Degenerate config: TP below SL, one price satisfies both.
				TakeProfit: 90,
				StopLoss:   110,
				Direction:  types.TradeDirectionLong,
			},
			expected: []types.Trade{
				{
					EntryTime:  0,
					ExitTime:   1,
					EntryPrice: 100,
					ExitPrice:  90,
					Result:     types.TradeResultTakeProfit,
					ProfitLoss: -10,
				},
			},
		},
		{
			name:   "multiple sequential trades",
			prices: []float64{100, 110, 100, 90, 100, 110},
			params: types.StrategyParams{
				EntryPrice: 100,
				TakeProfit: 110,
				StopLoss:   90,
				Direction:  types.TradeDirectionLong,
			},
			expected: []types.Trade{
				{
					EntryTime:  0,
					ExitTime:   1,
					EntryPrice: 100,
					ExitPrice:  110,
					Result:     types.TradeResultTakeProfit,
					ProfitLoss: 10,
				},
				{
					EntryTime:  2,
					ExitTime:   3,
					EntryPrice: 100,
					ExitPrice:  90,
					Result:     types.TradeResultStopLoss,
					ProfitLoss: -10,
				},
				{
					EntryTime:  4,
					ExitTime:   5,
					EntryPrice: 100,
					ExitPrice:  110,
					Result:     types.TradeResultTakeProfit,
					ProfitLoss: 10,
				},
			},
		},
		{
			name:   "no exit within series",
			prices: []float64{100, 101, 102, 103},
			params: types.StrategyParams{
				EntryPrice: 100,
				TakeProfit: 200,
				StopLoss:   50,
				Direction:  types.TradeDirectionLong,
			},
			expected: []types.Trade{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trades := Simulate(tt.prices, tt.params)

			require.Len(t, trades, len(tt.expected))

			for i, expected := range tt.expected {
				actual := trades[i]
				assert.Equal(t, expected.EntryTime, actual.EntryTime, "trade %d entry time", i)
				assert.Equal(t, expected.ExitTime, actual.ExitTime, "trade %d exit time", i)
				assert.Equal(t, expected.EntryPrice, actual.EntryPrice, "trade %d entry price", i)
				assert.Equal(t, expected.ExitPrice, actual.ExitPrice, "trade %d exit price", i)
				assert.Equal(t, expected.Result, actual.Result, "trade %d result", i)
				assert.InDelta(t, expected.ProfitLoss, actual.ProfitLoss, 1e-9, "trade %d profit/loss", i)
				assert.True(t, actual.IsClosed(), "trade %d should be closed", i)
			}
		})
	}
}

// The step that closes a trade must not open the next one; re-entry
// happens on the following index.
func TestSimulateNoReentryOnClosingStep(t *testing.T) {
	params := types.StrategyParams{
		EntryPrice: 100,
		TakeProfit: 110,
		StopLoss:   90,
		Direction:  types.TradeDirectionLong,
	}

	// Closes at index 1; index 2 re-opens; series ends with the second
	// trade still open, so only one trade is reported.
	trades := Simulate([]float64{100, 110, 100}, params)

	require.Len(t, trades, 1)
	assert.Equal(t, 0, trades[0].EntryTime)
	assert.Equal(t, 1, trades[0].ExitTime)
}

// The last index can never open a trade because no step would remain to
// close it.
func TestSimulateNoOpenOnLastIndex(t *testing.T) {
	params := types.StrategyParams{
		EntryPrice: 100,
		TakeProfit: 110,
		StopLoss:   90,
		Direction:  types.TradeDirectionLong,
	}

	sim := NewSimulator(params, 2)
	sim.Step(0, 100)
	sim.Step(1, 110)

	// Index 0 opened, index 1 closed it. Nothing re-opens at index 1.
	require.Len(t, sim.ClosedTrades(), 1)
}

func TestCalculateProfitLoss(t *testing.T) {
	tests := []struct {
		name       string
		entryPrice float64
		exitPrice  float64
		direction  types.TradeDirection
		expected   float64
	}{
		{name: "long gain", entryPrice: 100, exitPrice: 110, direction: types.TradeDirectionLong, expected: 10},
		{name: "long loss", entryPrice: 100, exitPrice: 90, direction: types.TradeDirectionLong, expected: -10},
		{name: "short gain", entryPrice: 100, exitPrice: 90, direction: types.TradeDirectionShort, expected: 10},
		{name: "short loss", entryPrice: 100, exitPrice: 110, direction: types.TradeDirectionShort, expected: -10},
		{name: "fractional entry", entryPrice: 80, exitPrice: 100, direction: types.TradeDirectionLong, expected: 25},
		{name: "zero entry yields zero", entryPrice: 0, exitPrice: 100, direction: types.TradeDirectionLong, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl := CalculateProfitLoss(tt.entryPrice, tt.exitPrice, tt.direction)
			assert.InDelta(t, tt.expected, pl, 1e-9)
		})
	}
}
