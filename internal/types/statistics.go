package types

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"
)

// Statistics summarizes the closed trades of a single backtest run.
// It is always recomputed from scratch; there is no incremental update.
type Statistics struct {
	// Count of all closed trades.
	TotalTrades int `json:"total_trades" yaml:"total_trades"`
	// Count of trades with positive profit/loss.
	WinningTrades int `json:"winning_trades" yaml:"winning_trades"`
	// Count of trades with zero or negative profit/loss.
	LosingTrades int `json:"losing_trades" yaml:"losing_trades"`
	// Win rate in percent.
	WinRate float64 `json:"win_rate" yaml:"win_rate"`
	// Mean profit/loss across all trades.
	AverageProfit float64 `json:"average_profit" yaml:"average_profit"`
	// Best single trade.
	MaxProfit float64 `json:"max_profit" yaml:"max_profit"`
	// Worst single trade.
	MaxLoss float64 `json:"max_loss" yaml:"max_loss"`
	// Gross wins over gross losses. +Inf when there are no losing trades.
	ProfitFactor float64 `json:"profit_factor" yaml:"profit_factor"`
	// Mean of winning trades, 0 when there are none.
	AverageWin float64 `json:"average_win" yaml:"average_win"`
	// Mean of losing trades, 0 when there are none.
	AverageLoss float64 `json:"average_loss" yaml:"average_loss"`
}

// MarshalJSON encodes the statistics with an infinite profit factor
// rendered as null, since JSON has no representation for +Inf. YAML
// output keeps the literal .inf and does not go through this path.
func (s Statistics) MarshalJSON() ([]byte, error) {
	type alias Statistics

	if math.IsInf(s.ProfitFactor, 0) {
		return json.Marshal(struct {
			alias
			ProfitFactor *float64 `json:"profit_factor"`
		}{alias: alias(s), ProfitFactor: nil})
	}

	return json.Marshal(alias(s))
}

// BacktestResult is the full outcome of one simulation run.
// Statistics is None exactly when no trade closed.
type BacktestResult struct {
	Trades     []Trade                    `json:"trades" yaml:"trades"`
	Statistics optional.Option[Statistics] `json:"statistics" yaml:"statistics"`
}

// MarshalYAML implements custom marshaling for BacktestResult. Option
// values have no native YAML form, so None is rendered as an explicit null.
func (r BacktestResult) MarshalYAML() (interface{}, error) {
	type result struct {
		Trades     []Trade     `yaml:"trades"`
		Statistics *Statistics `yaml:"statistics"`
	}

	out := result{Trades: r.Trades, Statistics: nil}
	if r.Statistics.IsSome() {
		stats := r.Statistics.Unwrap()
		out.Statistics = &stats
	}

	return out, nil
}

// WriteBacktestResult writes the result of a run to a YAML file.
func WriteBacktestResult(path string, result BacktestResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}
