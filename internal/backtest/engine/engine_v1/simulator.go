package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/backtest-api/internal/types"
)

// Simulator is the two-state trade machine: flat, or holding exactly one
// open trade. The open trade is owned by the simulator until it either
// closes (and moves to the closed list) or the series ends (and it is
// discarded).
type Simulator struct {
	params types.StrategyParams
	total  int

	open   *types.Trade
	closed []types.Trade
}

// NewSimulator creates a simulator for a series of total price points.
func NewSimulator(params types.StrategyParams, total int) *Simulator {
	return &Simulator{
		params: params,
		total:  total,
		open:   nil,
		closed: make([]types.Trade, 0),
	}
}

// Step processes the price at index i.
//
// While flat, a trade is opened at the strategy's entry price as long as
// at least one step remains after i; the opening step performs no exit
// check. While holding, the exit rule is evaluated: take-profit first,
// then stop-loss, so take-profit wins when both thresholds trigger on the
// same price. A closing step never opens a new trade.
func (s *Simulator) Step(i int, price float64) {
	if s.open == nil {
		if i < s.total-1 {
			s.open = &types.Trade{
				EntryTime:  i,
				EntryPrice: s.params.EntryPrice,
				TakeProfit: s.params.TakeProfit,
				StopLoss:   s.params.StopLoss,
				Direction:  s.params.Direction,
				Result:     types.TradeResultOpen,
			}
		}

		return
	}

	exitPrice, result, triggered := evaluateExit(price, s.open)
	if !triggered {
		return
	}

	s.open.ExitTime = i
	s.open.ExitPrice = exitPrice
	s.open.Result = result
	s.open.ProfitLoss = CalculateProfitLoss(s.open.EntryPrice, exitPrice, s.open.Direction)
	s.closed = append(s.closed, *s.open)
	s.open = nil
}

// ClosedTrades returns the trades closed so far, in exit order. A trade
// still open when the series ends never appears here.
func (s *Simulator) ClosedTrades() []types.Trade {
	return s.closed
}

// evaluateExit applies the direction-specific exit rule to the current price.
func evaluateExit(price float64, trade *types.Trade) (float64, types.TradeResult, bool) {
	if trade.Direction == types.TradeDirectionShort {
		if price <= trade.TakeProfit {
			return trade.TakeProfit, types.TradeResultTakeProfit, true
		}

		if price >= trade.StopLoss {
			return trade.StopLoss, types.TradeResultStopLoss, true
		}

		return 0, types.TradeResultOpen, false
	}

	if price >= trade.TakeProfit {
		return trade.TakeProfit, types.TradeResultTakeProfit, true
	}

	if price <= trade.StopLoss {
		return trade.StopLoss, types.TradeResultStopLoss, true
	}

	return 0, types.TradeResultOpen, false
}

// Simulate runs the full state machine over the price series and returns
// the closed trades in exit order. It is a pure function of its inputs.
func Simulate(prices []float64, params types.StrategyParams) []types.Trade {
	sim := NewSimulator(params, len(prices))
	for i, price := range prices {
		sim.Step(i, price)
	}

	return sim.ClosedTrades()
}

// CalculateProfitLoss calculates the percentage profit/loss for a trade
// using decimal arithmetic. A zero entry price yields zero rather than a
// division panic.
func CalculateProfitLoss(entryPrice float64, exitPrice float64, direction types.TradeDirection) float64 {
	entryDec := decimal.NewFromFloat(entryPrice)
	if entryDec.IsZero() {
		return 0
	}

	exitDec := decimal.NewFromFloat(exitPrice)

	var resultDec decimal.Decimal
	if direction == types.TradeDirectionShort {
		resultDec = entryDec.Sub(exitDec)
	} else {
		resultDec = exitDec.Sub(entryDec)
	}

	pct, _ := resultDec.Div(entryDec).Mul(decimal.NewFromInt(100)).Float64()

	return pct
}
