package engine

import (
	"math"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/backtest-api/internal/types"
)

// Aggregate folds the closed trades of a run into summary statistics.
// It returns None for an empty trade list so callers can distinguish
// "no trades" from "all-losing trades". A trade with zero profit/loss
// counts as losing.
func Aggregate(trades []types.Trade) optional.Option[types.Statistics] {
	if len(trades) == 0 {
		return optional.None[types.Statistics]()
	}

	var (
		winCount int
		winSum   float64
		lossSum  float64
		total    float64
	)

	maxProfit := trades[0].ProfitLoss
	maxLoss := trades[0].ProfitLoss

	for _, trade := range trades {
		pl := trade.ProfitLoss
		total += pl

		if pl > 0 {
			winCount++
			winSum += pl
		} else {
			lossSum += pl
		}

		maxProfit = math.Max(maxProfit, pl)
		maxLoss = math.Min(maxLoss, pl)
	}

	n := len(trades)
	lossCount := n - winCount

	// No losing trades means an infinite profit factor.
	profitFactor := math.Inf(1)
	if lossCount > 0 {
		profitFactor = math.Abs(winSum / lossSum)
	}

	averageWin := 0.0
	if winCount > 0 {
		averageWin = winSum / float64(winCount)
	}

	averageLoss := 0.0
	if lossCount > 0 {
		averageLoss = lossSum / float64(lossCount)
	}

	return optional.Some(types.Statistics{
		TotalTrades:   n,
		WinningTrades: winCount,
		LosingTrades:  lossCount,
		WinRate:       float64(winCount) / float64(n) * 100,
		AverageProfit: total / float64(n),
		MaxProfit:     maxProfit,
		MaxLoss:       maxLoss,
		ProfitFactor:  profitFactor,
		AverageWin:    averageWin,
		AverageLoss:   averageLoss,
	})
}
