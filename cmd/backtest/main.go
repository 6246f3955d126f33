package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/backtest-api/internal/api"
	backtestEngine "github.com/rxtech-lab/backtest-api/internal/backtest/engine"
	engine "github.com/rxtech-lab/backtest-api/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/backtest-api/internal/logger"
	"github.com/rxtech-lab/backtest-api/internal/types"
	"github.com/rxtech-lab/backtest-api/internal/version"
	"github.com/rxtech-lab/backtest-api/pkg/pricefile"
)

// runAction executes one backtest against a stored price file and writes
// the result as YAML, either to --output or to stdout.
func runAction(ctx context.Context, cmd *cli.Command) error {
	file, err := pricefile.Read(cmd.String("prices"))
	if err != nil {
		return err
	}

	direction := types.TradeDirection(cmd.String("direction"))
	if direction != types.TradeDirectionLong && direction != types.TradeDirectionShort {
		return fmt.Errorf("direction must be either long or short, got %q", direction)
	}

	params := types.StrategyParams{
		EntryPrice: cmd.Float("entry"),
		TakeProfit: cmd.Float("take-profit"),
		StopLoss:   cmd.Float("stop-loss"),
		Direction:  direction,
	}

	l, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer l.Sync()

	backtester := engine.NewBacktestEngineV1(l)

	var bar *progressbar.ProgressBar

	onRunStart := backtestEngine.OnRunStartCallback(func(runID string, totalDataPoints int) error {
		log.Printf("Starting run %s over %d price points", runID, totalDataPoints)
		bar = progressbar.NewOptions(totalDataPoints,
			progressbar.OptionSetDescription(fmt.Sprintf("Backtesting %s", file.Symbol)),
			progressbar.OptionShowCount(),
		)

		return nil
	})
	onProcessData := backtestEngine.OnProcessDataCallback(func(current int, _ int) error {
		return bar.Set(current)
	})
	onRunEnd := backtestEngine.OnRunEndCallback(func(_ types.BacktestResult) {
		bar.Finish()
	})

	result, err := backtester.Run(ctx, file.Prices, params, backtestEngine.LifecycleCallbacks{
		OnRunStart:    &onRunStart,
		OnProcessData: &onProcessData,
		OnRunEnd:      &onRunEnd,
	})
	if err != nil {
		return err
	}

	if output := cmd.String("output"); output != "" {
		if err := types.WriteBacktestResult(output, result); err != nil {
			return err
		}

		log.Printf("Result written to %s", output)

		return nil
	}

	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	fmt.Print(string(data))

	return nil
}

// schemaAction prints the JSON schema of the HTTP request body so
// clients can validate payloads ahead of time.
func schemaAction(_ context.Context, _ *cli.Command) error {
	request := api.BacktestRequest{}

	schemaJSON, err := request.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schemaJSON)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Run a TP/SL strategy backtest against a stored price series",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a single backtest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "prices",
						Aliases:  []string{"p"},
						Usage:    "Path to the YAML price file",
						Required: true,
					},
					&cli.FloatFlag{
						Name:     "entry",
						Usage:    "Entry price for every trade",
						Required: true,
					},
					&cli.FloatFlag{
						Name:     "take-profit",
						Aliases:  []string{"tp"},
						Usage:    "Take-profit threshold",
						Required: true,
					},
					&cli.FloatFlag{
						Name:     "stop-loss",
						Aliases:  []string{"sl"},
						Usage:    "Stop-loss threshold",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "direction",
						Aliases: []string{"d"},
						Usage:   "Trade direction: long or short",
						Value:   string(types.TradeDirectionLong),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the result YAML to this path instead of stdout",
					},
				},
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the backtest request",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("backtest failed: %v", err)
	}
}
