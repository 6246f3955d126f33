package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/backtest-api/internal/api"
	engine "github.com/rxtech-lab/backtest-api/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/backtest-api/internal/logger"
	"github.com/rxtech-lab/backtest-api/internal/version"
)

const shutdownTimeout = 10 * time.Second

// serveAction loads the configuration, builds the engine and serves the
// HTTP API until interrupted.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	config := api.EmptyConfig()

	if configPath := cmd.String("config"); configPath != "" {
		loaded, err := api.LoadConfig(configPath)
		if err != nil {
			return err
		}

		config = loaded
	}

	l, err := logger.NewLoggerWithLevel(config.LogLevel.TakeOr(api.DefaultLogLevel))
	if err != nil {
		return err
	}
	defer l.Sync()

	backtester := engine.NewBacktestEngineV1(l)
	server := api.NewServer(config, l, backtester)

	if err := server.Start(cmd.String("addr")); err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest-server",
		Usage:   "Serve the strategy backtest HTTP API",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML server configuration file",
			},
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address, overrides the configured value",
			},
		},
		Action: serveAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
