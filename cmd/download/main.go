package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/backtest-api/internal/version"
	"github.com/rxtech-lab/backtest-api/pkg/marketdata"
	"github.com/rxtech-lab/backtest-api/pkg/marketdata/provider"
	"github.com/rxtech-lab/backtest-api/pkg/pricefile"
)

// downloadAction fetches historical closing prices from the chosen
// provider and stores them as a price file for the backtest command.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	ticker := cmd.String("ticker")
	startDate := cmd.Timestamp("start")
	endDate := cmd.Timestamp("end")
	providerFlag := cmd.String("provider")
	interval := cmd.String("interval")
	outputPath := cmd.String("output")

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", ticker)),
	)
	onProgress := provider.OnFetchProgress(func(current float64, total float64, _ string) {
		if total > 0 {
			bar.Set(int(current / total * 100))
		}
	})

	clientConfig := marketdata.ClientConfig{
		ProviderType:  marketdata.ProviderType(providerFlag),
		PolygonApiKey: os.Getenv("POLYGON_API_KEY"),
	}

	client, err := marketdata.NewClient(clientConfig, onProgress)
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	log.Printf("Fetching %s closes from %s to %s via %s...",
		ticker, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"), providerFlag)

	closes, err := client.FetchCloses(ctx, marketdata.FetchParams{
		Ticker:    ticker,
		StartDate: startDate,
		EndDate:   endDate,
		Interval:  provider.Interval(interval),
	})
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	bar.Finish()

	if err := pricefile.Write(outputPath, ticker, closes); err != nil {
		return err
	}

	log.Printf("Wrote %d closing prices to %s", len(closes), outputPath)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "download",
		Usage:   "Download historical closing prices into a price file",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ticker",
				Aliases:  []string{"t"},
				Usage:    "Ticker or trading pair symbol",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
				Required: true,
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "Market data provider: polygon or binance",
				Value: string(marketdata.ProviderBinance),
			},
			&cli.StringFlag{
				Name:  "interval",
				Usage: "Bar interval: minute, hour or day",
				Value: string(provider.IntervalDay),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Path of the price file to write",
				Value:   "prices.yaml",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("download failed: %v", err)
	}
}
