package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/rxtech-lab/backtest-api/pkg/errors"
)

// binancePageSize is the maximum number of klines Binance returns per request.
const binancePageSize = 500

// BinanceClient fetches historical klines from the public Binance API.
// No credentials are needed for historical data.
type BinanceClient struct {
	client *binance.Client
}

var _ Provider = (*BinanceClient)(nil)

// NewBinanceClient creates a new Binance provider.
func NewBinanceClient() (*BinanceClient, error) {
	return &BinanceClient{
		client: binance.NewClient("", ""),
	}, nil
}

// FetchCloses implements Provider. Binance caps each klines request at
// 500 rows, so the range is paginated using the close time of the last
// kline of each page.
func (c *BinanceClient) FetchCloses(ctx context.Context, ticker string, start time.Time, end time.Time, interval Interval, onProgress OnFetchProgress) ([]float64, error) {
	binanceInterval, err := convertIntervalToBinanceInterval(interval)
	if err != nil {
		return nil, err
	}

	startMillis := start.UnixMilli()
	endMillis := end.UnixMilli()
	currentStart := startMillis

	closes := make([]float64, 0)

	for {
		klines, err := c.client.NewKlinesService().
			Symbol(ticker).
			Interval(binanceInterval).
			StartTime(currentStart).
			EndTime(endMillis).
			Limit(binancePageSize).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to fetch klines from Binance", err)
		}

		for _, kline := range klines {
			closePrice, err := strconv.ParseFloat(kline.Close, 64)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse close price %q", kline.Close)
			}

			closes = append(closes, closePrice)
		}

		if onProgress != nil {
			onProgress(float64(currentStart-startMillis), float64(endMillis-startMillis), fmt.Sprintf("Fetching %s from Binance", ticker))
		}

		// Last page reached.
		if len(klines) < binancePageSize {
			break
		}

		currentStart = klines[len(klines)-1].CloseTime + 1
	}

	return closes, nil
}

func convertIntervalToBinanceInterval(interval Interval) (string, error) {
	switch interval {
	case IntervalMinute:
		return "1m", nil
	case IntervalHour:
		return "1h", nil
	case IntervalDay:
		return "1d", nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval: %s", interval)
	}
}
