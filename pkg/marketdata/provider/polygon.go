package provider

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/backtest-api/pkg/errors"
)

// PolygonClient fetches historical aggregates from Polygon.io.
type PolygonClient struct {
	client *polygon.Client
}

var _ Provider = (*PolygonClient)(nil)

// NewPolygonClient creates a new Polygon provider. An API key is required.
func NewPolygonClient(apiKey string) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "polygon API key is required")
	}

	return &PolygonClient{
		client: polygon.New(apiKey),
	}, nil
}

// FetchCloses implements Provider using the Polygon aggregates iterator.
func (c *PolygonClient) FetchCloses(ctx context.Context, ticker string, start time.Time, end time.Time, interval Interval, onProgress OnFetchProgress) ([]float64, error) {
	timespan, err := convertIntervalToTimespan(interval)
	if err != nil {
		return nil, err
	}

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   timespan,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithLimit(50000)

	iter := c.client.ListAggs(ctx, params)
	closes := make([]float64, 0)

	for iter.Next() {
		agg := iter.Item()
		closes = append(closes, agg.Close)

		if onProgress != nil && len(closes)%1000 == 0 {
			elapsed := time.Time(agg.Timestamp).Sub(start)
			onProgress(elapsed.Hours(), end.Sub(start).Hours(), fmt.Sprintf("Fetching %s from Polygon", ticker))
		}
	}

	if iter.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "error iterating polygon aggregates", iter.Err())
	}

	return closes, nil
}

func convertIntervalToTimespan(interval Interval) (models.Timespan, error) {
	switch interval {
	case IntervalMinute:
		return models.Minute, nil
	case IntervalHour:
		return models.Hour, nil
	case IntervalDay:
		return models.Day, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval: %s", interval)
	}
}
