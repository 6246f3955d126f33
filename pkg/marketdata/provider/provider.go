package provider

import (
	"context"
	"time"
)

// OnFetchProgress reports progress of a historical fetch. current and
// total are in provider-specific units (elapsed time or row counts).
type OnFetchProgress func(current float64, total float64, message string)

// Interval is the bar interval used when fetching historical closes.
type Interval string

const (
	IntervalMinute Interval = "minute"
	IntervalHour   Interval = "hour"
	IntervalDay    Interval = "day"
)

// Provider fetches historical closing prices from a market data vendor.
type Provider interface {
	// FetchCloses returns the closing prices for ticker between start and
	// end at the given interval, oldest first. onProgress may be nil.
	FetchCloses(ctx context.Context, ticker string, start time.Time, end time.Time, interval Interval, onProgress OnFetchProgress) ([]float64, error)
}
