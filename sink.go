// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import "time"

// AggregatedData is one (metric, statistic) result within a PeriodicData
// emission.
type AggregatedData struct {
	MetricName     string
	Statistic      string
	Quantity       Quantity
	SupportingData any
}

// PeriodicData is the unit the aggregation core emits to a Sink at bucket
// close.
type PeriodicData struct {
	Period      time.Duration
	PeriodStart time.Time
	Key         Key
	Data        []AggregatedData
}

// Sink is the emission contract. Implementations MUST be safe for
// concurrent invocation — multiple PeriodWorkers call Record
// independently and emissions may interleave arbitrarily — and MUST NOT
// block indefinitely; a slow downstream transport needs its own
// buffering. Record failures are logged and swallowed by the caller,
// never retried (at-most-once to the sink).
type Sink interface {
	Record(PeriodicData) error
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(PeriodicData) error

// Record calls f(data).
func (f SinkFunc) Record(data PeriodicData) error { return f(data) }
