// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/xid"
)

// SampleType selects which statistic set a Metric participates in.
// Named SampleType rather than MetricType to avoid colliding
// with the wire package's own metric-family typing.
type SampleType int32

const (
	SampleCounter SampleType = iota
	SampleGauge
	SampleTimer
)

func (t SampleType) String() string {
	switch t {
	case SampleCounter:
		return "counter"
	case SampleGauge:
		return "gauge"
	case SampleTimer:
		return "timer"
	default:
		return "unknown"
	}
}

// Metric is one named measurement within a Record: a type tag plus the
// ordered sequence of values observed for it at that instant.
type Metric struct {
	Type   SampleType
	Values []Quantity
}

// Dimensions is the dimension map carried by a Record; its content is the
// routing Key.
type Dimensions map[string]string

// Key is the hashable, comparable form of a Dimensions map used to route
// records to PeriodWorkers. Two Dimensions maps with the same content
// produce an equal Key.
type Key string

// KeyOf derives the routing Key for a dimension map. Pairs are sorted by
// name so that map iteration order never affects the result.
func KeyOf(d Dimensions) Key {
	if len(d) == 0 {
		return Key("")
	}
	names := make([]string, 0, len(d))
	for k := range d {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(d[name])
	}
	return Key(b.String())
}

// Record is one immutable unit of ingestion. Source adapters
// (TCP/HTTP listeners, wire-format parsers — out of scope for this module)
// construct Records and hand them to Aggregator.Observe.
type Record struct {
	ID          string
	Timestamp   time.Time
	Dimensions  Dimensions
	Metrics     map[string]Metric
	RequestTime time.Time
}

// NewRecord builds a Record with a freshly generated xid-derived ID and
// RequestTime set to the current time. A Record built as a struct literal
// carries whatever ID the caller sets, which may be empty.
func NewRecord(ts time.Time, dims Dimensions, metrics map[string]Metric) Record {
	return Record{
		ID:          xid.New().String(),
		Timestamp:   ts,
		Dimensions:  dims,
		Metrics:     metrics,
		RequestTime: time.Now(),
	}
}

// Key returns the routing key derived from the record's dimensions.
func (r Record) Key() Key {
	return KeyOf(r.Dimensions)
}
