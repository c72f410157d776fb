// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wire holds the PeriodicData wire shape and its conversion to the
// Prometheus client_model DTOs, modeling Prometheus's own wire types
// separately from the native aggregation types.
package wire

import (
	"strconv"
	"time"
)

// Value carries one aggregated statistic's wire-safe payload. Value always
// holds the statistic's own quantity; statistics backed by a histogram
// snapshot additionally populate Buckets and SampleCount. FromPeriodicData
// never sets SampleSum, and ToMetricFamilies uses Value as a histogram
// family's sample sum.
type Value struct {
	Value       float64
	Unit        int32
	SampleCount uint64
	SampleSum   float64
	Buckets     []Bucket
}

// Bucket is one cumulative histogram bucket.
type Bucket struct {
	UpperBound      float64
	CumulativeCount uint64
}

// AggregatedData is one (metric, statistic) wire record.
type AggregatedData struct {
	MetricName string
	Statistic  string
	Value      Value
}

// PeriodicData is the bespoke wire shape PeriodicData is marshaled into at
// the sink boundary. Field names are kept stable across versions since this
// is the one cross-process contract this module exposes.
type PeriodicData struct {
	Period      time.Duration
	PeriodStart time.Time
	Key         string
	Data        []AggregatedData
}

// GetPeriod returns m.Period, tolerating a nil receiver.
func (m *PeriodicData) GetPeriod() time.Duration {
	if m == nil {
		return 0
	}
	return m.Period
}

// GetKey returns m.Key, tolerating a nil receiver.
func (m *PeriodicData) GetKey() string {
	if m == nil {
		return ""
	}
	return m.Key
}

// Reset clears m in place for reuse.
func (m *PeriodicData) Reset() { *m = PeriodicData{} }

// String renders a short human-readable summary.
func (m *PeriodicData) String() string {
	if m == nil {
		return "<nil>"
	}
	return "wire.PeriodicData{key=" + m.Key + ", entries=" + strconv.Itoa(len(m.Data)) + "}"
}
