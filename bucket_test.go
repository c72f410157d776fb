// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticResolver struct {
	specified []Statistic
}

func (r staticResolver) Resolve(string, SampleType) (specified, dependent []Statistic) {
	return r.specified, closure(r.specified)
}

func findEntry(t *testing.T, data PeriodicData, metric, stat string) AggregatedData {
	t.Helper()
	for _, e := range data.Data {
		if e.MetricName == metric && e.Statistic == stat {
			return e
		}
	}
	t.Fatalf("no entry for %s.%s", metric, stat)
	return AggregatedData{}
}

func TestBucketRecordAndCloseEmitsOnlySpecified(t *testing.T) {
	resolver := staticResolver{specified: []Statistic{StatMean, StatMax}}
	b := NewBucket(Key("svc=web"), time.Unix(0, 0), time.Minute, resolver)

	require.NoError(t, b.Record("latency", SampleTimer, []Quantity{Q(1), Q(2), Q(3)}))

	data, err := b.Close()
	require.NoError(t, err)
	assert.Len(t, data.Data, 2)

	mean := findEntry(t, data, "latency", "mean")
	assert.Equal(t, 2.0, mean.Quantity.Value)

	max := findEntry(t, data, "latency", "max")
	assert.Equal(t, 3.0, max.Quantity.Value)
}

func TestBucketRecordAfterCloseFails(t *testing.T) {
	resolver := staticResolver{specified: []Statistic{StatSum}}
	b := NewBucket(Key(""), time.Unix(0, 0), time.Minute, resolver)
	_, err := b.Close()
	require.NoError(t, err)

	err = b.Record("requests", SampleCounter, []Quantity{Q(1)})
	assert.ErrorIs(t, err, ErrBucketClosed)

	_, err = b.Close()
	assert.ErrorIs(t, err, ErrBucketClosed)
}

func TestBucketMaxScenario(t *testing.T) {
	resolver := staticResolver{specified: []Statistic{StatMax}}
	b := NewBucket(Key("svc=api"), time.Unix(0, 0), time.Second, resolver)
	require.NoError(t, b.Record("cpu", SampleGauge, []Quantity{Q(10), Q(90), Q(42)}))

	data, err := b.Close()
	require.NoError(t, err)
	max := findEntry(t, data, "cpu", "max")
	assert.Equal(t, 90.0, max.Quantity.Value)
}

func TestBucketPercentileViaHistogramScenario(t *testing.T) {
	resolver := staticResolver{specified: []Statistic{defaultRegistry.MustLookup("tp99")}}
	b := NewBucket(Key("svc=api"), time.Unix(0, 0), time.Second, resolver)

	values := make([]Quantity, 0, 100)
	for i := 1; i <= 100; i++ {
		values = append(values, Q(float64(i)))
	}
	require.NoError(t, b.Record("latency", SampleTimer, values))

	data, err := b.Close()
	require.NoError(t, err)
	p99 := findEntry(t, data, "latency", "tp99")
	assert.InDelta(t, truncate(99), p99.Quantity.Value, 1e-9)
}

func TestBucketPerMetricIsolation(t *testing.T) {
	resolver := staticResolver{specified: []Statistic{StatSum}}
	b := NewBucket(Key(""), time.Unix(0, 0), time.Second, resolver)
	require.NoError(t, b.Record("a", SampleCounter, []Quantity{Q(1)}))
	require.NoError(t, b.Record("b", SampleCounter, []Quantity{Q(100)}))

	data, err := b.Close()
	require.NoError(t, err)
	assert.Equal(t, 1.0, findEntry(t, data, "a", "sum").Quantity.Value)
	assert.Equal(t, 100.0, findEntry(t, data, "b", "sum").Quantity.Value)
}
