// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRecordRejectsNilDimensions(t *testing.T) {
	r := Record{Metrics: map[string]Metric{}}
	_, _, err := validateRecord(r)
	assert.ErrorIs(t, err, ErrNilDimensions)
}

func TestValidateRecordRejectsBadLabelName(t *testing.T) {
	r := Record{
		Dimensions: Dimensions{"bad-label!": "x"},
		Metrics:    map[string]Metric{},
	}
	_, _, err := validateRecord(r)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestValidateRecordAcceptsDottedMetricName(t *testing.T) {
	r := Record{
		Dimensions: Dimensions{"service": "web"},
		Metrics: map[string]Metric{
			"service.requests.count": {Type: SampleCounter, Values: []Quantity{Q(1)}},
		},
	}
	metrics, dropped, err := validateRecord(r)
	require.NoError(t, err)
	assert.Equal(t, 0, dropped)
	assert.Contains(t, metrics, "service.requests.count")
}

func TestValidateRecordDropsOnlyNonFiniteSamples(t *testing.T) {
	r := Record{
		Dimensions: Dimensions{"service": "web"},
		Metrics: map[string]Metric{
			"requests": {Type: SampleCounter, Values: []Quantity{Q(5)}},
			"latency":  {Type: SampleGauge, Values: []Quantity{Q(math.NaN())}},
		},
	}
	metrics, dropped, err := validateRecord(r)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Contains(t, metrics, "requests")
	assert.NotContains(t, metrics, "latency")
}

func TestValidateRecordDropsOnlyBadValuesWithinAMetric(t *testing.T) {
	r := Record{
		Dimensions: Dimensions{"service": "web"},
		Metrics: map[string]Metric{
			"latency": {Type: SampleTimer, Values: []Quantity{Q(1), Q(math.Inf(1)), Q(2)}},
		},
	}
	metrics, dropped, err := validateRecord(r)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	require.Contains(t, metrics, "latency")
	assert.Len(t, metrics["latency"].Values, 2)
}

func TestValidateRecordAcceptsWellFormed(t *testing.T) {
	r := Record{
		Dimensions: Dimensions{"service": "web", "region": "us_east"},
		Metrics: map[string]Metric{
			"request_latency": {Type: SampleTimer, Values: []Quantity{Q(1), Q(2)}},
		},
	}
	metrics, dropped, err := validateRecord(r)
	require.NoError(t, err)
	assert.Equal(t, 0, dropped)
	assert.Len(t, metrics, 1)
}
