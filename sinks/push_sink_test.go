// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sinks

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowstat/aggregator"
)

func TestNewPushSinkRejectsEmptyURL(t *testing.T) {
	_, err := NewPushSink(PushSinkOpts{})
	assert.Error(t, err)
}

func TestNewPushSinkBuildsJobInstancePath(t *testing.T) {
	sink, err := NewPushSink(PushSinkOpts{URL: "http://localhost:9091", Job: "aggregator", Instance: "node-1"})
	require.NoError(t, err)
	assert.Equal(t, "/metrics/job/aggregator/instance/node-1", sink.base.Path)
}

func TestPushSinkRecordPostsExpositionFormat(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink, err := NewPushSink(PushSinkOpts{URL: srv.URL, Job: "aggregator"})
	require.NoError(t, err)

	err = sink.Record(aggregator.PeriodicData{
		Key: aggregator.Key("service=web"),
		Data: []aggregator.AggregatedData{
			{MetricName: "requests", Statistic: "sum", Quantity: aggregator.Q(1)},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, gotContentType, "text/plain")
}

func TestPushSinkRecordReturnsErrorOnNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink, err := NewPushSink(PushSinkOpts{URL: srv.URL})
	require.NoError(t, err)

	err = sink.Record(aggregator.PeriodicData{Key: aggregator.Key("x")})
	assert.Error(t, err)
}
