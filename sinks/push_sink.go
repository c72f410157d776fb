// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sinks

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/common/expfmt"

	"github.com/flowstat/aggregator"
	"github.com/flowstat/aggregator/wire"
)

// PushSink POSTs each PeriodicData emission to a Prometheus Pushgateway (or
// compatible) endpoint in the text exposition format, adapted from the
// teacher's one-shot Push function into a long-lived aggregator.Sink.
type PushSink struct {
	base     *url.URL
	job      string
	instance string
	client   *http.Client
	timeout  time.Duration
}

// PushSinkOpts configures a PushSink.
type PushSinkOpts struct {
	URL      string
	Job      string
	Instance string
	Client   *http.Client
	Timeout  time.Duration
}

// NewPushSink validates opts and builds the gateway URL once up front so
// Record itself never fails on a malformed URL.
func NewPushSink(opts PushSinkOpts) (*PushSink, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("sinks: push sink requires a URL")
	}
	base, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("sinks: parse push URL: %w", err)
	}

	path := strings.TrimSuffix(base.Path, "/")
	if opts.Job != "" {
		path += "/metrics/job/" + url.PathEscape(opts.Job)
	}
	if opts.Instance != "" {
		path += "/instance/" + url.PathEscape(opts.Instance)
	}
	if path == "" {
		path = "/"
	}
	base.Path = path

	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &PushSink{base: base, job: opts.Job, instance: opts.Instance, client: client, timeout: opts.Timeout}, nil
}

// Record implements aggregator.Sink by encoding data as one or more
// Prometheus MetricFamily messages and POSTing the text exposition format.
func (s *PushSink) Record(data aggregator.PeriodicData) error {
	families := wire.ToMetricFamilies(wire.FromPeriodicData(data))

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, f := range families {
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("sinks: encode metric family %s: %w", f.GetName(), err)
		}
	}

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base.String(), &buf)
	if err != nil {
		return fmt.Errorf("sinks: build push request: %w", err)
	}
	req.Header.Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sinks: push request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("sinks: push rejected with status %d", resp.StatusCode)
	}
	return nil
}
