// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sinks provides aggregator.Sink implementations: a live
// prometheus.Collector, an HTTP push sink, and simple log/nop sinks for
// local development.
package sinks

import (
	"regexp"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flowstat/aggregator"
)

// invalidMetricChar matches anything not legal in a Prometheus metric
// name; sanitizeMetricName replaces runs of it with "_" since
// aggregator.Record places no such constraint on an ingested metric name.
var invalidMetricChar = regexp.MustCompile(`[^a-zA-Z0-9_:]+`)

// PrometheusSink republishes each PeriodWorker's latest PeriodicData as
// live Prometheus series. It implements both aggregator.Sink (the write
// side, called from PeriodWorker goroutines) and prometheus.Collector (the
// read side, called from the registry's scrape goroutine); the two sides
// communicate only through the guarded latest map, never directly.
type PrometheusSink struct {
	namespace string

	mu     sync.RWMutex
	latest map[seriesKey]seriesValue
}

type seriesKey struct {
	key       aggregator.Key
	metric    string
	statistic string
}

type seriesValue struct {
	desc    *prometheus.Desc
	value   float64
	isHist  bool
	buckets map[float64]uint64
	sum     float64
	count   uint64
}

// NewPrometheusSink constructs a sink whose metric names are prefixed with
// namespace (empty for no prefix).
func NewPrometheusSink(namespace string) *PrometheusSink {
	return &PrometheusSink{
		namespace: namespace,
		latest:    make(map[seriesKey]seriesValue),
	}
}

// Record implements aggregator.Sink. It is called concurrently by many
// PeriodWorker goroutines, so it only ever takes the write lock for the
// duration of a map update.
func (s *PrometheusSink) Record(data aggregator.PeriodicData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ad := range data.Data {
		k := seriesKey{key: data.Key, metric: ad.MetricName, statistic: ad.Statistic}
		name := s.metricName(ad.MetricName, ad.Statistic)
		desc := prometheus.NewDesc(name, "aggregated "+ad.Statistic+" of "+ad.MetricName, []string{"key"}, nil)

		if hist, ok := ad.SupportingData.(aggregator.HistogramSupportingData); ok {
			buckets := make(map[float64]uint64)
			var cumulative uint64
			for _, b := range hist.Snapshot.Buckets() {
				cumulative += uint64(b.Count)
				buckets[b.Key] = cumulative
			}
			s.latest[k] = seriesValue{
				desc:    desc,
				isHist:  true,
				buckets: buckets,
				sum:     ad.Quantity.Value,
				count:   uint64(hist.Snapshot.EntriesCount()),
			}
			continue
		}

		s.latest[k] = seriesValue{desc: desc, value: ad.Quantity.Value}
	}
	return nil
}

func (s *PrometheusSink) metricName(metric, statistic string) string {
	metric = sanitizeMetricName(metric)
	if s.namespace == "" {
		return metric + "_" + statistic
	}
	return s.namespace + "_" + metric + "_" + statistic
}

// sanitizeMetricName maps an arbitrary ingested metric name onto a legal
// Prometheus exposition name. A leading digit is prefixed with "_" since
// Prometheus names cannot start with one.
func sanitizeMetricName(name string) string {
	name = invalidMetricChar.ReplaceAllString(name, "_")
	if name == "" {
		return "_"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

// Describe implements prometheus.Collector. Because series are created
// dynamically per key, descriptions are emitted lazily via Collect rather
// than declared upfront; this sink is therefore an "unchecked" collector
// (the same tradeoff prometheus.NewDesc-per-scrape collectors make).
func (s *PrometheusSink) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector, emitting the most recently
// recorded value for every (key, metric, statistic) series seen so far.
func (s *PrometheusSink) Collect(ch chan<- prometheus.Metric) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.latest {
		if v.isHist {
			m, err := prometheus.NewConstHistogram(v.desc, v.count, v.sum, v.buckets, string(k.key))
			if err == nil {
				ch <- m
			}
			continue
		}
		m, err := prometheus.NewConstMetric(v.desc, prometheus.GaugeValue, v.value, string(k.key))
		if err == nil {
			ch <- m
		}
	}
}
