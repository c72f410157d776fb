// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sinks

import (
	"go.uber.org/zap"

	"github.com/flowstat/aggregator"
)

// LogSink writes each PeriodicData emission as a structured log line; it is
// meant for local development, not production volume.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wraps logger, defaulting to zap.NewNop if nil.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Record implements aggregator.Sink.
func (s *LogSink) Record(data aggregator.PeriodicData) error {
	fields := make([]zap.Field, 0, len(data.Data)+2)
	fields = append(fields,
		zap.String("key", string(data.Key)),
		zap.Time("period_start", data.PeriodStart),
	)
	for _, ad := range data.Data {
		fields = append(fields, zap.Float64(ad.MetricName+"."+ad.Statistic, ad.Quantity.Value))
	}
	s.logger.Info("periodic data", fields...)
	return nil
}

// NopSink discards every emission, like the no-op SinkFunc that
// aggregator.NewOptions installs when no Sink is configured.
type NopSink struct{}

// Record implements aggregator.Sink.
func (NopSink) Record(aggregator.PeriodicData) error { return nil }
