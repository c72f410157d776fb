// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"regexp"
	"time"

	"go.uber.org/zap"
)

// PatternOverride binds a compiled regex to the statistic set that applies
// to any metric name it fully matches. Overrides are tried in configured
// order; the first match wins.
type PatternOverride struct {
	Pattern    *regexp.Regexp
	Statistics []Statistic
}

// Options configures an Aggregator. Configuration loading itself — files,
// env vars, service discovery — is an external collaborator out of this
// module's scope; callers populate Options directly or via NewOptions'
// functional setters.
type Options struct {
	Periods []time.Duration

	CounterStatistics []Statistic
	GaugeStatistics   []Statistic
	TimerStatistics   []Statistic

	PatternStatistics []PatternOverride

	LatenessHorizon time.Duration
	CloseDelay      time.Duration
	MailboxCapacity int

	// PatternCacheSize bounds the pattern-resolution memoization cache,
	// evicting least-recently-used entries once full.
	PatternCacheSize int

	Sink   Sink
	Stats  InternalStats
	Logger *zap.Logger
}

// Option mutates an Options value at construction time.
type Option func(*Options)

// WithPeriods sets the aggregation windows.
func WithPeriods(periods ...time.Duration) Option {
	return func(o *Options) { o.Periods = periods }
}

// WithCounterStatistics sets the default statistic set for COUNTER metrics.
func WithCounterStatistics(stats ...Statistic) Option {
	return func(o *Options) { o.CounterStatistics = stats }
}

// WithGaugeStatistics sets the default statistic set for GAUGE metrics.
func WithGaugeStatistics(stats ...Statistic) Option {
	return func(o *Options) { o.GaugeStatistics = stats }
}

// WithTimerStatistics sets the default statistic set for TIMER metrics.
func WithTimerStatistics(stats ...Statistic) Option {
	return func(o *Options) { o.TimerStatistics = stats }
}

// WithPatternStatistic appends one per-metric-name override, evaluated in
// the order appended (first match wins).
func WithPatternStatistic(pattern string, stats ...Statistic) Option {
	return func(o *Options) {
		re := regexp.MustCompile("^(?:" + pattern + ")$")
		o.PatternStatistics = append(o.PatternStatistics, PatternOverride{Pattern: re, Statistics: stats})
	}
}

// WithLatenessHorizon overrides the default of 2x the largest period.
func WithLatenessHorizon(d time.Duration) Option {
	return func(o *Options) { o.LatenessHorizon = d }
}

// WithCloseDelay overrides the default close delay (equal to the period).
func WithCloseDelay(d time.Duration) Option {
	return func(o *Options) { o.CloseDelay = d }
}

// WithMailboxCapacity overrides the default per-worker mailbox size (1024).
func WithMailboxCapacity(n int) Option {
	return func(o *Options) { o.MailboxCapacity = n }
}

// WithPatternCacheSize bounds the per-metric-name memoization cache.
func WithPatternCacheSize(n int) Option {
	return func(o *Options) { o.PatternCacheSize = n }
}

// WithSink sets the downstream Sink.
func WithSink(sink Sink) Option {
	return func(o *Options) { o.Sink = sink }
}

// WithStats sets the self-observability counters.
func WithStats(stats InternalStats) Option {
	return func(o *Options) { o.Stats = stats }
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// NewOptions builds Options with sensible defaults, applying opts in
// order.
func NewOptions(opts ...Option) Options {
	o := Options{
		CounterStatistics: []Statistic{StatCount, StatSum},
		GaugeStatistics:   []Statistic{StatMin, StatMax, StatMean},
		TimerStatistics:   []Statistic{StatMin, StatMax, StatMean, StatCount, mustBuiltin("tp99")},
		MailboxCapacity:   1024,
		PatternCacheSize:  10_000,
		Sink:              SinkFunc(func(PeriodicData) error { return nil }),
		Stats:             NopStats{},
		Logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.LatenessHorizon <= 0 {
		o.LatenessHorizon = 2 * maxDuration(o.Periods)
	}
	return o
}

func maxDuration(ds []time.Duration) time.Duration {
	var max time.Duration
	for _, d := range ds {
		if d > max {
			max = d
		}
	}
	return max
}

// mustBuiltin resolves a built-in statistic name, panicking if unknown;
// used only for defaults wired at init time where the name is a
// compile-time constant known to be valid.
func mustBuiltin(name string) Statistic {
	return defaultRegistry.MustLookup(name)
}
