// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"time"
)

// StatisticsResolver resolves the specified and dependent statistic sets
// for a metric name and sample type: pattern overrides win on first match,
// otherwise the type's configured default applies. Aggregator is the
// production implementation; tests may supply a literal function.
type StatisticsResolver interface {
	Resolve(metricName string, t SampleType) (specified, dependent []Statistic)
}

// MetricAggregationState is the per-metric accumulator state inside a
// Bucket. Invariant: for any specified statistic S with
// dependencies D, every d in D has an accumulator here, either as a
// specified or a dependent entry.
type MetricAggregationState struct {
	Type                 SampleType
	SpecifiedAccumulator map[Statistic]Accumulator
	DependentAccumulator map[Statistic]Accumulator
}

// Bucket accumulates one period's worth of data for one dimension-key and
// produces a PeriodicData at Close. A Bucket is mutated only on its
// owning PeriodWorker's goroutine and is never shared.
type Bucket struct {
	key         Key
	periodStart time.Time
	period      time.Duration
	resolver    StatisticsResolver
	metrics     map[string]*MetricAggregationState
	closed      bool
}

// NewBucket constructs an empty bucket for key at periodStart.
func NewBucket(key Key, periodStart time.Time, period time.Duration, resolver StatisticsResolver) *Bucket {
	return &Bucket{
		key:         key,
		periodStart: periodStart,
		period:      period,
		resolver:    resolver,
		metrics:     make(map[string]*MetricAggregationState),
	}
}

// PeriodStart returns the bucket's nominal start instant.
func (b *Bucket) PeriodStart() time.Time { return b.periodStart }

// Record ingests one metric's values, lazily materializing accumulators for
// every statistic (specified and dependent) that applies to metricName on
// first touch. It is idempotent per call: each quantity is fed to every
// accumulator exactly once.
func (b *Bucket) Record(metricName string, t SampleType, values []Quantity) error {
	if b.closed {
		return ErrBucketClosed
	}
	state, ok := b.metrics[metricName]
	if !ok {
		specified, dependent := b.resolver.Resolve(metricName, t)
		state = &MetricAggregationState{
			Type:                 t,
			SpecifiedAccumulator: make(map[Statistic]Accumulator, len(specified)),
			DependentAccumulator: make(map[Statistic]Accumulator, len(dependent)),
		}
		for _, s := range specified {
			state.SpecifiedAccumulator[s] = s.NewAccumulator()
		}
		for _, s := range dependent {
			if _, exists := state.SpecifiedAccumulator[s]; exists {
				continue
			}
			state.DependentAccumulator[s] = s.NewAccumulator()
		}
		b.metrics[metricName] = state
	}

	var errs Errs
	for _, q := range values {
		for _, acc := range state.SpecifiedAccumulator {
			errs.Add(acc.Accumulate(q))
		}
		for _, acc := range state.DependentAccumulator {
			errs.Add(acc.Accumulate(q))
		}
	}
	if errs.Errored() {
		return errs.Err
	}
	return nil
}

// Close finalizes the bucket, evaluating every metric's accumulators in
// dependency-topological order and emitting only the specified statistics.
// Close may be called exactly once; subsequent calls fail.
func (b *Bucket) Close() (PeriodicData, error) {
	if b.closed {
		return PeriodicData{}, ErrBucketClosed
	}
	b.closed = true

	var entries []AggregatedData
	for metricName, state := range b.metrics {
		all := make([]Statistic, 0, len(state.SpecifiedAccumulator)+len(state.DependentAccumulator))
		byStat := make(map[Statistic]Accumulator, cap(all))
		for s, acc := range state.SpecifiedAccumulator {
			all = append(all, s)
			byStat[s] = acc
		}
		for s, acc := range state.DependentAccumulator {
			all = append(all, s)
			byStat[s] = acc
		}

		ordered := topoOrder(all)
		calculators := make(map[Statistic]Calculator, len(ordered))
		results := make(map[Statistic]CalculatedValue, len(ordered))
		for _, s := range ordered {
			acc, ok := byStat[s]
			if !ok {
				// A dependency outside this bucket's own statistic set
				// (shouldn't happen given the bucket-construction
				// invariant, but Calculate still needs something).
				acc = s.NewAccumulator()
			}
			calculators[s] = acc
			results[s] = acc.Calculate(calculators)
		}

		for s := range state.SpecifiedAccumulator {
			entries = append(entries, AggregatedData{
				MetricName:     metricName,
				Statistic:      s.Name(),
				Quantity:       results[s].Value,
				SupportingData: results[s].Data,
			})
		}
	}

	return PeriodicData{
		Period:      b.period,
		PeriodStart: b.periodStart,
		Key:         b.key,
		Data:        entries,
	}, nil
}
