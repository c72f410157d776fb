// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"math"

	"github.com/flowstat/aggregator/internal/orderedset"
)

// truncationMask keeps the sign, the 11-bit exponent, and the top 7 bits of
// the 52-bit mantissa of an IEEE-754 double, zeroing the low 45 bits. This
// yields relative precision of about 1/128 (0.78%) and O(1) bucketing with
// no table lookup. The mask is part of the observable wire contract:
// downstream consumers merging snapshots across nodes must agree on it.
const truncationMask uint64 = 0xFFFFE00000000000

// truncate returns the bucket key that v falls into.
func truncate(v float64) float64 {
	bits := math.Float64bits(v)
	return math.Float64frombits(bits & truncationMask)
}

// HistogramSnapshot is an immutable, deep-copied view of a Histogram's
// bucket counts. Keys are ascending truncated bucket values,
// including negative ones.
type HistogramSnapshot struct {
	data         *orderedset.Map[float64, int32]
	entriesCount int32
}

// EntriesCount is the total number of recorded values represented by the
// snapshot.
func (s HistogramSnapshot) EntriesCount() int32 { return s.entriesCount }

// Buckets returns the (key, count) pairs in ascending key order, in a
// newly allocated slice that the caller may modify freely.
func (s HistogramSnapshot) Buckets() []HistogramBucket {
	if s.data == nil {
		return nil
	}
	out := make([]HistogramBucket, 0, s.data.Len())
	s.data.Range(func(key float64, count int32) bool {
		out = append(out, HistogramBucket{Key: key, Count: count})
		return true
	})
	return out
}

// HistogramBucket is one (truncated key, count) pair of a snapshot.
type HistogramBucket struct {
	Key   float64
	Count int32
}

// ValueAtPercentile computes a percentile read: with
// target = ceil(entriesCount * p / 100) clamped to entriesCount, it walks
// buckets ascending, accumulating counts, and returns the first bucket key
// whose running total reaches target. Percentile domain is (0, 100];
// an empty histogram returns 0.
func (s HistogramSnapshot) ValueAtPercentile(p float64) float64 {
	if s.data == nil || s.entriesCount == 0 {
		return 0
	}
	target := int32(math.Ceil(float64(s.entriesCount) * p / 100))
	if target > s.entriesCount {
		target = s.entriesCount
	}
	if target < 1 {
		target = 1
	}
	var running int32
	var result float64
	found := false
	s.data.Range(func(key float64, count int32) bool {
		running += count
		if !found && running >= target {
			result = key
			found = true
		}
		return !found
	})
	if !found {
		// Defensive: floating point rounding left target just above the
		// final running total. Fall back to the last (largest) bucket.
		keys := s.data.Keys()
		result = keys[len(keys)-1]
	}
	return result
}

// Histogram is a sparse, truncated-double bucketed distribution. It is
// owned by exactly one Accumulator and mutated only
// on that Accumulator's bucket's owning PeriodWorker goroutine.
type Histogram struct {
	data         *orderedset.Map[float64, int32]
	entriesCount int32
}

// NewHistogram returns an empty histogram.
func NewHistogram() *Histogram {
	return &Histogram{data: orderedset.New[float64, int32]()}
}

// RecordValue bins v, incrementing its truncated bucket by count.
func (h *Histogram) RecordValue(v float64, count int32) {
	key := truncate(v)
	existing, _ := h.data.Get(key)
	h.data.Set(key, existing+count)
	h.entriesCount += count
}

// Add merges another snapshot's buckets into h, key-wise, and sums the
// entry counts. Merging the empty snapshot is a no-op.
func (h *Histogram) Add(other HistogramSnapshot) {
	if other.data == nil {
		return
	}
	other.data.Range(func(key float64, count int32) bool {
		existing, _ := h.data.Get(key)
		h.data.Set(key, existing+count)
		return true
	})
	h.entriesCount += other.entriesCount
}

// Snapshot returns an immutable deep copy of the histogram's current state.
// Because record_value calls only ever add counts keyed by truncate(v), the
// result is invariant under permutation of the calls that produced it.
func (h *Histogram) Snapshot() HistogramSnapshot {
	return HistogramSnapshot{data: h.data.Clone(), entriesCount: h.entriesCount}
}
