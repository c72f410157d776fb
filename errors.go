// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import "errors"

// Error taxonomy. These are sentinel conditions surfaced as structured log
// events and drop counters; they never escape observe/record as panics.
var (
	// ErrIncompatibleUnit is returned by Unit.Convert when two units do not
	// belong to the same family.
	ErrIncompatibleUnit = errors.New("aggregator: incompatible unit")

	// ErrInconsistentUnit is raised when an accumulator that has already
	// observed a unit receives a sample in a different, non-convertible unit.
	ErrInconsistentUnit = errors.New("aggregator: inconsistent unit for metric")

	// ErrNonFinite marks a rejected non-finite (NaN/Inf) sample value.
	ErrNonFinite = errors.New("aggregator: non-finite quantity value")

	// ErrNilDimensions marks a record with a nil dimension map.
	ErrNilDimensions = errors.New("aggregator: record has nil dimensions")

	// ErrInvalidName marks a dimension key that does not conform to the
	// naming rules a routing key requires.
	ErrInvalidName = errors.New("aggregator: invalid dimension name")

	// ErrBucketClosed is returned by Bucket.Record/Close when the bucket has
	// already been closed; a bucket's Close is called exactly once.
	ErrBucketClosed = errors.New("aggregator: bucket already closed")

	// ErrLateRecord marks a record older than the configured lateness
	// horizon; it is dropped rather than creating a new bucket.
	ErrLateRecord = errors.New("aggregator: record beyond lateness horizon")

	// ErrMailboxFull marks a record dropped because a PeriodWorker's mailbox
	// was at capacity.
	ErrMailboxFull = errors.New("aggregator: worker mailbox full")

	// ErrShutdown is returned by observe after the Aggregator has begun
	// shutting down.
	ErrShutdown = errors.New("aggregator: aggregator is shutting down")

	// errNoPeriods is returned by Launch when Options has no configured
	// aggregation periods; it is an internal configuration error, not a
	// per-record condition, so it is unexported.
	errNoPeriods = errors.New("aggregator: no periods configured")
)
