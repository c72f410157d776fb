// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

// InternalStats is the self-observability surface the engine reports its
// own operational counters through. NopStats is used when a caller
// doesn't care to wire one; sinks.PrometheusSelfObserver
// (aggregator/sinks) is the production implementation backed by real
// Prometheus counters.
type InternalStats interface {
	DroppedLate()
	DroppedInvalid()
	DroppedMailboxFull()
	SinkFailure()
	BucketOpened()
	BucketClosed()
	WorkerSpawned()
	WorkerStopped()
}

// NopStats discards every observation.
type NopStats struct{}

func (NopStats) DroppedLate()        {}
func (NopStats) DroppedInvalid()     {}
func (NopStats) DroppedMailboxFull() {}
func (NopStats) SinkFailure()        {}
func (NopStats) BucketOpened()       {}
func (NopStats) BucketClosed()       {}
func (NopStats) WorkerSpawned()      {}
func (NopStats) WorkerStopped()      {}
