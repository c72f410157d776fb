// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sinks

import "github.com/prometheus/client_golang/prometheus"

// PrometheusSelfObserver is the production aggregator.InternalStats
// implementation, backed by real Prometheus counters and gauges rather
// than aggregator.NopStats's no-ops.
type PrometheusSelfObserver struct {
	droppedLate        prometheus.Counter
	droppedInvalid     prometheus.Counter
	droppedMailboxFull prometheus.Counter
	sinkFailures       prometheus.Counter
	bucketsOpen        prometheus.Gauge
	workersActive      prometheus.Gauge
}

// NewPrometheusSelfObserver builds and registers the observer's metrics
// against reg. Passing a dedicated prometheus.Registry (rather than the
// default one) keeps self-observability metrics separate from any
// application metrics the process also exposes.
func NewPrometheusSelfObserver(reg prometheus.Registerer, namespace string) *PrometheusSelfObserver {
	o := &PrometheusSelfObserver{
		droppedLate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "dropped_late_total",
			Help: "Records dropped for arriving beyond the lateness horizon.",
		}),
		droppedInvalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "dropped_invalid_total",
			Help: "Records or samples dropped for failing validation.",
		}),
		droppedMailboxFull: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "dropped_mailbox_full_total",
			Help: "Records dropped because a worker's mailbox was saturated.",
		}),
		sinkFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "sink_failures_total",
			Help: "Sink.Record calls that returned an error.",
		}),
		bucketsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "buckets_open",
			Help: "Currently open (unclosed) aggregation buckets.",
		}),
		workersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "workers_active",
			Help: "Currently running PeriodWorker goroutines.",
		}),
	}
	reg.MustRegister(
		o.droppedLate, o.droppedInvalid, o.droppedMailboxFull,
		o.sinkFailures, o.bucketsOpen, o.workersActive,
	)
	return o
}

func (o *PrometheusSelfObserver) DroppedLate()        { o.droppedLate.Inc() }
func (o *PrometheusSelfObserver) DroppedInvalid()     { o.droppedInvalid.Inc() }
func (o *PrometheusSelfObserver) DroppedMailboxFull() { o.droppedMailboxFull.Inc() }
func (o *PrometheusSelfObserver) SinkFailure()        { o.sinkFailures.Inc() }
func (o *PrometheusSelfObserver) BucketOpened()       { o.bucketsOpen.Inc() }
func (o *PrometheusSelfObserver) BucketClosed()       { o.bucketsOpen.Dec() }
func (o *PrometheusSelfObserver) WorkerSpawned()      { o.workersActive.Inc() }
func (o *PrometheusSelfObserver) WorkerStopped()      { o.workersActive.Dec() }
