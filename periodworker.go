// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"time"

	"go.uber.org/zap"

	"github.com/flowstat/aggregator/internal/orderedset"
	"github.com/flowstat/aggregator/internal/schedule"
)

// PeriodWorkerConfig configures one PeriodWorker.
type PeriodWorkerConfig struct {
	Key             Key
	Period          time.Duration
	CloseDelay      time.Duration // default: Period
	LatenessHorizon time.Duration // default: 2 * Period
	MailboxCapacity int           // default: 1024
	Resolver        StatisticsResolver
	Sink            Sink
	Stats           InternalStats
	Logger          *zap.Logger
}

func (c *PeriodWorkerConfig) setDefaults() {
	if c.CloseDelay <= 0 {
		c.CloseDelay = c.Period
	}
	if c.LatenessHorizon <= 0 {
		c.LatenessHorizon = 2 * c.Period
	}
	if c.MailboxCapacity <= 0 {
		c.MailboxCapacity = 1024
	}
	if c.Stats == nil {
		c.Stats = NopStats{}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// PeriodWorker owns the timeline for one (key, period): it rotates buckets
// on period boundaries and emits PeriodicData to the sink. A PeriodWorker
// runs its own goroutine and must only be driven through Enqueue/Shutdown
// from other goroutines — its buckets map is not synchronized, by
// design: it is mutated only on its owning PeriodWorker goroutine.
type PeriodWorker struct {
	cfg       PeriodWorkerConfig
	buckets   *orderedset.Map[int64, *Bucket]
	deadlines *schedule.Queue[int64]
	mailbox   chan Record
	shutdownC chan struct{}
	doneC     chan struct{}
}

// NewPeriodWorker constructs a worker; call Run to start its goroutine.
func NewPeriodWorker(cfg PeriodWorkerConfig) *PeriodWorker {
	cfg.setDefaults()
	return &PeriodWorker{
		cfg:       cfg,
		buckets:   orderedset.New[int64, *Bucket](),
		deadlines: schedule.New[int64](),
		mailbox:   make(chan Record, cfg.MailboxCapacity),
		shutdownC: make(chan struct{}),
		doneC:     make(chan struct{}),
	}
}

// Enqueue attempts a non-blocking handoff of rec to the worker. It returns
// ErrMailboxFull without blocking when the mailbox is saturated.
func (w *PeriodWorker) Enqueue(rec Record) error {
	select {
	case w.mailbox <- rec:
		return nil
	default:
		return ErrMailboxFull
	}
}

// Shutdown requests the worker close every remaining bucket and stop. It
// does not block; wait on Done for completion.
func (w *PeriodWorker) Shutdown() {
	select {
	case <-w.shutdownC:
	default:
		close(w.shutdownC)
	}
}

// Done reports when the worker's goroutine has fully stopped.
func (w *PeriodWorker) Done() <-chan struct{} { return w.doneC }

// Run is the worker's main loop. It blocks until Shutdown is
// called and every remaining bucket has been closed and emitted; callers
// run it in its own goroutine.
func (w *PeriodWorker) Run() {
	defer close(w.doneC)

	timer := time.NewTimer(w.cfg.Period)
	defer timer.Stop()

	for {
		select {
		case rec := <-w.mailbox:
			w.handleRecord(rec)
		case now := <-timer.C:
			w.handleTick(now)
			w.rearm(timer)
		case <-w.shutdownC:
			w.drainMailbox()
			w.closeAll()
			return
		}
	}
}

// drainMailbox processes any records already queued before shutdown so a
// burst right before Shutdown isn't silently lost (best-effort: the
// mailbox is not guaranteed fully drained under adversarial concurrent
// Enqueue calls racing the shutdown signal).
func (w *PeriodWorker) drainMailbox() {
	for {
		select {
		case rec := <-w.mailbox:
			w.handleRecord(rec)
		default:
			return
		}
	}
}

func (w *PeriodWorker) handleRecord(rec Record) {
	now := time.Now()
	periodStart := rec.Timestamp.Truncate(w.cfg.Period)
	startKey := periodStart.UnixNano()

	bucket, exists := w.buckets.Get(startKey)
	if !exists {
		if now.Sub(periodStart) > w.cfg.LatenessHorizon {
			w.cfg.Stats.DroppedLate()
			w.cfg.Logger.Warn("dropping record beyond lateness horizon",
				zap.String("key", string(w.cfg.Key)),
				zap.Time("period_start", periodStart),
				zap.Duration("age", now.Sub(periodStart)),
			)
			return
		}
		bucket = NewBucket(w.cfg.Key, periodStart, w.cfg.Period, w.cfg.Resolver)
		w.buckets.Set(startKey, bucket)
		w.deadlines.Push(startKey, periodStart.Add(w.cfg.Period).Add(w.cfg.CloseDelay))
		w.cfg.Stats.BucketOpened()
	}

	for name, m := range rec.Metrics {
		if err := bucket.Record(name, m.Type, m.Values); err != nil {
			w.cfg.Stats.DroppedInvalid()
			w.cfg.Logger.Warn("dropping invalid sample",
				zap.String("key", string(w.cfg.Key)),
				zap.String("metric", name),
				zap.Error(err),
			)
		}
	}
}

// handleTick closes every bucket whose deadline (periodStart + period +
// closeDelay) has passed, in ascending periodStart order.
func (w *PeriodWorker) handleTick(now time.Time) {
	for _, startKey := range w.deadlines.PopDue(now) {
		w.closeBucket(startKey)
	}
}

func (w *PeriodWorker) closeBucket(startKey int64) {
	bucket, ok := w.buckets.Get(startKey)
	if !ok {
		return
	}
	w.buckets.Delete(startKey)
	w.cfg.Stats.BucketClosed()

	data, err := bucket.Close()
	if err != nil {
		w.cfg.Logger.Error("bucket close failed", zap.Error(err))
		return
	}
	if err := w.cfg.Sink.Record(data); err != nil {
		w.cfg.Stats.SinkFailure()
		w.cfg.Logger.Error("sink record failed",
			zap.String("key", string(w.cfg.Key)),
			zap.Time("period_start", data.PeriodStart),
			zap.Error(err),
		)
	}
}

// closeAll emits every remaining bucket in ascending periodStart order at
// shutdown.
func (w *PeriodWorker) closeAll() {
	for _, startKey := range append([]int64(nil), w.buckets.Keys()...) {
		w.closeBucket(startKey)
	}
}

// rearm resets timer to fire at the earliest pending deadline, or after one
// full period if no bucket is currently pending close. It runs only after a
// tick, so a bucket opened since then whose deadline is earlier than the
// armed one is closed at the next tick rather than at its own deadline.
func (w *PeriodWorker) rearm(timer *time.Timer) {
	if _, deadline, ok := w.deadlines.PeekEarliest(); ok {
		d := time.Until(deadline)
		if d < 0 {
			d = 0
		}
		timer.Reset(d)
		return
	}
	timer.Reset(w.cfg.Period)
}
