// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"context"
	"regexp"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// patternMatch is the memoized result of resolving a metric name against
// the configured pattern overrides.
type patternMatch struct {
	matched    bool
	specified  []Statistic
	dependent  []Statistic
}

// Aggregator is the front-end that routes incoming records to per-key
// PeriodWorkers and resolves which statistics apply to which metric.
type Aggregator struct {
	opts Options

	specifiedByType map[SampleType][]Statistic
	dependentByType map[SampleType][]Statistic

	patternCache *lru.Cache[string, patternMatch]

	keyedWorkers sync.Map // Key -> []*PeriodWorker
	spawnGroup   singleflight.Group

	shuttingDown chan struct{}
	shutOnce     sync.Once
}

// NewAggregator constructs an Aggregator from opts. Call Launch before the
// first Observe; no PeriodWorker is actually started until its key's
// first record arrives.
func NewAggregator(opts Options) *Aggregator {
	if opts.Stats == nil {
		opts.Stats = NopStats{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Sink == nil {
		opts.Sink = SinkFunc(func(PeriodicData) error { return nil })
	}

	cache, err := lru.New[string, patternMatch](opts.PatternCacheSize)
	if err != nil {
		// Only possible if PatternCacheSize <= 0; fall back to a small
		// default rather than letting a misconfiguration panic at runtime.
		cache, _ = lru.New[string, patternMatch](1024)
	}

	a := &Aggregator{
		opts: opts,
		specifiedByType: map[SampleType][]Statistic{
			SampleCounter: opts.CounterStatistics,
			SampleGauge:   opts.GaugeStatistics,
			SampleTimer:   opts.TimerStatistics,
		},
		dependentByType: map[SampleType][]Statistic{
			SampleCounter: closure(opts.CounterStatistics),
			SampleGauge:   closure(opts.GaugeStatistics),
			SampleTimer:   closure(opts.TimerStatistics),
		},
		patternCache: cache,
		shuttingDown: make(chan struct{}),
	}
	return a
}

// Launch prepares the Aggregator for use. It does not start any worker
// eagerly; it exists as an explicit lifecycle step for symmetry with
// Shutdown and to let callers fail fast on bad Options.
func (a *Aggregator) Launch() error {
	if len(a.opts.Periods) == 0 {
		return errNoPeriods
	}
	return nil
}

// Observe routes record to the PeriodWorker set for its dimension key,
// spawning that set on first use. Validation is sample-level: a record
// with an unroutable key (nil or malformed dimensions) is rejected whole,
// but a record with some bad samples and some good ones only loses the
// bad samples — every finite, well-typed metric in it still gets
// ingested.
func (a *Aggregator) Observe(record Record) error {
	select {
	case <-a.shuttingDown:
		return ErrShutdown
	default:
	}

	metrics, dropped, err := validateRecord(record)
	if err != nil {
		a.opts.Stats.DroppedInvalid()
		a.opts.Logger.Warn("dropping invalid record", zap.Error(err))
		return err
	}
	for i := 0; i < dropped; i++ {
		a.opts.Stats.DroppedInvalid()
	}
	if dropped > 0 {
		a.opts.Logger.Warn("dropping invalid samples",
			zap.String("key", string(record.Key())),
			zap.Int("dropped", dropped),
		)
	}
	if len(metrics) == 0 {
		return nil
	}
	record.Metrics = metrics

	workers := a.getOrCreate(record.Key())
	for _, w := range workers {
		if err := w.Enqueue(record); err != nil {
			a.opts.Stats.DroppedMailboxFull()
			a.opts.Logger.Warn("dropping record: mailbox full",
				zap.String("key", string(record.Key())),
				zap.Duration("period", w.cfg.Period),
			)
		}
	}
	return nil
}

// getOrCreate returns the PeriodWorker set for key, spawning one worker
// per configured period atomically on first use. singleflight collapses
// concurrent first-observers of the same key into a single spawn.
func (a *Aggregator) getOrCreate(key Key) []*PeriodWorker {
	if v, ok := a.keyedWorkers.Load(key); ok {
		return v.([]*PeriodWorker)
	}

	v, _, _ := a.spawnGroup.Do(string(key), func() (any, error) {
		if existing, ok := a.keyedWorkers.Load(key); ok {
			return existing, nil
		}
		workers := make([]*PeriodWorker, 0, len(a.opts.Periods))
		for _, period := range a.opts.Periods {
			w := NewPeriodWorker(PeriodWorkerConfig{
				Key:             key,
				Period:          period,
				CloseDelay:      a.opts.CloseDelay,
				LatenessHorizon: a.opts.LatenessHorizon,
				MailboxCapacity: a.opts.MailboxCapacity,
				Resolver:        a,
				Sink:            a.opts.Sink,
				Stats:           a.opts.Stats,
				Logger:          a.opts.Logger,
			})
			workers = append(workers, w)
			a.opts.Stats.WorkerSpawned()
			go w.Run()
		}
		a.keyedWorkers.Store(key, workers)
		return workers, nil
	})
	return v.([]*PeriodWorker)
}

// Resolve implements StatisticsResolver for Bucket: pattern overrides win
// on first match (memoized per metric name); otherwise the sample type's
// configured defaults apply.
func (a *Aggregator) Resolve(metricName string, t SampleType) (specified, dependent []Statistic) {
	pm, ok := a.patternCache.Get(metricName)
	if !ok {
		pm = a.matchPattern(metricName)
		a.patternCache.Add(metricName, pm)
	}
	if pm.matched {
		return pm.specified, pm.dependent
	}
	return a.specifiedByType[t], a.dependentByType[t]
}

func (a *Aggregator) matchPattern(metricName string) patternMatch {
	for _, p := range a.opts.PatternStatistics {
		// Anchor the expression so an Options value populated directly
		// (not through WithPatternStatistic) still needs a full match.
		full := regexp.MustCompile("^(?:" + p.Pattern.String() + ")$")
		if full.MatchString(metricName) {
			return patternMatch{
				matched:   true,
				specified: p.Statistics,
				dependent: closure(p.Statistics),
			}
		}
	}
	return patternMatch{}
}

// Shutdown signals every PeriodWorker to close its remaining buckets and
// emit, waiting up to timeout before abandoning any stragglers.
func (a *Aggregator) Shutdown(timeout time.Duration) error {
	a.shutOnce.Do(func() { close(a.shuttingDown) })

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	g, _ := errgroup.WithContext(ctx)
	a.keyedWorkers.Range(func(_, v any) bool {
		for _, w := range v.([]*PeriodWorker) {
			w := w
			w.Shutdown()
			g.Go(func() error {
				select {
				case <-w.Done():
					a.opts.Stats.WorkerStopped()
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		}
		return true
	})
	return g.Wait()
}
