// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingSink struct {
	mu   sync.Mutex
	data []PeriodicData
}

func (s *capturingSink) Record(d PeriodicData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, d)
	return nil
}

func (s *capturingSink) all() []PeriodicData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PeriodicData(nil), s.data...)
}

func newTestWorker(sink Sink, period time.Duration) *PeriodWorker {
	return NewPeriodWorker(PeriodWorkerConfig{
		Key:      Key("svc=web"),
		Period:   period,
		Resolver: staticResolver{specified: []Statistic{StatSum}},
		Sink:     sink,
	})
}

func TestPeriodWorkerHandleRecordOpensBucket(t *testing.T) {
	w := newTestWorker(&capturingSink{}, time.Minute)
	now := time.Now().Truncate(time.Minute)
	w.handleRecord(Record{
		Timestamp: now,
		Metrics:   map[string]Metric{"requests": {Type: SampleCounter, Values: []Quantity{Q(1)}}},
	})
	assert.Equal(t, 1, w.buckets.Len())
}

func TestPeriodWorkerDropsRecordBeyondLatenessHorizon(t *testing.T) {
	sink := &capturingSink{}
	w := newTestWorker(sink, time.Minute)
	w.cfg.LatenessHorizon = time.Minute

	stale := time.Now().Add(-time.Hour).Truncate(time.Minute)
	w.handleRecord(Record{
		Timestamp: stale,
		Metrics:   map[string]Metric{"requests": {Type: SampleCounter, Values: []Quantity{Q(1)}}},
	})
	assert.Equal(t, 0, w.buckets.Len())
}

func TestPeriodWorkerCloseBucketEmitsToSink(t *testing.T) {
	sink := &capturingSink{}
	w := newTestWorker(sink, time.Minute)
	periodStart := time.Now().Truncate(time.Minute)
	w.handleRecord(Record{
		Timestamp: periodStart,
		Metrics:   map[string]Metric{"requests": {Type: SampleCounter, Values: []Quantity{Q(1), Q(2)}}},
	})
	w.closeBucket(periodStart.UnixNano())

	data := sink.all()
	require.Len(t, data, 1)
	assert.Equal(t, 3.0, findEntry(t, data[0], "requests", "sum").Quantity.Value)
	assert.Equal(t, 0, w.buckets.Len())
}

func TestPeriodWorkerRotatesAcrossPeriodBoundaries(t *testing.T) {
	sink := &capturingSink{}
	w := newTestWorker(sink, time.Minute)

	p1 := time.Now().Truncate(time.Minute)
	p2 := p1.Add(time.Minute)

	w.handleRecord(Record{Timestamp: p1, Metrics: map[string]Metric{
		"requests": {Type: SampleCounter, Values: []Quantity{Q(1)}},
	}})
	w.handleRecord(Record{Timestamp: p2, Metrics: map[string]Metric{
		"requests": {Type: SampleCounter, Values: []Quantity{Q(100)}},
	}})
	assert.Equal(t, 2, w.buckets.Len())

	w.closeBucket(p1.UnixNano())
	w.closeBucket(p2.UnixNano())

	data := sink.all()
	require.Len(t, data, 2)
	assert.Equal(t, 1.0, findEntry(t, data[0], "requests", "sum").Quantity.Value)
	assert.Equal(t, 100.0, findEntry(t, data[1], "requests", "sum").Quantity.Value)
}

func TestPeriodWorkerEnqueueFullMailboxReturnsError(t *testing.T) {
	w := NewPeriodWorker(PeriodWorkerConfig{
		Key:             Key(""),
		Period:          time.Minute,
		Resolver:        staticResolver{specified: []Statistic{StatSum}},
		Sink:            &capturingSink{},
		MailboxCapacity: 1,
	})
	rec := Record{Timestamp: time.Now(), Metrics: map[string]Metric{}}
	require.NoError(t, w.Enqueue(rec))
	assert.ErrorIs(t, w.Enqueue(rec), ErrMailboxFull)
}

func TestPeriodWorkerRunLifecycleClosesRemainingBucketsOnShutdown(t *testing.T) {
	sink := &capturingSink{}
	w := newTestWorker(sink, time.Hour)
	go w.Run()

	now := time.Now().Truncate(time.Hour)
	require.NoError(t, w.Enqueue(Record{
		Timestamp: now,
		Metrics:   map[string]Metric{"requests": {Type: SampleCounter, Values: []Quantity{Q(7)}}},
	}))

	// Give the goroutine a chance to drain the mailbox before shutdown.
	time.Sleep(20 * time.Millisecond)
	w.Shutdown()

	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("worker did not shut down in time")
	}

	data := sink.all()
	require.Len(t, data, 1)
	assert.Equal(t, 7.0, findEntry(t, data[0], "requests", "sum").Quantity.Value)
}
