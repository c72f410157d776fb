// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package schedule provides a lightweight scheduling primitive: a
// priority queue of pending deadlines that lets a PeriodWorker wake
// exactly when its earliest bucket is due to close, instead of polling
// blindly every tick.
//
// No library in the retrieval pack offers a generic priority queue for
// this; container/heap is the standard-library primitive for exactly this
// shape and is used here directly (see DESIGN.md).
package schedule

import (
	"container/heap"
	"time"
)

// Item is one pending deadline tracked by a Queue.
type Item[K comparable] struct {
	Key      K
	Deadline time.Time
	index    int
}

// Queue is a min-heap of Items ordered by Deadline, with O(log n)
// push/pop and O(1) peek-earliest.
type Queue[K comparable] struct {
	items []*Item[K]
	byKey map[K]*Item[K]
}

// New returns an empty Queue.
func New[K comparable]() *Queue[K] {
	return &Queue[K]{byKey: make(map[K]*Item[K])}
}

// Len returns the number of pending deadlines.
func (q *Queue[K]) Len() int { return len(q.items) }

// Push schedules key to fire at deadline. If key is already scheduled, its
// deadline is updated in place.
func (q *Queue[K]) Push(key K, deadline time.Time) {
	if it, ok := q.byKey[key]; ok {
		it.Deadline = deadline
		heap.Fix((*innerHeap[K])(q), it.index)
		return
	}
	it := &Item[K]{Key: key, Deadline: deadline}
	q.byKey[key] = it
	heap.Push((*innerHeap[K])(q), it)
}

// Remove cancels key's pending deadline, if any.
func (q *Queue[K]) Remove(key K) {
	it, ok := q.byKey[key]
	if !ok {
		return
	}
	heap.Remove((*innerHeap[K])(q), it.index)
	delete(q.byKey, key)
}

// PeekEarliest returns the soonest deadline without removing it.
func (q *Queue[K]) PeekEarliest() (K, time.Time, bool) {
	if len(q.items) == 0 {
		var zero K
		return zero, time.Time{}, false
	}
	it := q.items[0]
	return it.Key, it.Deadline, true
}

// PopDue removes and returns every key whose deadline is at or before now,
// in ascending deadline order.
func (q *Queue[K]) PopDue(now time.Time) []K {
	var due []K
	for len(q.items) > 0 && !q.items[0].Deadline.After(now) {
		it := heap.Pop((*innerHeap[K])(q)).(*Item[K])
		delete(q.byKey, it.Key)
		due = append(due, it.Key)
	}
	return due
}

// innerHeap adapts Queue to container/heap.Interface without exposing the
// heap methods on Queue's own public API.
type innerHeap[K comparable] Queue[K]

func (h *innerHeap[K]) Len() int { return len(h.items) }

func (h *innerHeap[K]) Less(i, j int) bool {
	return h.items[i].Deadline.Before(h.items[j].Deadline)
}

func (h *innerHeap[K]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

func (h *innerHeap[K]) Push(x any) {
	it := x.(*Item[K])
	it.index = len(h.items)
	h.items = append(h.items, it)
}

func (h *innerHeap[K]) Pop() any {
	old := h.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	h.items = old[:n-1]
	return it
}
