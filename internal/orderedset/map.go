// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package orderedset provides a sorted-map/sorted-set supporting
// primitive: a map that keeps its keys in ascending order at a modest
// key cardinality, used by the Histogram (bucket key → count) and by
// PeriodWorker (period-start → Bucket).
package orderedset

import (
	"cmp"
	"sort"
)

// Map is an ordered associative container: lookups are O(log n), iteration
// is in ascending key order. It is not safe for concurrent use; every
// caller in this module owns its Map from a single goroutine.
type Map[K cmp.Ordered, V any] struct {
	keys   []K
	values map[K]V
}

// New returns an empty ordered map.
func New[K cmp.Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{values: make(map[K]V)}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return len(m.keys) }

// Get returns the value for key and whether it was present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set inserts or updates the value for key, keeping keys sorted.
func (m *Map[K, V]) Set(key K, value V) {
	if _, exists := m.values[key]; !exists {
		i := sort.Search(len(m.keys), func(i int) bool { return m.keys[i] >= key })
		m.keys = append(m.keys, key)
		copy(m.keys[i+1:], m.keys[i:])
		m.keys[i] = key
	}
	m.values[key] = value
}

// Delete removes key, if present.
func (m *Map[K, V]) Delete(key K) {
	if _, exists := m.values[key]; !exists {
		return
	}
	delete(m.values, key)
	i := sort.Search(len(m.keys), func(i int) bool { return m.keys[i] >= key })
	if i < len(m.keys) && m.keys[i] == key {
		m.keys = append(m.keys[:i], m.keys[i+1:]...)
	}
}

// Keys returns the keys in ascending order. The caller must not mutate the
// returned slice.
func (m *Map[K, V]) Keys() []K { return m.keys }

// Range calls fn for every entry in ascending key order, stopping early if
// fn returns false.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Clone returns a deep copy of the key ordering and a shallow copy of the
// value map (values themselves are not cloned).
func (m *Map[K, V]) Clone() *Map[K, V] {
	out := &Map[K, V]{
		keys:   make([]K, len(m.keys)),
		values: make(map[K]V, len(m.values)),
	}
	copy(out.keys, m.keys)
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}
