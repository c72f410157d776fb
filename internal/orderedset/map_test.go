// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orderedset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapSetGetDelete(t *testing.T) {
	m := New[int, string]()
	m.Set(3, "three")
	m.Set(1, "one")
	m.Set(2, "two")

	v, ok := m.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	assert.Equal(t, []int{1, 2, 3}, m.Keys())

	m.Delete(2)
	_, ok = m.Get(2)
	assert.False(t, ok)
	assert.Equal(t, []int{1, 3}, m.Keys())
	assert.Equal(t, 2, m.Len())
}

func TestMapSetOverwriteKeepsOrder(t *testing.T) {
	m := New[int, string]()
	m.Set(1, "a")
	m.Set(2, "b")
	m.Set(1, "updated")

	assert.Equal(t, []int{1, 2}, m.Keys())
	v, _ := m.Get(1)
	assert.Equal(t, "updated", v)
}

func TestMapRangeAscending(t *testing.T) {
	m := New[int, int]()
	for _, k := range []int{5, 3, 4, 1, 2} {
		m.Set(k, k*10)
	}
	var seen []int
	m.Range(func(key int, value int) bool {
		seen = append(seen, key)
		return true
	})
	assert.Equal(t, []int{1, 2, 3, 4, 5}, seen)
}

func TestMapRangeStopsEarly(t *testing.T) {
	m := New[int, int]()
	m.Set(1, 1)
	m.Set(2, 2)
	m.Set(3, 3)
	var seen []int
	m.Range(func(key int, value int) bool {
		seen = append(seen, key)
		return key < 2
	})
	assert.Equal(t, []int{1, 2}, seen)
}

func TestMapClone(t *testing.T) {
	m := New[int, string]()
	m.Set(1, "a")
	clone := m.Clone()
	clone.Set(2, "b")

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, clone.Len())
	assert.Equal(t, []int{1}, m.Keys())
}
