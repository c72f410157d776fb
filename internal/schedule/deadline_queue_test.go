// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePeekEarliest(t *testing.T) {
	q := New[string]()
	base := time.Unix(1000, 0)
	q.Push("b", base.Add(5*time.Second))
	q.Push("a", base.Add(1*time.Second))
	q.Push("c", base.Add(10*time.Second))

	key, deadline, ok := q.PeekEarliest()
	require.True(t, ok)
	assert.Equal(t, "a", key)
	assert.Equal(t, base.Add(1*time.Second), deadline)
}

func TestQueuePopDueAscending(t *testing.T) {
	q := New[string]()
	base := time.Unix(1000, 0)
	q.Push("c", base.Add(3*time.Second))
	q.Push("a", base.Add(1*time.Second))
	q.Push("b", base.Add(2*time.Second))

	due := q.PopDue(base.Add(2 * time.Second))
	assert.Equal(t, []string{"a", "b"}, due)
	assert.Equal(t, 1, q.Len())
}

func TestQueuePushUpdatesExistingKey(t *testing.T) {
	q := New[string]()
	base := time.Unix(1000, 0)
	q.Push("a", base.Add(10*time.Second))
	q.Push("a", base.Add(1*time.Second))

	assert.Equal(t, 1, q.Len())
	_, deadline, _ := q.PeekEarliest()
	assert.Equal(t, base.Add(1*time.Second), deadline)
}

func TestQueueRemove(t *testing.T) {
	q := New[string]()
	base := time.Unix(1000, 0)
	q.Push("a", base)
	q.Push("b", base.Add(time.Second))
	q.Remove("a")

	assert.Equal(t, 1, q.Len())
	key, _, ok := q.PeekEarliest()
	require.True(t, ok)
	assert.Equal(t, "b", key)
}

func TestQueuePopDueEmptyWhenNothingDue(t *testing.T) {
	q := New[string]()
	q.Push("a", time.Unix(1000, 0))
	due := q.PopDue(time.Unix(500, 0))
	assert.Empty(t, due)
	assert.Equal(t, 1, q.Len())
}
