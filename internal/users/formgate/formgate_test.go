// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package formgate_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stories/internal/users/formgate"
)

/*
TestGate_SingleHolder verifies that exactly one of many concurrent callers wins.
*/
func TestGate_SingleHolder(t *testing.T) {
	var gate formgate.Gate
	var winners atomic.Int32
	var wg sync.WaitGroup

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if gate.TryAcquire() {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
	assert.True(t, gate.Busy())

	gate.Release()
	assert.False(t, gate.Busy())
	assert.True(t, gate.TryAcquire())
}

/*
TestRegistry_Lookup verifies id adoption and replacement.
*/
func TestRegistry_Lookup(t *testing.T) {
	registry := formgate.NewRegistry(time.Minute, 0, func() *formgate.Gate { return &formgate.Gate{} })

	// 1. Empty and malformed ids get a fresh UUID v7
	first, id := registry.Lookup("")
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	_, other := registry.Lookup("<script>")
	assert.NotEqual(t, "<script>", other)

	// 2. Known ids return the same instance
	again, sameID := registry.Lookup(id)
	assert.Same(t, first, again)
	assert.Equal(t, id, sameID)

	// 3. Unknown but well-formed ids are adopted
	adopted := formgate.NewID()
	_, gotID := registry.Lookup(adopted)
	assert.Equal(t, adopted, gotID)
	assert.Equal(t, 3, registry.Len())
}

/*
TestRegistry_Sweep verifies idle entries are removed unless busy.
*/
func TestRegistry_Sweep(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	registry := formgate.NewRegistry(15*time.Minute, 0, func() *formgate.Gate { return &formgate.Gate{} })
	registry.SetClock(func() time.Time { return now })

	idle, _ := registry.Lookup("")
	busy, _ := registry.Lookup("")
	require.True(t, busy.TryAcquire())
	_ = idle

	now = now.Add(10 * time.Minute)
	assert.Equal(t, 0, registry.Sweep())

	now = now.Add(10 * time.Minute)
	assert.Equal(t, 1, registry.Sweep())
	assert.Equal(t, 1, registry.Len())
}

/*
TestRegistry_MaxSize verifies the least recently used idle entry makes room and
busy entries are never evicted.
*/
func TestRegistry_MaxSize(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	registry := formgate.NewRegistry(15*time.Minute, 2, func() *formgate.Gate { return &formgate.Gate{} })
	registry.SetClock(func() time.Time { return now })

	oldest, oldestID := registry.Lookup("")
	now = now.Add(time.Second)
	_, newerID := registry.Lookup("")
	now = now.Add(time.Second)

	// 1. A third entry evicts the oldest idle one
	registry.Lookup("")
	assert.Equal(t, 2, registry.Len())
	assert.Equal(t, uint64(1), registry.Evictions())

	again, _ := registry.Lookup(oldestID)
	assert.NotSame(t, oldest, again, "evicted entry is recreated")
	assert.Equal(t, 2, registry.Len())

	// 2. Busy entries survive; the idle one goes instead
	now = now.Add(time.Second)
	require.True(t, again.TryAcquire())
	registry.Lookup(newerID)
	now = now.Add(time.Second)
	busyKept, _ := registry.Lookup(oldestID)
	assert.Same(t, again, busyKept)

	for range 1000 {
		registry.Lookup(formgate.NewID())
	}
	assert.LessOrEqual(t, registry.Len(), 2)
	stillThere, _ := registry.Lookup(oldestID)
	assert.Same(t, again, stillThere)
}
