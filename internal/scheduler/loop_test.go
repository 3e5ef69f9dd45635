package scheduler

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync/atomic"
	"testing"
	"time"
)

func runLoop(t *testing.T) (*Loop, context.CancelFunc) {
	loop := NewLoop(16)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = loop.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return loop, cancel
}

func TestLoop_CallRunsOnLoop(t *testing.T) {
	// GIVEN
	loop, _ := runLoop(t)
	value := 0

	// WHEN
	err := loop.Call(context.Background(), func() { value = 42 })

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestLoop_PostKeepsOrder(t *testing.T) {
	// GIVEN
	loop, _ := runLoop(t)
	var order []int

	// WHEN
	for i := 0; i < 5; i++ {
		i := i
		require.NoError(t, loop.Post(func() { order = append(order, i) }))
	}
	require.NoError(t, loop.Call(context.Background(), func() {}))

	// THEN
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestLoop_Schedule(t *testing.T) {
	// GIVEN
	loop, _ := runLoop(t)
	fired := make(chan struct{})

	// WHEN
	loop.Schedule(10*time.Millisecond, func() { close(fired) })

	// THEN
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled task did not run")
	}
}

func TestLoop_ScheduleCanceled(t *testing.T) {
	// GIVEN
	loop, _ := runLoop(t)
	var runs atomic.Int32
	handle := loop.Schedule(20*time.Millisecond, func() { runs.Add(1) })

	// WHEN
	handle.Cancel()
	handle.Cancel()
	time.Sleep(60 * time.Millisecond)

	// THEN
	assert.Equal(t, int32(0), runs.Load())
}

func TestLoop_Every(t *testing.T) {
	// GIVEN
	loop, _ := runLoop(t)
	var runs atomic.Int32
	handle := loop.Every(5*time.Millisecond, func() { runs.Add(1) })

	// WHEN
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, time.Millisecond)
	handle.Cancel()
	require.NoError(t, loop.Call(context.Background(), func() {}))
	after := runs.Load()
	time.Sleep(30 * time.Millisecond)

	// THEN
	assert.Equal(t, after, runs.Load())
}

func TestLoop_PostAfterStop(t *testing.T) {
	// GIVEN
	loop := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = loop.Run(ctx)

	// WHEN
	err := loop.Post(func() {})

	// THEN
	assert.ErrorIs(t, err, ErrLoopStopped)
}
