package scheduler

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

var start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestManual_Schedule(t *testing.T) {
	// GIVEN
	m := NewManual(start)
	runs := 0
	m.Schedule(10*time.Second, func() { runs++ })

	// WHEN
	m.Advance(9 * time.Second)

	// THEN
	assert.Equal(t, 0, runs)

	// WHEN
	m.Advance(1 * time.Second)

	// THEN
	assert.Equal(t, 1, runs)
	assert.Equal(t, 0, m.Pending())

	// WHEN
	m.Advance(1 * time.Hour)

	// THEN
	assert.Equal(t, 1, runs)
}

func TestManual_Every(t *testing.T) {
	// GIVEN
	m := NewManual(start)
	var times []time.Time
	m.Every(time.Second, func() { times = append(times, m.Now()) })

	// WHEN
	m.Advance(3500 * time.Millisecond)

	// THEN
	assert.Equal(t, []time.Time{
		start.Add(1 * time.Second),
		start.Add(2 * time.Second),
		start.Add(3 * time.Second),
	}, times)
	assert.Equal(t, start.Add(3500*time.Millisecond), m.Now())
}

func TestManual_CancelIsIdempotent(t *testing.T) {
	// GIVEN
	m := NewManual(start)
	runs := 0
	handle := m.Schedule(time.Second, func() { runs++ })

	// WHEN
	handle.Cancel()
	handle.Cancel()
	m.Advance(time.Minute)

	// THEN
	assert.Equal(t, 0, runs)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_CancelAfterFired(t *testing.T) {
	// GIVEN
	m := NewManual(start)
	runs := 0
	handle := m.Schedule(time.Second, func() { runs++ })
	m.Advance(time.Second)

	// WHEN
	handle.Cancel()

	// THEN
	assert.Equal(t, 1, runs)
}

func TestManual_OrderingOfSimultaneousTasks(t *testing.T) {
	// GIVEN
	m := NewManual(start)
	var order []string
	m.Every(time.Second, func() { order = append(order, "tick") })
	m.Schedule(time.Second, func() { order = append(order, "timeout") })

	// WHEN
	m.Advance(2 * time.Second)

	// THEN
	assert.Equal(t, []string{"tick", "timeout", "tick"}, order)
}

func TestManual_TaskCancelsOtherTask(t *testing.T) {
	// GIVEN
	m := NewManual(start)
	runs := 0
	var recurring CancelHandle
	recurring = m.Every(time.Second, func() { runs++ })
	m.Schedule(2500*time.Millisecond, func() { recurring.Cancel() })

	// WHEN
	m.Advance(10 * time.Second)

	// THEN
	assert.Equal(t, 2, runs)
}

func TestCancel_Nil(t *testing.T) {
	assert.NotPanics(t, func() {
		Cancel(nil)
	})
}
