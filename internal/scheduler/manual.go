package scheduler

import (
	"sort"
	"time"
)

// Manual is a deterministic Scheduler driven by Advance instead of wall clock time.
// It is not safe for concurrent use.
type Manual struct {
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	return m.now
}

func (m *Manual) Schedule(delay time.Duration, fn func()) CancelHandle {
	return m.add(delay, 0, fn)
}

func (m *Manual) Every(period time.Duration, fn func()) CancelHandle {
	return m.add(period, period, fn)
}

func (m *Manual) add(delay time.Duration, period time.Duration, fn func()) *manualTask {
	if delay < 0 {
		delay = 0
	}
	m.seq++
	task := &manualTask{
		due:    m.now.Add(delay),
		period: period,
		seq:    m.seq,
		fn:     fn,
	}
	m.tasks = append(m.tasks, task)
	return task
}

// Pending returns the number of tasks that are still scheduled
func (m *Manual) Pending() int {
	m.prune()
	return len(m.tasks)
}

// Advance moves the clock forward by d, running every task that becomes due
// in order of its due time. Tasks scheduled while advancing are run as well
// if they become due within d.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.next(target)
		if next == nil {
			break
		}
		m.now = next.due
		if next.period > 0 {
			next.due = next.due.Add(next.period)
			m.seq++
			next.seq = m.seq
		} else {
			next.canceled = true
		}
		next.fn()
	}
	m.now = target
	m.prune()
}

func (m *Manual) next(until time.Time) *manualTask {
	m.prune()
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due.Equal(m.tasks[j].due) {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].due.Before(m.tasks[j].due)
	})
	if len(m.tasks) <= 0 || m.tasks[0].due.After(until) {
		return nil
	}
	return m.tasks[0]
}

func (m *Manual) prune() {
	remaining := m.tasks[:0]
	for _, task := range m.tasks {
		if !task.canceled {
			remaining = append(remaining, task)
		}
	}
	m.tasks = remaining
}

type manualTask struct {
	due      time.Time
	period   time.Duration
	seq      uint64
	fn       func()
	canceled bool
}

func (t *manualTask) Cancel() {
	t.canceled = true
}
