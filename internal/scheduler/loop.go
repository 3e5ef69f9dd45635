package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrLoopStopped = errors.New("event loop is not running")

// Loop is a single goroutine event loop. Posted functions and scheduled tasks
// are executed one at a time, in the order they are queued.
type Loop struct {
	queue chan func()
	done  chan struct{}

	stopOnce sync.Once
}

func NewLoop(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Loop{
		queue: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
}

// Run executes queued functions until ctx is done
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.queue:
			fn()
		}
	}
}

func (l *Loop) stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

// Post queues fn for execution on the loop. It blocks while the queue is full.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case <-l.done:
		return ErrLoopStopped
	case l.queue <- fn:
		return nil
	}
}

// Call executes fn on the loop and waits for it to finish
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	err := l.Post(func() {
		defer close(finished)
		fn()
	})
	if err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

func (l *Loop) Schedule(delay time.Duration, fn func()) CancelHandle {
	task := &loopTask{}
	task.timer = time.AfterFunc(delay, func() {
		_ = l.Post(func() {
			// the timer may have fired before Cancel was called, but the
			// task is only executed if it is still wanted
			if task.canceled.Load() {
				return
			}
			fn()
		})
	})
	return task
}

func (l *Loop) Every(period time.Duration, fn func()) CancelHandle {
	task := &loopTask{stop: make(chan struct{})}
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-task.stop:
				return
			case <-l.done:
				return
			case <-ticker.C:
				_ = l.Post(func() {
					if task.canceled.Load() {
						return
					}
					fn()
				})
			}
		}
	}()
	return task
}

type loopTask struct {
	canceled atomic.Bool
	timer    *time.Timer
	stop     chan struct{}
}

func (t *loopTask) Cancel() {
	if !t.canceled.CompareAndSwap(false, true) {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.stop != nil {
		close(t.stop)
	}
}
