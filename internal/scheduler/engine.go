// Package scheduler fires start-of-task alerts: when a planted task's
// start time arrives, an alert is emitted for the UI to toast. Alerts are
// held in a min-heap on trigger time and delivered through a non-blocking
// channel.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrInvalidStartTime = errors.New("scheduler: invalid start time")

// StartAlert announces that a task's planted start time has arrived.
type StartAlert struct {
	TaskID  string
	Title   string
	StartAt time.Time
}

type queueItem struct {
	alert StartAlert
}

type alertQueue []queueItem

func (q alertQueue) Len() int { return len(q) }

func (q alertQueue) Less(i, j int) bool {
	return q[i].alert.StartAt.Before(q[j].alert.StartAt)
}

func (q alertQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *alertQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *alertQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Engine delivers StartAlerts at their trigger time. Alerts for a task can
// be cancelled while queued, which covers tasks dragged to a new time: the
// caller cancels and reschedules.
type Engine struct {
	mu      sync.Mutex
	queue   alertQueue
	out     chan StartAlert
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(alertQueue, 0),
		out:    make(chan StartAlert, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan StartAlert {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Schedule(a StartAlert) error {
	if a.StartAt.IsZero() {
		return ErrInvalidStartTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return errors.New("scheduler: engine stopped")
	}

	heap.Push(&e.queue, queueItem{alert: a})
	e.signalWakeup()
	return nil
}

// Cancel removes every queued alert for the task. Rescheduling a moved
// task is Cancel followed by Schedule.
func (e *Engine) Cancel(taskID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	kept := e.queue[:0]
	for _, it := range e.queue {
		if it.alert.TaskID != taskID {
			kept = append(kept, it)
		}
	}
	e.queue = kept
	heap.Init(&e.queue)
	e.signalWakeup()
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.StartAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now().UTC())
			for _, a := range due {
				select {
				case e.out <- a:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (StartAlert, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return StartAlert{}, false
	}
	return e.queue[0].alert, true
}

func (e *Engine) popDue(now time.Time) []StartAlert {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]StartAlert, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].alert
		if next.StartAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		out = append(out, item.alert)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
