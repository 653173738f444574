package alarm

import (
	"container/heap"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// maxWait bounds a single timer wait. Timers follow the monotonic clock,
// which stops while the machine is suspended, so the loop re-checks wall
// time at least this often.
var maxWait = time.Minute

type entry struct {
	name   string
	at     time.Time
	period time.Duration
	index  int
}

type alarmQueue []*entry

func (q alarmQueue) Len() int { return len(q) }

func (q alarmQueue) Less(i, j int) bool {
	return q[i].at.Before(q[j].at)
}

func (q alarmQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *alarmQueue) Push(x any) {
	e := x.(*entry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *alarmQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

// Pending describes an alarm waiting to fire.
type Pending struct {
	Name   string
	At     time.Time
	Period time.Duration
}

// Engine runs every alarm on a single timer goroutine.
type Engine struct {
	mu      sync.Mutex
	queue   alarmQueue
	byName  map[string]*entry
	out     chan Fire
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64

	now func() time.Time
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(alarmQueue, 0),
		byName: make(map[string]*entry),
		out:    make(chan Fire, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		now:    time.Now,
	}
}

// C delivers fires. It is closed after Stop.
func (e *Engine) C() <-chan Fire {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.stopped = true
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Create schedules spec under name, replacing any pending alarm of that name.
func (e *Engine) Create(name string, spec Spec) error {
	if name == "" {
		return ErrEmptyName
	}
	if err := spec.validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	e.removeLocked(name)
	ent := &entry{
		name:   name,
		at:     spec.firstFire(e.wallNow()).Round(0),
		period: spec.Period,
	}
	heap.Push(&e.queue, ent)
	e.byName[name] = ent
	e.signalWakeup()
	return nil
}

// Clear cancels the alarm called name. Clearing an unknown name is a no-op.
func (e *Engine) Clear(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	if e.removeLocked(name) {
		e.signalWakeup()
	}
	return nil
}

// Get returns the pending alarm called name.
func (e *Engine) Get(name string) (Pending, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.byName[name]
	if !ok {
		return Pending{}, false
	}
	return Pending{Name: ent.name, At: ent.at, Period: ent.period}, true
}

// All returns every pending alarm ordered by name.
func (e *Engine) All() []Pending {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Pending, 0, len(e.byName))
	for _, ent := range e.byName {
		out = append(out, Pending{Name: ent.name, At: ent.at, Period: ent.period})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dropped counts fires discarded because the consumer fell behind.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) removeLocked(name string) bool {
	ent, ok := e.byName[name]
	if !ok {
		return false
	}
	heap.Remove(&e.queue, ent.index)
	delete(e.byName, name)
	return true
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
				stopTimer(timer)
				return
			}
		}

		wait := next.Sub(e.wallNow())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, min(wait, maxWait))

		select {
		case <-timer.C:
			for _, f := range e.popDue(e.wallNow()) {
				select {
				case e.out <- f:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

// wallNow drops the monotonic reading so comparisons use wall time.
func (e *Engine) wallNow() time.Time {
	return e.now().Round(0)
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return time.Time{}, false
	}
	return e.queue[0].at, true
}

// popDue removes due alarms and re-queues periodic ones. A periodic alarm
// that missed several periods fires once.
func (e *Engine) popDue(now time.Time) []Fire {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Fire
	for len(e.queue) > 0 {
		head := e.queue[0]
		if head.at.After(now) {
			break
		}
		out = append(out, Fire{Name: head.name, Scheduled: head.at})

		if head.period <= 0 {
			heap.Pop(&e.queue)
			delete(e.byName, head.name)
			continue
		}
		for !head.at.After(now) {
			head.at = head.at.Add(head.period)
		}
		heap.Fix(&e.queue, head.index)
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
