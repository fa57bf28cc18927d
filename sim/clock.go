// Package sim drives the particle simulation: a fixed-rate clock and the
// Stopped/Running state machine that ties ticking, drawing, and streak
// compositing together.
package sim

import (
	"time"
)

// DefaultTickRate is the nominal tick frequency in Hz.
const DefaultTickRate = 60

// TaskID identifies a scheduled task. It is a lookup key, not a reference
// to the task itself.
type TaskID uint64

// Clock fires registered tasks at a fixed rate. It does not own a goroutine;
// the host loop calls Advance once per frame and the clock fires however
// many ticks are due. All methods must be called from that one goroutine.
type Clock struct {
	src        TimeSource
	interval   time.Duration
	maxCatchUp int

	tasks  map[TaskID]func()
	order  []TaskID
	nextID TaskID

	paused bool
	last   time.Time
	acc    time.Duration
	ticks  uint64
}

// NewClock creates a paused clock firing every interval. maxCatchUp caps
// the ticks fired by one Advance after a stall; time beyond it is dropped.
func NewClock(src TimeSource, interval time.Duration, maxCatchUp int) *Clock {
	if interval <= 0 {
		interval = time.Second / DefaultTickRate
	}
	if maxCatchUp < 1 {
		maxCatchUp = 1
	}
	return &Clock{
		src:        src,
		interval:   interval,
		maxCatchUp: maxCatchUp,
		tasks:      make(map[TaskID]func()),
		paused:     true,
	}
}

// Schedule registers fn to run on every tick and returns its handle.
func (c *Clock) Schedule(fn func()) TaskID {
	c.nextID++
	id := c.nextID
	c.tasks[id] = fn
	c.order = append(c.order, id)
	return id
}

// Cancel removes a task. Cancelling an unknown or already cancelled task is
// a no-op.
func (c *Clock) Cancel(id TaskID) {
	if _, ok := c.tasks[id]; !ok {
		return
	}
	delete(c.tasks, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Scheduled reports whether id is still registered.
func (c *Clock) Scheduled(id TaskID) bool {
	_, ok := c.tasks[id]
	return ok
}

// Pause stops ticks from firing. Time spent paused is not caught up.
func (c *Clock) Pause() {
	c.paused = true
	c.acc = 0
}

// Resume restarts ticking from now.
func (c *Clock) Resume() {
	if !c.paused {
		return
	}
	c.paused = false
	c.last = c.src.Now()
	c.acc = 0
}

// Paused reports whether the clock is paused.
func (c *Clock) Paused() bool { return c.paused }

// Interval returns the tick interval.
func (c *Clock) Interval() time.Duration { return c.interval }

// Ticks returns the number of ticks fired so far.
func (c *Clock) Ticks() uint64 { return c.ticks }

// Advance fires every tick that has come due since the last call and
// returns how many fired.
func (c *Clock) Advance() int {
	if c.paused {
		return 0
	}
	now := c.src.Now()
	c.acc += now.Sub(c.last)
	c.last = now

	n := int(c.acc / c.interval)
	if n > c.maxCatchUp {
		n = c.maxCatchUp
		c.acc = 0
	} else {
		c.acc -= time.Duration(n) * c.interval
	}

	fired := 0
	for range n {
		// A task may pause the clock from inside a tick
		if c.paused {
			break
		}
		c.fire()
		fired++
	}
	return fired
}

// Step fires exactly one tick regardless of elapsed time. It does nothing
// while paused.
func (c *Clock) Step() bool {
	if c.paused {
		return false
	}
	c.fire()
	return true
}

func (c *Clock) fire() {
	c.ticks++
	// Iterate a snapshot; tasks may cancel themselves or others
	ids := append([]TaskID(nil), c.order...)
	for _, id := range ids {
		fn, ok := c.tasks[id]
		if !ok {
			continue
		}
		fn()
	}
}
