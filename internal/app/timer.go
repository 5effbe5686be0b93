package app

import (
	"sync"
	"time"
)

// timerCoordinator drives a single countdown for the current question. Each
// question gets a fresh generation token; the loop for a superseded token
// exits without calling back, so a pending tick for a just-replaced question
// can never touch the new question's timer.
//
// tick reports the seconds left after decrementing, or effective=false when
// the event was stale. When the countdown reaches zero, the coordinator halts
// its own scheduling before invoking timeout exactly once.
type timerCoordinator struct {
	interval time.Duration
	tick     func(questionID string) (remaining int, effective bool)
	timeout  func(questionID string)

	mu         sync.Mutex
	generation uint64
	stop       chan struct{}
}

func newTimerCoordinator(interval time.Duration, tick func(string) (int, bool), timeout func(string)) *timerCoordinator {
	if interval <= 0 {
		interval = time.Second
	}
	return &timerCoordinator{interval: interval, tick: tick, timeout: timeout}
}

// StartQuestion begins (or restarts) the countdown for questionID. Any loop
// for a previous question is released. A question that is already out of
// time fires the timeout asynchronously without scheduling a loop.
func (c *timerCoordinator) StartQuestion(questionID string, remaining int) {
	c.mu.Lock()
	c.haltLocked()
	c.generation++
	if remaining <= 0 {
		c.mu.Unlock()
		go c.timeout(questionID)
		return
	}
	stop := make(chan struct{})
	c.stop = stop
	gen := c.generation
	c.mu.Unlock()

	go c.run(gen, questionID, stop)
}

// Stop releases the scheduled loop. Safe to call on every exit path.
func (c *timerCoordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.haltLocked()
	c.generation++
}

func (c *timerCoordinator) haltLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// halt stops scheduling only if gen is still the active generation. Returns
// whether this caller won the race and may fire the timeout.
func (c *timerCoordinator) halt(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	c.haltLocked()
	return true
}

func (c *timerCoordinator) active(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.generation
}

func (c *timerCoordinator) run(gen uint64, questionID string, stop chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !c.active(gen) {
				return
			}
			remaining, effective := c.tick(questionID)
			if !effective {
				// The question moved on underneath us; stop quietly.
				c.halt(gen)
				return
			}
			if remaining <= 0 {
				if c.halt(gen) {
					c.timeout(questionID)
				}
				return
			}
		}
	}
}
