package app

import (
	"sync"
	"testing"
	"time"
)

// countdown is a test double for the engine's tick entry point.
type countdown struct {
	mu        sync.Mutex
	remaining map[string]int
	ticks     map[string]int
	timeouts  map[string]int
}

func newCountdown(remaining map[string]int) *countdown {
	return &countdown{
		remaining: remaining,
		ticks:     make(map[string]int),
		timeouts:  make(map[string]int),
	}
}

func (c *countdown) tick(questionID string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	left, ok := c.remaining[questionID]
	if !ok || left <= 0 {
		return 0, false
	}
	c.remaining[questionID] = left - 1
	c.ticks[questionID]++
	return left - 1, true
}

func (c *countdown) timeout(questionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeouts[questionID]++
}

func (c *countdown) timeoutCount(questionID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeouts[questionID]
}

func (c *countdown) tickCount(questionID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks[questionID]
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestCoordinatorCountsDownAndFiresTimeoutOnce(t *testing.T) {
	cd := newCountdown(map[string]int{"q1": 3})
	coord := newTimerCoordinator(5*time.Millisecond, cd.tick, cd.timeout)

	coord.StartQuestion("q1", 3)
	waitFor(t, time.Second, func() bool { return cd.timeoutCount("q1") > 0 })

	// Give any stray loop time to misbehave before asserting exactly-once.
	time.Sleep(30 * time.Millisecond)
	if got := cd.timeoutCount("q1"); got != 1 {
		t.Fatalf("expected exactly one timeout, got %d", got)
	}
	if got := cd.tickCount("q1"); got != 3 {
		t.Fatalf("expected 3 ticks, got %d", got)
	}
}

func TestStartQuestionSupersedesPendingCountdown(t *testing.T) {
	cd := newCountdown(map[string]int{"q1": 1000, "q2": 3})
	coord := newTimerCoordinator(5*time.Millisecond, cd.tick, cd.timeout)

	coord.StartQuestion("q1", 1000)
	waitFor(t, time.Second, func() bool { return cd.tickCount("q1") > 0 })

	coord.StartQuestion("q2", 3)
	waitFor(t, time.Second, func() bool { return cd.timeoutCount("q2") > 0 })

	q1Ticks := cd.tickCount("q1")
	time.Sleep(30 * time.Millisecond)
	if got := cd.tickCount("q1"); got != q1Ticks {
		t.Fatalf("superseded countdown kept ticking: %d -> %d", q1Ticks, got)
	}
	if cd.timeoutCount("q1") != 0 {
		t.Fatalf("superseded countdown fired a timeout")
	}
}

func TestStopReleasesCountdown(t *testing.T) {
	cd := newCountdown(map[string]int{"q1": 2})
	coord := newTimerCoordinator(5*time.Millisecond, cd.tick, cd.timeout)

	coord.StartQuestion("q1", 2)
	coord.Stop()

	time.Sleep(50 * time.Millisecond)
	if cd.timeoutCount("q1") != 0 {
		t.Fatalf("stopped countdown fired a timeout")
	}
}

func TestStartQuestionWithNoTimeFiresTimeoutImmediately(t *testing.T) {
	cd := newCountdown(map[string]int{})
	coord := newTimerCoordinator(5*time.Millisecond, cd.tick, cd.timeout)

	coord.StartQuestion("q1", 0)
	waitFor(t, time.Second, func() bool { return cd.timeoutCount("q1") == 1 })
}

func TestStaleTickHaltsLoop(t *testing.T) {
	// The countdown reports stale when the question is unknown; the loop must
	// exit without firing a timeout.
	cd := newCountdown(map[string]int{})
	coord := newTimerCoordinator(5*time.Millisecond, cd.tick, cd.timeout)

	coord.StartQuestion("gone", 5)
	time.Sleep(50 * time.Millisecond)
	if cd.timeoutCount("gone") != 0 {
		t.Fatalf("stale countdown fired a timeout")
	}
}
