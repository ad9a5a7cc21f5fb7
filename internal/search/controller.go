// Package search binds a search input to the catalog render pipeline with
// input debouncing.
package search

import (
	"strings"
	"sync/atomic"
	"time"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// refresh runs.
const DefaultDebounce = 150 * time.Millisecond

// RefreshFunc re-renders the catalog for a trimmed query.
type RefreshFunc func(query string)

// Controller debounces input values and calls its RefreshFunc with the latest
// value once input has paused for the debounce delay.
//
// A single internal loop owns the timer and the latest value; Input hands
// values to it over a channel. Refresh runs on that loop, so at most one
// refresh is in flight per controller.
type Controller struct {
	delay   time.Duration
	refresh RefreshFunc

	inputCh chan string
	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewController starts a controller. A non-positive delay uses DefaultDebounce.
func NewController(delay time.Duration, refresh RefreshFunc) *Controller {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	c := &Controller{
		delay:   delay,
		refresh: refresh,
		inputCh: make(chan string, 64),
		stopCh:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Controller) run() {
	defer close(c.stopped)

	var timer *time.Timer
	var fire <-chan time.Time
	var latest string

	for {
		select {
		case <-c.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case v := <-c.inputCh:
			latest = v
			if timer == nil {
				timer = time.NewTimer(c.delay)
			} else {
				timer.Reset(c.delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			// Keystrokes that raced the timer extend the burst.
			if v, ok := c.drain(); ok {
				latest = v
				timer.Reset(c.delay)
				fire = timer.C
				continue
			}
			c.refresh(strings.TrimSpace(latest))
		}
	}
}

// drain returns the newest queued input, if any.
func (c *Controller) drain() (string, bool) {
	var v string
	got := false
	for {
		select {
		case next := <-c.inputCh:
			v, got = next, true
		default:
			return v, got
		}
	}
}

// Input records a new value of the bound input and restarts the debounce
// timer. It is a no-op after Close.
func (c *Controller) Input(value string) {
	if c.closed.Load() {
		return
	}
	select {
	case c.inputCh <- value:
	case <-c.stopped:
	}
}

// Close stops the loop and drops any pending refresh.
func (c *Controller) Close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	<-c.stopped
}
