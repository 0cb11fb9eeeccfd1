package main

import (
	"sync"
	"time"
)

// settleDelay is how long a file must go without events before it is framed.
const settleDelay = 2 * time.Second

// debouncer emits a path on Ready once no event has touched it for delay.
type debouncer struct {
	delay  time.Duration
	mu     sync.Mutex
	timers map[string]*time.Timer
	Ready  chan string
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: map[string]*time.Timer{},
		Ready:  make(chan string, 16),
	}
}

// Touch restarts the quiet period for path.
func (d *debouncer) Touch(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[path]; ok {
		t.Reset(d.delay)
		return
	}
	d.timers[path] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, path)
		d.mu.Unlock()
		d.Ready <- path
	})
}

// Stop cancels every pending path.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for p, t := range d.timers {
		t.Stop()
		delete(d.timers, p)
	}
}
