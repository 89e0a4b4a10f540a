package sync

import (
	"sync"
	"time"
)

type pendingOp struct {
	op   OpType
	path string
}

// Debouncer coalesces bursts of notifications per path: each notification
// replaces the pending op and re-arms the timer, so only the last op of a
// burst is submitted once the window elapses. Paths debounce independently.
type Debouncer struct {
	window  time.Duration
	submit  func(op OpType, path string)
	mu      sync.Mutex
	pending map[string]pendingOp
	timers  map[string]*time.Timer
	stopped bool
}

func NewDebouncer(window time.Duration, submit func(op OpType, path string)) *Debouncer {
	return &Debouncer{
		window:  window,
		submit:  submit,
		pending: make(map[string]pendingOp),
		timers:  make(map[string]*time.Timer),
	}
}

// Notify records the latest op for path and restarts its debounce window.
func (d *Debouncer) Notify(op OpType, path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if timer, exists := d.timers[path]; exists {
		timer.Stop()
	}

	d.pending[path] = pendingOp{op: op, path: path}
	d.timers[path] = time.AfterFunc(d.window, func() {
		d.flush(path)
	})
}

// Pending reports how many paths have an armed timer.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop cancels all armed timers. Pending ops are dropped, not flushed.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for path, timer := range d.timers {
		timer.Stop()
		delete(d.timers, path)
		delete(d.pending, path)
	}
}

func (d *Debouncer) flush(path string) {
	d.mu.Lock()
	op, exists := d.pending[path]
	if !exists {
		d.mu.Unlock()
		return
	}
	delete(d.pending, path)
	delete(d.timers, path)
	d.mu.Unlock()

	d.submit(op.op, op.path)
}
