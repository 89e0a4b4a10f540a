package sync

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Task is a single unit of remote work admitted into the pool.
type Task func(ctx context.Context)

// Dispatcher runs tasks with a fixed concurrency bound. Admission is strict
// FIFO; the queue itself is unbounded since the debouncer already caps how
// fast distinct keys can arrive.
type Dispatcher struct {
	sem    *semaphore.Weighted
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []queuedTask
	closed bool
	wg     sync.WaitGroup
}

type queuedTask struct {
	run  Task
	done chan struct{}
}

func NewDispatcher(concurrency int) *Dispatcher {
	d := &Dispatcher{
		sem: semaphore.NewWeighted(int64(concurrency)),
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Start launches the admission loop. Tasks dispatched before Start queue up.
func (d *Dispatcher) Start(ctx context.Context) {
	go d.admit(ctx)
}

// Dispatch enqueues a task. The returned channel closes when the task has
// settled (finished or dropped on shutdown).
func (d *Dispatcher) Dispatch(run Task) <-chan struct{} {
	done := make(chan struct{})

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		close(done)
		return done
	}
	d.queue = append(d.queue, queuedTask{run: run, done: done})
	d.wg.Add(1)
	d.mu.Unlock()

	d.cond.Signal()
	return done
}

// Wait blocks until every dispatched task has settled.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Stop closes admission. Queued but not yet admitted tasks are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.cond.Broadcast()
}

func (d *Dispatcher) admit(ctx context.Context) {
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 {
			// closed and drained
			d.mu.Unlock()
			return
		}
		next := d.queue[0]
		d.queue = d.queue[1:]
		closed := d.closed
		d.mu.Unlock()

		if closed {
			close(next.done)
			d.wg.Done()
			continue
		}

		if err := d.sem.Acquire(ctx, 1); err != nil {
			close(next.done)
			d.wg.Done()
			continue
		}

		// Stop may have landed while waiting for a slot; the task was never
		// admitted, so it is dropped like the rest of the queue.
		d.mu.Lock()
		closed = d.closed
		d.mu.Unlock()
		if closed {
			d.sem.Release(1)
			close(next.done)
			d.wg.Done()
			continue
		}

		go func(qt queuedTask) {
			defer d.wg.Done()
			defer close(qt.done)
			defer d.sem.Release(1)
			qt.run(ctx)
		}(next)
	}
}
