package failover

import (
	"sync"
)

// JobFunc is a delivery job that can be enqueued in a worker pool.
type JobFunc func() error

// WorkerPool bounds the number of concurrent asynchronous deliveries. Without it,
// Go spawns one goroutine per request; with it, deliveries queue behind a fixed
// set of workers.
type WorkerPool struct {
	workers   int
	jobs      chan JobFunc
	wg        sync.WaitGroup
	quit      chan struct{}
	errorChan chan error
}

// NewWorkerPool creates a new worker pool with the given number of workers.
func NewWorkerPool(workers int) *WorkerPool {
	pool := &WorkerPool{
		workers: workers,
		jobs:    make(chan JobFunc, workers),
		// buffer quit to allow multiple resize signals without blocking immediately
		quit:      make(chan struct{}, workers),
		errorChan: make(chan error, workers),
	}
	pool.start()

	return pool
}

// Enqueue adds a delivery job to the worker pool.
func (pool *WorkerPool) Enqueue(job JobFunc) {
	pool.wg.Add(1)

	pool.jobs <- job
}

// Shutdown shuts down the worker pool. It waits for all queued deliveries to settle.
// Closing the jobs channel is the shutdown signal: workers keep draining queued
// deliveries and exit only once the channel is empty, so nothing enqueued before
// Shutdown is abandoned.
func (pool *WorkerPool) Shutdown() {
	close(pool.jobs)
	pool.wg.Wait()
	close(pool.errorChan)
}

// Errors returns a channel surfacing terminal delivery failures. The futures carry
// the same errors; this channel is a convenience for callers that fire and forget.
func (pool *WorkerPool) Errors() <-chan error {
	return pool.errorChan
}

// Resize resizes the worker pool. The pool never shrinks below one worker so a
// later Shutdown can still drain the queue.
func (pool *WorkerPool) Resize(newSize int) {
	if newSize < 1 {
		return
	}

	diff := newSize - pool.workers
	if diff == 0 {
		return
	}

	pool.workers = newSize

	if diff > 0 {
		// Increase the number of workers
		for range diff {
			go pool.worker()
		}
	} else {
		// Decrease the number of workers
		// Send only the number of quit signals needed to remove workers
		for range -diff {
			pool.quit <- struct{}{}
		}
	}
}

// start starts the worker pool.
func (pool *WorkerPool) start() {
	for range pool.workers {
		go pool.worker()
	}
}

// worker is the main loop executed by each worker goroutine. Quit signals only
// arrive from Resize shrinking; shutdown is observed as the drained, closed jobs
// channel, which guarantees queued deliveries run before the worker exits.
func (pool *WorkerPool) worker() {
	for {
		select {
		case job, open := <-pool.jobs:
			if !open {
				return
			}

			err := job()
			if err != nil {
				// drop when nobody is draining Errors; the future still
				// carries the outcome
				select {
				case pool.errorChan <- err:
				default:
				}
			}

			pool.wg.Done()
		case <-pool.quit:
			return
		}
	}
}
