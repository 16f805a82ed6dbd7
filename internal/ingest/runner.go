// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import "sync"

const defaultQueueSize = 4

// Runner executes ingestion runs one at a time on a single background
// worker, so concurrent bulk requests queue up instead of racing the same
// category through two loops.
type Runner struct {
	jobs chan func()
	done chan struct{}
	once sync.Once
}

// NewRunner starts the worker with a bounded queue. A non-positive
// queueSize uses the default.
func NewRunner(queueSize int) *Runner {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	r := &Runner{
		jobs: make(chan func(), queueSize),
		done: make(chan struct{}),
	}
	go r.work()
	return r
}

func (r *Runner) work() {
	defer close(r.done)
	for job := range r.jobs {
		job()
	}
}

// Submit queues fn for execution and returns immediately. It reports false
// when the queue is full, leaving the caller to refuse the request.
func (r *Runner) Submit(fn func()) bool {
	select {
	case r.jobs <- fn:
		return true
	default:
		return false
	}
}

// Close stops accepting work and waits for queued jobs to finish.
func (r *Runner) Close() {
	r.once.Do(func() { close(r.jobs) })
	<-r.done
}
