package worker

import (
	"context"
	"sync"

	"github.com/emberfall-studios/skillforge/internal/logger"
)

// Job is a unit of background work, such as the daily challenge
// rollover walking all known players.
type Job interface {
	Process(ctx context.Context) error
}

// Pool runs jobs on a fixed set of workers behind a bounded queue
type Pool struct {
	workers int
	jobs    chan Job
	wg      sync.WaitGroup
	quit    chan struct{}
}

// NewPool creates a pool with the given worker count and queue depth
func NewPool(workers int, queueSize int) *Pool {
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, queueSize),
		quit:    make(chan struct{}),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			// Jobs run on a background context; they outlive the
			// request or tick that enqueued them.
			ctx := context.Background()
			if err := job.Process(ctx); err != nil {
				logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "error", err)
			}
		case <-p.quit:
			return
		}
	}
}

// Enqueue adds a job to the queue. Blocks when the queue is full,
// which applies backpressure to whoever is scheduling.
func (p *Pool) Enqueue(job Job) {
	p.jobs <- job
}

// Stop signals the workers and waits for in-flight jobs to finish
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}
