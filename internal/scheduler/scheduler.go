package scheduler

import (
	"sync"
	"time"

	"github.com/emberfall-studios/skillforge/internal/worker"
)

// Scheduler feeds recurring jobs into a worker pool. The challenge
// rollover is its only production tenant, but the interval is per
// registration.
type Scheduler struct {
	pool *worker.Pool
	stop chan struct{}
	wg   sync.WaitGroup
}

// New creates a scheduler over the given pool
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		pool: pool,
		stop: make(chan struct{}),
	}
}

// Schedule registers a job at a fixed interval. Enqueue blocks while
// the pool queue is full, so a slow pool delays runs instead of
// dropping them.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.pool.Enqueue(job)
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts all schedules and waits for their goroutines
func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
}
