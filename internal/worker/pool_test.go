package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	runs int32
	err  error
}

func (j *countingJob) Process(context.Context) error {
	atomic.AddInt32(&j.runs, 1)
	return j.err
}

func (j *countingJob) Runs() int32 {
	return atomic.LoadInt32(&j.runs)
}

func waitForRuns(t *testing.T, job *countingJob, want int32) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if job.Runs() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job ran %d times, want %d", job.Runs(), want)
}

func TestPoolProcessesEnqueuedJobs(t *testing.T) {
	pool := NewPool(2, 10)
	pool.Start()
	defer pool.Stop()

	job := &countingJob{}
	pool.Enqueue(job)
	pool.Enqueue(job)

	waitForRuns(t, job, 2)
}

func TestPoolSurvivesJobErrors(t *testing.T) {
	pool := NewPool(1, 10)
	pool.Start()
	defer pool.Stop()

	failing := &countingJob{err: errors.New("job exploded")}
	ok := &countingJob{}

	pool.Enqueue(failing)
	pool.Enqueue(ok)

	// The worker loop logs the failure and keeps draining the queue.
	waitForRuns(t, ok, 1)
	assert.EqualValues(t, 1, failing.Runs())
}
