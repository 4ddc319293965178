package pipeline

import (
	"sync"

	"songflong/internal/core/domain"
)

// WorkQueue is an unbounded FIFO of jobs with a completion barrier. It
// tracks an outstanding count: every enqueued job stays outstanding until a
// matching MarkDone lands, whether or not processing it succeeded. Join
// blocks until the count reaches zero.
type WorkQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	idle     *sync.Cond

	jobs        []domain.Job
	outstanding int
	closed      bool
}

// NewWorkQueue creates an empty queue.
func NewWorkQueue() *WorkQueue {
	q := &WorkQueue{}
	q.notEmpty = sync.NewCond(&q.mu)
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends job to the tail of the queue and increments the
// outstanding count. It never blocks.
func (q *WorkQueue) Enqueue(job domain.Job) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.jobs = append(q.jobs, job)
	q.outstanding++
	q.notEmpty.Signal()
}

// Dequeue blocks until a job is available or the queue is closed. The
// second return value is false only after Close, once no jobs remain.
func (q *WorkQueue) Dequeue() (domain.Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.jobs) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if len(q.jobs) == 0 {
		return domain.Job{}, false
	}

	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, true
}

// MarkDone decrements the outstanding count. It must be called exactly once
// per dequeued job, on every code path. Calling it without a matching
// Enqueue is a programming error and panics rather than letting the count
// go negative.
func (q *WorkQueue) MarkDone() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.outstanding == 0 {
		panic("pipeline: MarkDone called without a matching Enqueue")
	}
	q.outstanding--
	if q.outstanding == 0 {
		q.idle.Broadcast()
	}
}

// Join blocks until the outstanding count reaches zero. Jobs enqueued while
// Join is waiting extend the wait; it returns only once every job enqueued
// before or during the call has been marked done.
func (q *WorkQueue) Join() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.outstanding > 0 {
		q.idle.Wait()
	}
}

// Close signals shutdown: blocked Dequeue callers drain the remaining
// pending jobs and then return false instead of waiting for more.
func (q *WorkQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.notEmpty.Broadcast()
}
