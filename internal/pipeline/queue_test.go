package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songflong/internal/core/domain"
)

func job(title string) domain.Job {
	return domain.Job{Title: title, Link: "https://example.com/" + title}
}

func TestJoinWithNoJobsReturnsImmediately(t *testing.T) {
	q := NewWorkQueue()

	done := make(chan struct{})
	go func() {
		q.Join()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Join blocked on an empty queue")
	}
}

func TestDequeueIsFIFO(t *testing.T) {
	q := NewWorkQueue()
	q.Enqueue(job("A"))
	q.Enqueue(job("B"))
	q.Enqueue(job("C"))

	for _, want := range []string{"A", "B", "C"} {
		got, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, want, got.Title)
	}
}

func TestMarkDoneWithoutEnqueuePanics(t *testing.T) {
	q := NewWorkQueue()
	assert.Panics(t, func() { q.MarkDone() })
}

func TestMarkDoneNeverGoesNegative(t *testing.T) {
	q := NewWorkQueue()
	q.Enqueue(job("A"))
	_, ok := q.Dequeue()
	require.True(t, ok)

	q.MarkDone()
	assert.Panics(t, func() { q.MarkDone() })
}

func TestJoinWaitsForEveryMarkDone(t *testing.T) {
	const jobs = 100
	const workers = 4

	q := NewWorkQueue()
	for i := 0; i < jobs; i++ {
		q.Enqueue(job("A"))
	}

	var processed sync.WaitGroup
	processed.Add(jobs)
	for w := 0; w < workers; w++ {
		go func() {
			for {
				if _, ok := q.Dequeue(); !ok {
					return
				}
				q.MarkDone()
				processed.Done()
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		q.Join()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Join did not return after all jobs were marked done")
	}
	processed.Wait()
	q.Close()
}

func TestCloseUnblocksDequeue(t *testing.T) {
	q := NewWorkQueue()

	unblocked := make(chan bool)
	go func() {
		_, ok := q.Dequeue()
		unblocked <- ok
	}()

	// Give the goroutine a moment to block on the empty queue.
	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case ok := <-unblocked:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Dequeue still blocked after Close")
	}
}

func TestCloseDrainsPendingJobs(t *testing.T) {
	q := NewWorkQueue()
	q.Enqueue(job("A"))
	q.Close()

	got, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, "A", got.Title)

	_, ok = q.Dequeue()
	assert.False(t, ok)
}
