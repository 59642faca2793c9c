// Package queue implements the single-worker request pipeline: an
// unbounded FIFO fed by exactly one input source and drained by exactly
// one worker. The worker processes requests strictly in arrival order and
// never has more than one reasoning call in flight.
package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Correlation identifies where a remote request came from and where its
// reply must go. Manual requests carry no correlation.
type Correlation struct {
	ThreadID string
	SenderID string
}

// Request is one unit of work. Immutable once enqueued.
type Request struct {
	ID          string
	Text        string
	Correlation *Correlation
}

// NewRequest creates a request with a fresh ID.
func NewRequest(text string, correlation *Correlation) Request {
	return Request{
		ID:          uuid.NewString(),
		Text:        text,
		Correlation: correlation,
	}
}

// Queue is an unbounded FIFO of requests with a busy flag.
//
// Enqueue never rejects: a request arriving while the worker is occupied
// still queues; busy is informational, surfaced to the requester as a
// notice, not a refusal. The busy flag is written only on the consumer
// side and read by the producer.
type Queue struct {
	mu      sync.Mutex
	items   []Request
	wake    chan struct{}
	busy    atomic.Bool
	pending atomic.Int64
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{
		wake: make(chan struct{}, 1),
	}
}

// Enqueue appends a request and wakes the worker if it is waiting.
func (q *Queue) Enqueue(req Request) {
	q.mu.Lock()
	q.items = append(q.items, req)
	q.mu.Unlock()
	q.pending.Add(1)

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Dequeue removes and returns the oldest request, blocking while the
// queue is empty. Returns the context error on cancellation.
//
// Dequeue marks the queue busy before handing the request over so there
// is no instant where a request is in flight but the queue looks idle;
// the worker clears the flag when the request completes.
func (q *Queue) Dequeue(ctx context.Context) (Request, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			req := q.items[0]
			q.items = q.items[1:]
			q.busy.Store(true)
			q.mu.Unlock()
			q.pending.Add(-1)
			return req, nil
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-ctx.Done():
			return Request{}, ctx.Err()
		}
	}
}

// Len returns the number of queued requests.
func (q *Queue) Len() int {
	return int(q.pending.Load())
}

// Busy reports whether the worker is currently processing a request.
func (q *Queue) Busy() bool {
	return q.busy.Load()
}

// SetBusy updates the busy flag. Only the worker calls this.
func (q *Queue) SetBusy(busy bool) {
	q.busy.Store(busy)
}
