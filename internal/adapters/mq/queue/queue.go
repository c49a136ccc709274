// Package queue buffers detection samples pushed by external detectors until
// the frame loop picks them up.
package queue

import (
	"context"
	"sync"

	"github.com/okian/dancercade/internal/domain/model"
	"github.com/okian/dancercade/pkg/metrics"
)

// Sized for a few seconds of 30 fps input.
const defaultQueueCapacity = 128

// Sample is the payload flowing through the queue.
type Sample = model.Sample

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a sample. It returns ErrFull or ErrClosed when the sample
	// was not accepted.
	Enqueue(ctx context.Context, s Sample) error

	// Dequeue returns a channel that receives samples in arrival order. The
	// channel is closed when the queue is closed or ctx ends.
	Dequeue(ctx context.Context) <-chan Sample

	// Len returns the current number of queued samples.
	Len() int

	// Close stops accepting samples. Pending samples can still be drained.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	samples  chan Sample
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.samples = make(chan Sample, q.capacity)
	metrics.UpdateIngestQueueDepth(0)
	return q
}

// Enqueue adds a sample to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Sample) error { //nolint:gocritic // hugeParam: Sample is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordIngestReject("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordIngestReject("context_cancelled")
		return err
	}

	select {
	case q.samples <- s:
		metrics.RecordIngestEnqueue()
		metrics.UpdateIngestQueueDepth(len(q.samples))
		return nil
	default:
		metrics.RecordIngestReject("queue_full")
		return ErrFull
	}
}

// Dequeue returns a channel that will receive samples as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Sample {
	out := make(chan Sample)
	go func() {
		defer close(out)
		for s := range q.samples {
			select {
			case out <- s:
				metrics.UpdateIngestQueueDepth(len(q.samples))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued samples.
func (q *InMemoryQueue) Len() int {
	return len(q.samples)
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.samples)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
