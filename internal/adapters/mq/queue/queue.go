// Package queue holds review tasks waiting for a worker.
package queue

import (
	"context"
	"sync"

	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/pkg/metrics"
)

const defaultQueueCapacity = 10000

// Task is the payload flowing through the queue.
type Task = model.ReviewTask

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a task. It returns ErrFull or ErrClosed when the task
	// was not accepted.
	Enqueue(ctx context.Context, t Task) error

	// EnqueueAll adds every task or none of them.
	EnqueueAll(ctx context.Context, tasks []Task) error

	// Dequeue returns the channel workers receive tasks from. It is closed
	// when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Task

	Len(ctx context.Context) int
	Cap() int

	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	tasks    chan Task
	capacity int

	// mu serialises producers so the free-space check in EnqueueAll holds
	// until every task is sent; consumers only ever make room.
	mu     sync.Mutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.tasks = make(chan Task, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a task to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Task) error {
	return q.EnqueueAll(ctx, []Task{t})
}

// EnqueueAll adds tasks atomically with respect to other producers.
func (q *InMemoryQueue) EnqueueAll(ctx context.Context, tasks []Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordError("queue", "closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		return err
	}
	if len(tasks) > q.capacity-len(q.tasks) {
		metrics.RecordQueueEnqueueError()
		metrics.RecordError("queue", "full")
		return ErrFull
	}

	for _, t := range tasks {
		q.tasks <- t
		metrics.RecordQueueEnqueue()
	}
	metrics.UpdateQueueSize(len(q.tasks))
	return nil
}

// Dequeue returns the task channel.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Task {
	return q.tasks
}

// Len returns the current number of queued tasks.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.tasks)
	metrics.UpdateQueueSize(size)
	return size
}

// Cap returns the queue capacity.
func (q *InMemoryQueue) Cap() int { return q.capacity }

// Close stops accepting tasks. Already queued tasks can still be drained.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.tasks)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
