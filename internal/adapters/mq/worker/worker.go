// Package worker evaluates queued review shots and records their results.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/shotcall/internal/adapters/mq/queue"
	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/pkg/logger"
	"github.com/okian/shotcall/pkg/metrics"
)

const (
	defaultTaskTimeout    = 10 * time.Second
	workerShutdownTimeout = 5 * time.Second
)

// Task is what workers read off the queue.
type Task = queue.Task

// Evaluator produces advice for one shot request.
type Evaluator interface {
	Evaluate(ctx context.Context, req model.ShotRequest) (model.Advice, error)
}

// Recorder stores the outcome of one review shot.
type Recorder interface {
	RecordResult(ctx context.Context, reviewID string, res model.ReviewResult) error
}

// Queue defines how workers receive tasks.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Task
}

// Worker processes review tasks.
type Worker interface {
	// Run starts the worker loop until ctx is canceled, Shutdown is called
	// or the queue is closed and drained.
	Run(ctx context.Context)

	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue       Queue
	evaluator   Evaluator
	recorder    Recorder
	name        string
	taskTimeout time.Duration
	stopTimeout time.Duration

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, evaluator Evaluator, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:       q,
		evaluator:   evaluator,
		recorder:    recorder,
		name:        "worker",
		taskTimeout: defaultTaskTimeout,
		stopTimeout: workerShutdownTimeout,
		shutdown:    make(chan struct{}),
		done:        make(chan struct{}),
		logger:      logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	tasks := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case t, ok := <-tasks:
			if !ok {
				return
			}
			if err := w.process(ctx, t); err != nil {
				w.logger.Error(ctx, "error processing review shot",
					logger.String("worker", w.name),
					logger.String("review_id", t.ReviewID),
					logger.Int("index", t.Index),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker after its current task.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out", logger.String("worker", w.name))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process evaluates one shot. Evaluation failures are recorded on the review
// rather than returned; only a failed write is an error.
func (w *InMemoryWorker) process(ctx context.Context, t Task) error { //nolint:gocritic // hugeParam: Task is passed by value through the channel
	start := time.Now()
	metrics.AddWorkerActive(1)
	defer func() {
		metrics.AddWorkerActive(-1)
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	taskCtx, cancel := context.WithTimeout(ctx, w.taskTimeout)
	defer cancel()

	res := model.ReviewResult{Index: t.Index}
	advice, err := w.evaluator.Evaluate(taskCtx, t.Request)
	if err != nil {
		res.Error = err.Error()
		metrics.RecordReviewShot("error")
		metrics.RecordError("worker", "evaluate")
		w.logger.Warn(ctx, "review shot evaluation failed",
			logger.String("review_id", t.ReviewID),
			logger.Int("index", t.Index),
			logger.Error(err),
		)
	} else {
		res.Advice = &advice
		metrics.RecordReviewShot("ok")
	}

	if err := w.recorder.RecordResult(ctx, t.ReviewID, res); err != nil {
		metrics.RecordError("worker", "record")
		return fmt.Errorf("record result %s/%d: %w", t.ReviewID, t.Index, err)
	}
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers     []*InMemoryWorker
	queue       Queue
	stopTimeout time.Duration
	logger      logger.Logger
}

// NewPool creates a new worker pool. A non-positive count uses one worker per CPU.
func NewPool(workerCount int, q Queue, evaluator Evaluator, recorder Recorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, evaluator, recorder, wopts...)
	}
	p.stopTimeout = p.workers[0].stopTimeout

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop stops all workers without draining the queue. All workers share a
// single deadline.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.shutdownOnce.Do(func() { close(w.shutdown) })
	}
	deadline := time.NewTimer(p.stopTimeout)
	defer deadline.Stop()
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-deadline.C:
			return
		}
	}
}

// Shutdown closes the queue and lets workers drain it. Workers still busy
// when ctx expires are stopped.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			p.Stop()
			return fmt.Errorf("drain review queue: %w", ctx.Err())
		}
	}
	return nil
}
