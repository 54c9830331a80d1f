package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	queue "github.com/okian/shotcall/internal/adapters/mq/queue"
	worker "github.com/okian/shotcall/internal/adapters/mq/worker"
	model "github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

type mockEvaluator struct {
	mu    sync.Mutex
	fail  map[string]error
	calls int
	delay time.Duration
}

func (m *mockEvaluator) Evaluate(ctx context.Context, req model.ShotRequest) (model.Advice, error) {
	m.mu.Lock()
	m.calls++
	err := m.fail[req.Zone]
	delay := m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return model.Advice{}, ctx.Err()
		}
	}
	if err != nil {
		return model.Advice{}, err
	}
	return model.Advice{Decision: types.DecisionTake, MakeProbability: 0.5, Threshold: 0.35}, nil
}

type mockRecorder struct {
	mu      sync.Mutex
	results map[string][]model.ReviewResult
	err     error
	got     chan struct{}
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{results: map[string][]model.ReviewResult{}, got: make(chan struct{}, 100)}
}

func (m *mockRecorder) RecordResult(_ context.Context, reviewID string, res model.ReviewResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.results[reviewID] = append(m.results[reviewID], res)
	m.got <- struct{}{}
	return nil
}

func (m *mockRecorder) count(reviewID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results[reviewID])
}

func waitFor(ch <-chan struct{}, n int) bool {
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			return false
		}
	}
	return true
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		eval := &mockEvaluator{fail: map[string]error{"Backcourt": errors.New("scorer unavailable")}}
		rec := newMockRecorder()
		w := worker.NewInMemoryWorker(q, eval, rec, worker.WithName("w-test"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a shot is queued", func() {
			err := q.Enqueue(ctx, model.ReviewTask{ReviewID: "r1", Index: 0, Request: model.ShotRequest{Zone: "Mid-Range"}})
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then its advice is recorded", func() {
				convey.So(waitFor(rec.got, 1), convey.ShouldBeTrue)
				rec.mu.Lock()
				res := rec.results["r1"][0]
				rec.mu.Unlock()
				convey.So(res.Index, convey.ShouldEqual, 0)
				convey.So(res.Advice, convey.ShouldNotBeNil)
				convey.So(res.Error, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When evaluation fails", func() {
			err := q.Enqueue(ctx, model.ReviewTask{ReviewID: "r2", Index: 3, Request: model.ShotRequest{Zone: "Backcourt"}})
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the failure is recorded on the review", func() {
				convey.So(waitFor(rec.got, 1), convey.ShouldBeTrue)
				rec.mu.Lock()
				res := rec.results["r2"][0]
				rec.mu.Unlock()
				convey.So(res.Advice, convey.ShouldBeNil)
				convey.So(res.Error, convey.ShouldEqual, "scorer unavailable")
			})
		})

		convey.Convey("When the worker is shut down", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()
			convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of workers", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		eval := &mockEvaluator{delay: time.Millisecond}
		rec := newMockRecorder()
		pool := worker.NewPool(4, q, eval, rec)
		convey.So(pool.Size(), convey.ShouldEqual, 4)

		ctx := context.Background()
		tasks := make([]queue.Task, 40)
		for i := range tasks {
			tasks[i] = model.ReviewTask{ReviewID: "batch", Index: i, Request: model.ShotRequest{Zone: "Mid-Range"}}
		}
		convey.So(q.EnqueueAll(ctx, tasks), convey.ShouldBeNil)

		convey.Convey("When the pool is started and then shut down", func() {
			pool.Start(ctx)
			sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			err := pool.Shutdown(sctx)

			convey.Convey("Then every queued shot was recorded before shutdown returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec.count("batch"), convey.ShouldEqual, 40)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a pool whose recorder fails", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		rec := newMockRecorder()
		rec.err = errors.New("review not found")
		eval := &mockEvaluator{}
		pool := worker.NewPool(1, q, eval, rec)

		ctx := context.Background()
		convey.So(q.Enqueue(ctx, model.ReviewTask{ReviewID: "gone", Request: model.ShotRequest{Zone: "Mid-Range"}}), convey.ShouldBeNil)
		pool.Start(ctx)

		convey.Convey("Then the worker keeps running and the pool drains", func() {
			sctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			convey.So(pool.Shutdown(sctx), convey.ShouldBeNil)
			eval.mu.Lock()
			calls := eval.calls
			eval.mu.Unlock()
			convey.So(calls, convey.ShouldEqual, 1)
		})
	})
}

func TestPoolStop(t *testing.T) {
	convey.Convey("Given a pool whose workers are all stuck on slow shots", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		eval := &mockEvaluator{delay: 3 * time.Second}
		rec := newMockRecorder()
		pool := worker.NewPool(4, q, eval, rec, worker.WithStopTimeout(200*time.Millisecond))

		ctx := context.Background()
		for i := 0; i < 4; i++ {
			convey.So(q.Enqueue(ctx, model.ReviewTask{ReviewID: "slow", Index: i, Request: model.ShotRequest{Zone: "Mid-Range"}}), convey.ShouldBeNil)
		}
		pool.Start(ctx)

		busy := func() bool {
			eval.mu.Lock()
			defer eval.mu.Unlock()
			return eval.calls == 4
		}
		deadline := time.Now().Add(2 * time.Second)
		for !busy() && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		convey.So(busy(), convey.ShouldBeTrue)

		convey.Convey("When the pool is stopped", func() {
			start := time.Now()
			pool.Stop()
			elapsed := time.Since(start)

			convey.Convey("Then all workers share one deadline", func() {
				convey.So(elapsed, convey.ShouldBeGreaterThanOrEqualTo, 200*time.Millisecond)
				convey.So(elapsed, convey.ShouldBeLessThan, 600*time.Millisecond)
			})
		})
	})
}
