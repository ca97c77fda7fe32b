package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"moneymarket/core"

	"github.com/fox-one/pkg/logger"
)

var (
	// ErrAborted the operation panicked, nothing it computed was committed
	ErrAborted = errors.New("operation aborted")
	// ErrStopped the executor stopped before the operation was taken
	ErrStopped = errors.New("executor stopped")
)

// Func a ledger operation
type Func func(ctx context.Context) (*core.Event, error)

type result struct {
	event *core.Event
	err   error
}

type request struct {
	ctx    context.Context
	action core.Action
	fn     Func
	done   chan result
}

// Executor applies submitted operations one at a time on a single goroutine
type Executor struct {
	queue   chan *request
	metrics *metrics

	stopOnce sync.Once
	stopped  chan struct{}
}

// New executor with a queue of capacity operations
func New(capacity int) *Executor {
	return &Executor{
		queue:   make(chan *request, capacity),
		metrics: executorMetrics(),
		stopped: make(chan struct{}),
	}
}

// Submit queues fn and waits for its result. Once queued, the result is
// awaited even if ctx is done, a taken operation always reports its outcome
func (e *Executor) Submit(ctx context.Context, action core.Action, fn Func) (*core.Event, error) {
	req := &request{
		ctx:    ctx,
		action: action,
		fn:     fn,
		done:   make(chan result, 1),
	}

	select {
	case e.queue <- req:
		e.metrics.queued.Inc()
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-e.stopped:
		return nil, ErrStopped
	}

	select {
	case r := <-req.done:
		return r.event, r.err
	case <-e.stopped:
	}

	select {
	case r := <-req.done:
		return r.event, r.err
	default:
		return nil, ErrStopped
	}
}

// Run consumes the queue until ctx is done
func (e *Executor) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "executor")
	log.Infoln("executor started")
	defer e.stopOnce.Do(func() { close(e.stopped) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-e.queue:
			e.metrics.queued.Dec()
			req.done <- e.handle(req)
		}
	}
}

func (e *Executor) handle(req *request) (r result) {
	log := logger.FromContext(req.ctx).WithField("action", req.action)
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			log.Errorln("operation aborted:", p)
			r = result{err: fmt.Errorf("%w: %v", ErrAborted, p)}
		}

		e.metrics.latency.WithLabelValues(string(req.action)).Observe(time.Since(start).Seconds())
		e.metrics.operations.WithLabelValues(string(req.action), outcome(r.err)).Inc()
	}()

	// the caller gave up while the request was queued
	if err := req.ctx.Err(); err != nil {
		return result{err: err}
	}

	event, err := req.fn(req.ctx)
	if err != nil {
		log.WithError(err).Debugln("operation rejected")
	}

	return result{event: event, err: err}
}

func outcome(err error) string {
	var code core.ErrorCode

	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrAborted):
		return outcomeAborted
	case errors.As(err, &code):
		return outcomeRejected
	default:
		return outcomeFailed
	}
}
