// Package jobs runs background work on a bounded in-memory worker pool.
package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrQueueFull is returned by Enqueue when the buffer has no free slot.
var ErrQueueFull = errors.New("queue full")

// ErrQueueStopped is returned by Enqueue before Start or after Stop.
var ErrQueueStopped = errors.New("queue stopped")

// Handler processes one payload.
type Handler[T any] func(ctx context.Context, payload T) error

// Config configures worker pool behaviour.
type Config struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

type item[T any] struct {
	payload T
	attempt int
}

// Queue dispatches payloads to a fixed set of goroutines. Enqueue never blocks;
// callers on a request path drop work rather than stall when the buffer is full.
type Queue[T any] struct {
	name    string
	handler Handler[T]
	cfg     Config

	items  chan item[T]
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	started bool
	stopped bool
}

// New builds a queue; call Start before enqueueing.
func New[T any](name string, handler Handler[T], cfg Config) *Queue[T] {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 64
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 200 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Queue[T]{
		name:    name,
		handler: handler,
		cfg:     cfg,
		items:   make(chan item[T], cfg.BufferSize),
	}
}

// Start launches the workers. Calling it twice is a no-op.
func (q *Queue[T]) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.cfg.Logger.Info("queue started", zap.String("queue", q.name), zap.Int("workers", q.cfg.Workers))
}

// Stop refuses new work, lets the workers finish what is buffered and waits
// for them, or gives up when ctx expires.
func (q *Queue[T]) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.started || q.stopped {
		q.mu.Unlock()
		return nil
	}
	q.stopped = true
	close(q.items)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cfg.Logger.Info("queue drained", zap.String("queue", q.name))
		return nil
	case <-ctx.Done():
		q.cancel()
		return ctx.Err()
	}
}

// Enqueue hands payload to the workers without blocking.
func (q *Queue[T]) Enqueue(payload T) error {
	return q.push(item[T]{payload: payload})
}

func (q *Queue[T]) push(it item[T]) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if !q.started || q.stopped {
		return ErrQueueStopped
	}
	select {
	case q.items <- it:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *Queue[T]) worker() {
	defer q.wg.Done()
	for it := range q.items {
		q.run(it)
	}
}

func (q *Queue[T]) run(it item[T]) {
	for {
		err := q.handler(q.ctx, it.payload)
		if err == nil {
			return
		}
		it.attempt++
		if it.attempt > q.cfg.MaxRetries || q.ctx.Err() != nil {
			q.cfg.Logger.Error("job failed", zap.String("queue", q.name), zap.Int("attempts", it.attempt), zap.Error(err))
			return
		}
		q.cfg.Logger.Warn("job failed, retrying", zap.String("queue", q.name), zap.Int("attempt", it.attempt), zap.Error(err))

		timer := time.NewTimer(q.cfg.RetryDelay)
		select {
		case <-q.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
