package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var ErrQueueClosed = errors.New("render queue closed")

type queueConfig struct {
	interval     time.Duration
	onSuperseded func()
	onError      func(error)
}

// QueueOption configures a Queue.
type QueueOption func(*queueConfig)

// WithMinInterval paces handled requests to at most one per interval.
func WithMinInterval(d time.Duration) QueueOption {
	return func(c *queueConfig) { c.interval = d }
}

// OnSuperseded is called whenever a pending request is replaced unstarted.
func OnSuperseded(fn func()) QueueOption {
	return func(c *queueConfig) { c.onSuperseded = fn }
}

// OnError receives handler errors; Run keeps going after them.
func OnError(fn func(error)) QueueOption {
	return func(c *queueConfig) { c.onError = fn }
}

// Queue holds at most one pending request. A newer Submit replaces a request
// that has not started yet, so a slow consumer only ever renders the latest
// state. Exactly one goroutine should call Run.
type Queue[T any] struct {
	handle  func(context.Context, T) error
	cfg     queueConfig
	limiter *rate.Limiter
	wake    chan struct{}

	mu      sync.Mutex
	pending T
	has     bool
	closed  bool
}

func NewQueue[T any](handle func(context.Context, T) error, opts ...QueueOption) *Queue[T] {
	q := &Queue[T]{
		handle: handle,
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(&q.cfg)
	}
	if q.cfg.interval > 0 {
		q.limiter = rate.NewLimiter(rate.Every(q.cfg.interval), 1)
	}
	return q
}

// Submit stores v as the pending request and reports whether it replaced an
// older one.
func (q *Queue[T]) Submit(v T) (bool, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false, ErrQueueClosed
	}
	superseded := q.has
	q.pending, q.has = v, true
	q.mu.Unlock()

	if superseded && q.cfg.onSuperseded != nil {
		q.cfg.onSuperseded()
	}
	q.signal()
	return superseded, nil
}

// Close stops accepting requests. Run handles whatever is still pending and returns.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

func (q *Queue[T]) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue[T]) take() (T, bool, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	v, ok := q.pending, q.has
	var zero T
	q.pending, q.has = zero, false
	return v, ok, q.closed
}

// Run handles requests until ctx is done or the queue is closed and drained.
func (q *Queue[T]) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
		}

		if q.limiter != nil {
			if err := q.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		v, ok, closed := q.take()
		if ok {
			if err := q.handle(ctx, v); err != nil && q.cfg.onError != nil {
				q.cfg.onError(err)
			}
		}
		if closed && !q.hasPending() {
			return nil
		}
	}
}

func (q *Queue[T]) hasPending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.has
}
