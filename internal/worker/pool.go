package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/weblineafrica/order-sms/internal/model"
)

// Pool runs each submitted event on its own goroutine so a slow gateway never
// holds up the caller. At most maxInFlight events are handled at once; extra
// submissions wait for a slot in their own goroutine. Every accepted event is
// handled, including those still waiting when Stop is called.
type Pool struct {
	handleFn    func(context.Context, model.OrderStatusEvent)
	maxInFlight int64

	running atomic.Bool

	mu       sync.Mutex
	sem      *semaphore.Weighted
	inFlight sync.WaitGroup
}

func New(maxInFlight int, handleFn func(context.Context, model.OrderStatusEvent)) (*Pool, error) {
	if maxInFlight <= 0 {
		return nil, errors.New("maxInFlight must be > 0")
	}
	if handleFn == nil {
		return nil, errors.New("handleFn must not be nil")
	}
	return &Pool{
		handleFn:    handleFn,
		maxInFlight: int64(maxInFlight),
	}, nil
}

func (p *Pool) Start() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running.Load() {
		return false
	}

	p.sem = semaphore.NewWeighted(p.maxInFlight)
	p.running.Store(true)

	slog.Info("dispatch pool started", "max_in_flight", p.maxInFlight)
	return true
}

// Stop rejects new submissions and waits until every accepted event,
// queued or running, has been handled.
func (p *Pool) Stop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running.Load() {
		return false
	}

	p.running.Store(false)
	p.inFlight.Wait()

	slog.Info("dispatch pool stopped")
	return true
}

func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Submit hands ev to a goroutine. It reports false when the pool is stopped.
func (p *Pool) Submit(ev model.OrderStatusEvent) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running.Load() {
		return false
	}

	sem := p.sem
	p.inFlight.Add(1)

	go func() {
		defer p.inFlight.Done()

		ctx := context.Background()
		// Acquire cannot fail on a context that is never cancelled.
		_ = sem.Acquire(ctx, 1)
		defer sem.Release(1)

		p.safeHandle(ctx, ev)
	}()

	return true
}

func (p *Pool) safeHandle(ctx context.Context, ev model.OrderStatusEvent) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("dispatch panic recovered", "order_id", ev.OrderID, "panic", r)
		}
	}()

	start := time.Now()
	p.handleFn(ctx, ev)
	slog.Debug("dispatch completed", "order_id", ev.OrderID, "duration_ms", time.Since(start).Milliseconds())
}
