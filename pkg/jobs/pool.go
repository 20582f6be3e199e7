package jobs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Handler processes one task.
type Handler[T any] func(ctx context.Context, task T) error

// Config configures worker pool behaviour.
type Config struct {
	Workers     int
	BufferSize  int
	MaxAttempts int
	RetryDelay  time.Duration
	Logger      *zap.Logger
}

// Result counts the tasks a pool finished.
type Result struct {
	Completed int
	Failed    int
}

// Pool runs submitted tasks on a fixed set of goroutines. A failing task is
// retried in place until MaxAttempts is reached.
type Pool[T any] struct {
	name    string
	handler Handler[T]

	workers     int
	maxAttempts int
	retryDelay  time.Duration
	logger      *zap.Logger

	tasks   chan T
	ctx     context.Context
	cancel  context.CancelFunc
	workWG  sync.WaitGroup
	pending sync.WaitGroup
	mu      sync.Mutex
	started bool
	stopped bool

	completed atomic.Int64
	failed    atomic.Int64
}

// NewPool builds a pool with the provided handler.
func NewPool[T any](name string, handler Handler[T], cfg Config) *Pool[T] {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 100 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pool[T]{
		name:        name,
		handler:     handler,
		workers:     cfg.Workers,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		logger:      cfg.Logger.With(zap.String("pool", name)),
		tasks:       make(chan T, cfg.BufferSize),
	}
}

// Start launches the workers. Calling it again is a no-op.
func (p *Pool[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workers; i++ {
		p.workWG.Add(1)
		go p.worker()
	}
	p.started = true
	p.logger.Debug("pool started", zap.Int("workers", p.workers))
}

// Submit queues a task, blocking while the buffer is full.
func (p *Pool[T]) Submit(task T) error {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return fmt.Errorf("pool %s not running", p.name)
	}
	ctx := p.ctx
	p.pending.Add(1)
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		p.pending.Done()
		return fmt.Errorf("pool %s stopped: %w", p.name, ctx.Err())
	case p.tasks <- task:
		return nil
	}
}

// Wait blocks until every submitted task finished or ctx is done.
func (p *Pool[T]) Wait(ctx context.Context) (Result, error) {
	done := make(chan struct{})
	go func() {
		p.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return p.Result(), nil
	case <-ctx.Done():
		return p.Result(), ctx.Err()
	}
}

// Result reports the tasks finished so far.
func (p *Pool[T]) Result() Result {
	return Result{Completed: int(p.completed.Load()), Failed: int(p.failed.Load())}
}

// Stop cancels the workers and waits for them to exit. Queued tasks that
// did not start are dropped.
func (p *Pool[T]) Stop() {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.cancel()
	p.mu.Unlock()
	p.workWG.Wait()
	for {
		select {
		case <-p.tasks:
			p.pending.Done()
		default:
			p.logger.Debug("pool stopped")
			return
		}
	}
}

func (p *Pool[T]) worker() {
	defer p.workWG.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task := <-p.tasks:
			p.run(task)
			p.pending.Done()
		}
	}
}

func (p *Pool[T]) run(task T) {
	for attempt := 1; ; attempt++ {
		err := p.handler(p.ctx, task)
		if err == nil {
			p.completed.Add(1)
			return
		}
		if attempt >= p.maxAttempts || p.ctx.Err() != nil {
			p.failed.Add(1)
			p.logger.Warn("task failed", zap.Int("attempt", attempt), zap.Error(err))
			return
		}
		timer := time.NewTimer(p.retryDelay)
		select {
		case <-p.ctx.Done():
			timer.Stop()
			p.failed.Add(1)
			return
		case <-timer.C:
		}
	}
}
