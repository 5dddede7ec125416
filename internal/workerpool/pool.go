package workerpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("workerpool: closed")

// Task is a unit of work. The context is the pool's base context.
type Task func(ctx context.Context)

// Pool is a fixed set of workers draining a bounded task queue.
type Pool struct {
	ctx     context.Context
	log     *slog.Logger
	tasks   chan Task
	done    chan struct{}
	once    sync.Once
	g       errgroup.Group
	workers int
}

// Size returns the worker count for multiplier workers per available CPU.
func Size(multiplier int) int {
	if multiplier < 1 {
		multiplier = 1
	}
	return runtime.NumCPU() * multiplier
}

// New starts workers goroutines serving a queue of queueSize tasks.
func New(ctx context.Context, log *slog.Logger, workers, queueSize int) *Pool {
	if ctx == nil {
		ctx = context.Background()
	}
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	p := &Pool{
		ctx:     ctx,
		log:     log,
		tasks:   make(chan Task, queueSize),
		done:    make(chan struct{}),
		workers: workers,
	}

	for i := 0; i < workers; i++ {
		p.g.Go(p.work)
	}

	return p
}

// Workers returns the fixed worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Submit queues t, blocking while the queue is full.
func (p *Pool) Submit(ctx context.Context, t Task) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	select {
	case p.tasks <- t:
		return nil
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		return fmt.Errorf("workerpool submit: %w", ctx.Err())
	}
}

// Close stops accepting tasks. Workers finish what is already queued and exit.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.done)
	})
}

// Wait blocks until every worker has exited. Call Close first.
func (p *Pool) Wait() error {
	return p.g.Wait()
}

func (p *Pool) work() error {
	for {
		select {
		case t := <-p.tasks:
			p.run(t)
		case <-p.done:
			// Drain whatever was queued before Close.
			for {
				select {
				case t := <-p.tasks:
					p.run(t)
				default:
					return nil
				}
			}
		}
	}
}

func (p *Pool) run(t Task) {
	defer func() {
		if r := recover(); r != nil {
			if p.log != nil {
				p.log.Error("task panicked",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
			}
		}
	}()
	t(p.ctx)
}
