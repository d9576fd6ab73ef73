// Package workerpool runs queued tasks on a fixed number of workers.
package workerpool

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Task is a unit of work. The context is cancelled when the pool shuts down.
//
// Tasks still queued at shutdown are not dropped: they are run with the cancelled
// context so they can release whatever they reserved, and must return promptly.
type Task func(ctx context.Context)

// Pool is a fixed set of workers pulling tasks from a shared FIFO queue.
// At most Size tasks run at once; a finished task immediately frees its worker
// for the next queued one. Submit never blocks.
type Pool struct {
	size int

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Task
	active  int
	closed  bool
	started bool

	cancel context.CancelFunc
	group  *errgroup.Group
}

// New creates a pool with size workers. Sizes below one are raised to one.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{size: size}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Start launches the workers. Cancelling ctx stops them once the queue is drained;
// queued tasks then see a cancelled context. Calling Start twice is a no-op.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.closed {
		p.mu.Unlock()
		return
	}
	p.started = true
	ctx, p.cancel = context.WithCancel(ctx)
	p.group = &errgroup.Group{}
	p.mu.Unlock()

	for i := 0; i < p.size; i++ {
		p.group.Go(func() error {
			p.work(ctx)
			return nil
		})
	}

	// Wake idle workers so they can observe cancellation.
	go func() {
		<-ctx.Done()
		p.mu.Lock()
		p.closed = true
		p.cond.Broadcast()
		p.mu.Unlock()
	}()
}

// Submit queues a task. It returns false when the pool has been closed.
func (p *Pool) Submit(t Task) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.queue = append(p.queue, t)
	p.cond.Signal()
	return true
}

// Pending returns the number of queued tasks not yet picked up by a worker.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Active returns the number of tasks currently running.
func (p *Pool) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Close stops accepting tasks, cancels the workers and waits until every task has
// returned. Tasks queued on a pool that was never started run here with a cancelled
// context.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.closed = true
	cancel, group := p.cancel, p.group
	var orphaned []Task
	if group == nil {
		orphaned, p.queue = p.queue, nil
	}
	p.cond.Broadcast()
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if len(orphaned) > 0 {
		ctx, stop := context.WithCancel(context.Background())
		stop()
		for _, t := range orphaned {
			t(ctx)
		}
	}
	if group != nil {
		return group.Wait()
	}
	return nil
}

func (p *Pool) work(ctx context.Context) {
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		t := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.active++
		p.mu.Unlock()

		t(ctx)

		p.mu.Lock()
		p.active--
		p.mu.Unlock()
	}
}
