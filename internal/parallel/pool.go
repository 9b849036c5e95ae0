// Package parallel runs block jobs on a fixed set of goroutines.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when work is submitted to a closed pool.
var ErrClosed = errors.New("parallel: pool is closed")

// Job is one unit of block work. It receives the context passed to Run so
// it can notice cancellation before doing expensive work.
type Job func(ctx context.Context)

// Pool is a pool of goroutines for block loading and generation.
//
// Each worker owns a queue and steals from the other queues when its own
// is empty, so a few slow blocks do not stall the rest of a batch.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()

	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	// pending counts jobs queued or executing.
	pending atomic.Int64
}

// NewPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case fn := <-own:
			fn()
		default:
			if fn := p.steal(id); fn != nil {
				fn()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case fn := <-own:
				fn()
			}
		}
	}
}

// drain runs whatever is left in a queue on shutdown.
func (p *Pool) drain(q chan func()) {
	for {
		select {
		case fn := <-q:
			fn()
		default:
			return
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case fn := <-p.queues[i]:
			return fn
		default:
		}
	}
	return nil
}

// Run queues every job and blocks until all of them have returned.
// Jobs are spread round-robin across the worker queues.
func (p *Pool) Run(ctx context.Context, jobs []Job) error {
	if !p.running.Load() {
		return ErrClosed
	}
	if len(jobs) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for i, job := range jobs {
		p.pending.Add(1)
		fn := func() {
			defer wg.Done()
			defer p.pending.Add(-1)
			job(ctx)
		}
		select {
		case p.queues[i%p.workers] <- fn:
		case <-p.done:
			// Closing: the workers may already be gone.
			fn()
		}
	}
	wg.Wait()
	return nil
}

// Go queues a single job on the shortest queue without waiting for it.
func (p *Pool) Go(ctx context.Context, job Job) error {
	if job == nil {
		return nil
	}
	if !p.running.Load() {
		return ErrClosed
	}

	idx := 0
	for i := 1; i < p.workers; i++ {
		if len(p.queues[i]) < len(p.queues[idx]) {
			idx = i
		}
	}

	p.pending.Add(1)
	fn := func() {
		defer p.pending.Add(-1)
		job(ctx)
	}
	select {
	case p.queues[idx] <- fn:
	case <-p.done:
		fn()
	}
	return nil
}

// Close stops accepting work, runs the queued jobs and stops the workers.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Pending returns the number of jobs queued or executing.
func (p *Pool) Pending() int {
	return int(p.pending.Load())
}
