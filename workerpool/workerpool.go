// Copyright 2025 The wncc Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool runs the row loops of the correlation engines on a fixed
// set of goroutines that live as long as the pool.
//
// Every call describes one job: a range [0, n) cut into batches that the
// calling goroutine and up to NumWorkers-1 pool workers claim from a shared
// counter until none are left. The call returns once every batch is done.
//
//	pool := workerpool.New(0)
//	defer pool.Close()
//	pool.ParallelForBatched(height, 8, func(y0, y1 int) {
//		for y := y0; y < y1; y++ {
//			computeRow(y)
//		}
//	})
//
// A Pool may serve several callers at once; each call waits only for its own
// job.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of worker goroutines.
type Pool struct {
	numWorkers int
	jobs       chan *job

	mu     sync.RWMutex
	closed bool
}

// job is one ParallelFor call, shared by every goroutine serving it.
type job struct {
	n, batch int
	fn       func(start, end int)
	next     atomic.Int64
	done     sync.WaitGroup
}

func (j *job) run() {
	defer j.done.Done()
	for {
		start := int(j.next.Add(int64(j.batch))) - j.batch
		if start >= j.n {
			return
		}
		j.fn(start, min(start+j.batch, j.n))
	}
}

// New creates a pool with numWorkers goroutines, counting the caller of each
// ParallelFor as one of them; numWorkers <= 0 uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan *job, numWorkers),
	}
	for range numWorkers - 1 {
		go func() {
			for j := range p.jobs {
				j.run()
			}
		}()
	}
	return p
}

var defaultPool = sync.OnceValue(func() *Pool { return New(0) })

// Default returns the process-wide pool sized to GOMAXPROCS. It is created on
// first use and never closed.
func Default() *Pool {
	return defaultPool()
}

// NumWorkers returns the parallelism of the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close stops the workers once queued jobs are picked up. Calls made after
// Close run on the caller alone. Close is idempotent.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
}

// ParallelFor calls fn over [0, n) cut into one contiguous band per worker.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	p.ParallelForBatched(n, (n+p.numWorkers-1)/p.numWorkers, fn)
}

// ParallelForBatched calls fn over [0, n) in batches of batchSize, handed out
// in order as goroutines become free. Small batches balance rows of uneven
// cost, such as masked rows that skip most pixels.
func (p *Pool) ParallelForBatched(n, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	batchSize = max(batchSize, 1)
	batches := (n + batchSize - 1) / batchSize
	helpers := min(p.numWorkers, batches) - 1

	p.mu.RLock()
	if p.closed || helpers <= 0 {
		p.mu.RUnlock()
		fn(0, n)
		return
	}
	j := &job{n: n, batch: batchSize, fn: fn}
	j.done.Add(helpers + 1)
	for range helpers {
		p.jobs <- j
	}
	p.mu.RUnlock()

	j.run()
	j.done.Wait()
}
