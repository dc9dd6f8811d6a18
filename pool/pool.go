// ABOUTME: Small worker pool for running independent step requests in parallel
// ABOUTME: Provides a submit-and-wait pattern used when comparing algorithms

package pool

import (
	"runtime"
	"sync"
)

// WorkerPool runs submitted tasks on a fixed set of goroutines
type WorkerPool struct {
	workers  int
	taskChan chan func()
	workerWg sync.WaitGroup // tracks worker goroutines lifetime
	taskWg   sync.WaitGroup // tracks submitted tasks completion
	closed   sync.Once
}

// NewWorkerPool creates a pool with the given number of workers.
// workers <= 0 sizes the pool to the available CPUs.
func NewWorkerPool(workers, bufferSize int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		workers:  workers,
		taskChan: make(chan func(), bufferSize),
	}

	for range workers {
		pool.workerWg.Add(1)

		go func() {
			defer pool.workerWg.Done()

			for task := range pool.taskChan {
				pool.run(task)
			}
		}()
	}

	return pool
}

// run executes one task and marks it done
func (p *WorkerPool) run(task func()) {
	defer p.taskWg.Done()

	task()
}

// Workers returns the number of worker goroutines
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Submit adds a task to the pool
// Blocks if the task channel is full
func (p *WorkerPool) Submit(task func()) {
	p.taskWg.Add(1)
	p.taskChan <- task
}

// Wait blocks until all submitted tasks have completed
func (p *WorkerPool) Wait() {
	p.taskWg.Wait()
}

// Close shuts down the pool and waits for all workers to exit. It is safe to call twice.
func (p *WorkerPool) Close() {
	p.closed.Do(func() {
		close(p.taskChan)
	})
	p.workerWg.Wait()
}
