package worker_pool

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// TaskFunc processes one item. workerID identifies the goroutine running it.
type TaskFunc[T any] func(ctx context.Context, workerID int, item T)

// WorkerPool drains a channel with a fixed number of workers.
type WorkerPool[T any] struct {
	numWorkers int
	log        *log.Logger
}

// NewWorkerPool initializes the worker pool with the given number of workers.
// Fewer than one worker is treated as one.
func NewWorkerPool[T any](numWorkers int, logger *log.Logger) *WorkerPool[T] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T]{
		numWorkers: numWorkers,
		log:        logger,
	}
}

func (wp *WorkerPool[T]) Size() int {
	return wp.numWorkers
}

// Run starts the workers and blocks until the tasks channel is closed and drained,
// or until ctx is cancelled. Items still queued after cancellation are not processed.
func (wp *WorkerPool[T]) Run(ctx context.Context, tasksCh <-chan T, fn TaskFunc[T]) error {
	var wg sync.WaitGroup
	wg.Add(wp.numWorkers)
	for i := 1; i <= wp.numWorkers; i++ {
		go func(workerID int) {
			defer wg.Done()
			wp.worker(ctx, workerID, tasksCh, fn)
		}(i)
	}
	wg.Wait()
	return ctx.Err()
}

func (wp *WorkerPool[T]) worker(ctx context.Context, workerID int, tasksCh <-chan T, fn TaskFunc[T]) {
	wp.log.Debugf("Worker %d started", workerID)
	for {
		select {
		case <-ctx.Done():
			wp.log.Debugf("Worker %d exiting due to cancellation", workerID)
			return
		case item, ok := <-tasksCh:
			if !ok {
				wp.log.Debugf("Worker %d exiting: task channel closed", workerID)
				return
			}
			fn(ctx, workerID, item)
		}
	}
}
