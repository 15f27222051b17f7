package plagiarism

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
)

// Job is a unit of work executed by the WorkerPool.
type Job interface {
	Execute(ctx context.Context) error
}

// WorkerPool runs jobs on a fixed set of goroutines shared by all checks.
type WorkerPool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewWorkerPool starts a pool with size workers. A size of 0 or less sizes
// the pool from the CPU count, leaving a quarter of the CPUs to the system.
func NewWorkerPool(ctx context.Context, size int) *WorkerPool {
	if size <= 0 {
		totalCPU := runtime.NumCPU()
		systemReserve := max(1, totalCPU/4)
		size = max(1, totalCPU-systemReserve)
	}
	log.Info().
		Int("totalCPU", runtime.NumCPU()).
		Int("workers", size).
		Msg("Scoring worker pool initialized")
	poolCtx, cancel := context.WithCancel(ctx)

	pool := &WorkerPool{
		workers:  size,
		jobQueue: make(chan Job, size*2),
		ctx:      poolCtx,
		cancel:   cancel,
	}

	pool.start()

	return pool
}

func (p *WorkerPool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			if err := job.Execute(p.ctx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					log.Trace().Err(err).Int("worker", id).Msg("Job skipped, context done")
					continue
				}
				log.Error().Err(err).Int("worker", id).Msg("Worker failed to execute job")
			}
		}
	}
}

// Submit queues a job, blocking while the queue is full. It gives up when
// either ctx or the pool is done.
func (p *WorkerPool) Submit(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.jobQueue <- job:
		return nil
	}
}

// Done is closed once the pool has been closed or its parent context ends.
func (p *WorkerPool) Done() <-chan struct{} {
	return p.ctx.Done()
}

// Close stops the workers and waits for them to exit.
func (p *WorkerPool) Close() {
	p.cancel()
	p.wg.Wait()
}

func (p *WorkerPool) Size() int {
	return p.workers
}
