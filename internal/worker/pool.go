// Package worker runs background jobs on a fixed pool of goroutines. The
// session manager uses it for post-session summary writes so finishing a
// session never waits on bookkeeping.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/jlin/hanziflash/internal/logger"
)

// Job is a unit of background work. Name is used for logging only.
type Job interface {
	Run(context.Context) error
	Name() string
}

// JobFunc adapts a closure into a Job.
type JobFunc struct {
	JobName string
	Fn      func(context.Context) error
}

func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }
func (j JobFunc) Name() string                  { return j.JobName }

// Pool dispatches queued jobs to a fixed number of workers. Jobs that fail
// are logged and dropped; nothing retries them.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	cancel  context.CancelFunc
	log     *logger.Logger
}

// NewPool sizes the pool, substituting sane defaults for non-positive
// arguments.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		log:     log,
	}
}

// Start launches the workers. They run until Stop is called or ctx is
// cancelled.
func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i+1)
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.log.WithField("worker_id", id)
	log.Debug("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug("worker shutting down (context cancelled)")
			return
		case job := <-p.jobs:
			// nil means the channel was closed by Stop.
			if job == nil {
				log.Debug("worker shutting down (queue closed)")
				return
			}
			p.run(ctx, log, job)
		}
	}
}

func (p *Pool) run(ctx context.Context, log *logger.Logger, job Job) {
	jobLog := log.WithField("job", job.Name())
	jobLog.Debug("starting job")
	start := time.Now()

	if err := job.Run(logger.NewContext(ctx, jobLog)); err != nil {
		jobLog.Error("job failed after %v: %v", time.Since(start), err)
		return
	}
	jobLog.Info("job completed in %v", time.Since(start))
}

// Stop closes the queue and waits for the workers to drain it. The pool
// context is cancelled only after the drain, so queued jobs still run to
// completion during shutdown.
func (p *Pool) Stop() {
	p.log.Info("stopping worker pool")
	close(p.jobs)
	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.log.Info("worker pool stopped")
}

// Submit enqueues a job, blocking while the queue is full.
func (p *Pool) Submit(job Job) {
	p.log.Debug("submitting job: %s", job.Name())
	p.jobs <- job
}

// TrySubmit enqueues the job without blocking. It reports false when the
// queue is full; callers that treat the work as best-effort run it inline
// or drop it.
func (p *Pool) TrySubmit(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		p.log.Warn("queue full, job rejected: %s", job.Name())
		return false
	}
}

// QueueSize returns the number of pending jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
