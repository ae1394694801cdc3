package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sevigo/code-inspector/internal/core"
)

// ErrQueueFull is returned by Dispatch when no queue slot is free.
var ErrQueueFull = errors.New("job queue is full, cannot accept new review job")

// ErrDispatcherStopped is returned by Dispatch after Stop.
var ErrDispatcherStopped = errors.New("dispatcher is stopped")

const queueSize = 100

type result struct {
	outcome *core.ReviewOutcome
	err     error
}

type request struct {
	ctx   context.Context
	event *core.Event
	reply chan result
}

// dispatcher implements core.JobDispatcher with a fixed pool of workers. The
// caller of Dispatch blocks until its job has finished.
type dispatcher struct {
	job        core.Job
	queue      chan request
	maxWorkers int
	wg         sync.WaitGroup
	logger     *slog.Logger

	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers is 0 or negative, it defaults to 1.
func NewDispatcher(job core.Job, maxWorkers int, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	d := &dispatcher{
		job:        job,
		maxWorkers: maxWorkers,
		queue:      make(chan request, queueSize),
		logger:     logger,
	}
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.worker(i)
	}
	return d
}

func (d *dispatcher) worker(id int) {
	defer d.wg.Done()
	d.logger.Debug("starting review worker", "id", id)

	for req := range d.queue {
		d.logger.Info("worker processing job", "worker_id", id, "repo", req.event.RepoFullName, "pr", req.event.PRNumber)
		outcome, err := d.job.Run(req.ctx, req.event)
		if err != nil {
			d.logger.Error("code review job failed", "repo", req.event.RepoFullName, "pr", req.event.PRNumber, "error", err)
		}
		req.reply <- result{outcome: outcome, err: err}
	}

	d.logger.Debug("shutting down review worker", "id", id)
}

// Dispatch queues event and waits for its outcome. The job runs on a context
// detached from ctx: once queued it runs to completion even if the caller
// goes away, though the caller stops waiting when ctx is done.
func (d *dispatcher) Dispatch(ctx context.Context, event *core.Event) (*core.ReviewOutcome, error) {
	req := request{
		ctx:   context.WithoutCancel(ctx),
		event: event,
		reply: make(chan result, 1),
	}

	d.mu.RLock()
	if d.stopped {
		d.mu.RUnlock()
		return nil, ErrDispatcherStopped
	}
	select {
	case d.queue <- req:
		d.mu.RUnlock()
	default:
		d.mu.RUnlock()
		return nil, ErrQueueFull
	}

	d.logger.Debug("queued code review job", "repo", event.RepoFullName, "pr", event.PRNumber)

	select {
	case res := <-req.reply:
		return res.outcome, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop shuts the pool down after all queued jobs have finished.
func (d *dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	d.wg.Wait()
	d.logger.Info("all review jobs have finished")
}
