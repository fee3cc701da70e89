package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// RunnerConfig holds configuration for the job runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process jobs
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue
	QueueSize int

	// StuckJobAge defines how long a job can sit in processing state
	// before it is considered stuck and reset
	StuckJobAge time.Duration

	// StuckJobCheckInterval defines how often to check for stuck jobs.
	// If zero, defaults to 5 minutes.
	StuckJobCheckInterval time.Duration

	// MaxAttempts bounds how many times a failing job is retried before
	// it is marked failed for good. If zero, defaults to 3.
	MaxAttempts int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:           2,
		QueueSize:             100,
		StuckJobAge:           30 * time.Minute,
		StuckJobCheckInterval: 5 * time.Minute,
		MaxAttempts:           3,
	}
}

// Runner manages background job processing. Jobs are persisted before they
// are queued, so work submitted before a crash is recovered on the next
// Start.
type Runner struct {
	store      JobStore
	executor   JobExecutor
	jobChan    chan *Job
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
}

// NewRunner creates a new Runner
func NewRunner(store JobStore, executor JobExecutor, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.StuckJobCheckInterval == 0 {
		config.StuckJobCheckInterval = 5 * time.Minute
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		store:      store,
		executor:   executor,
		jobChan:    make(chan *Job, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With(slog.String("component", "job_runner")),
	}
}

// Submit persists a new job and adds it to the queue
func (r *Runner) Submit(ctx context.Context, job *Job) error {
	if err := r.store.Save(ctx, job); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	select {
	case r.jobChan <- job:
		return nil
	default:
		// Queue is full; the job stays pending and recovery or the stuck
		// monitor will pick it up later.
		r.logger.Warn("job queue full, leaving job pending",
			"job_id", job.ID,
			"job_type", job.Type)
		return nil
	}
}

// Start recovers unfinished jobs and begins processing
func (r *Runner) Start() error {
	if err := r.recover(); err != nil {
		return fmt.Errorf("failed to recover jobs: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckJobMonitor()

	return nil
}

// Stop gracefully shuts down the runner
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	close(r.jobChan)
}

// recover requeues jobs left unfinished by a previous run. Jobs that were
// mid-processing when the process died are reset to pending first.
func (r *Runner) recover() error {
	ctx := context.Background()

	pending, err := r.store.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending jobs: %w", err)
	}

	processing, err := r.store.ListProcessing(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to list processing jobs: %w", err)
	}

	r.logger.Info("recovering unfinished jobs",
		"pending_count", len(pending),
		"processing_count", len(processing))

	for _, job := range processing {
		job.Status = JobStatusPending
		job.LastError = "reset after recovery"
		if err := r.store.Update(ctx, job); err != nil {
			r.logger.Error("failed to reset processing job",
				"job_id", job.ID,
				"job_type", job.Type,
				"error", err)
			continue
		}
		pending = append(pending, job)
	}

	for _, job := range pending {
		select {
		case r.jobChan <- job:
		default:
			r.logger.Warn("job queue full during recovery, job stays pending",
				"job_id", job.ID,
				"job_type", job.Type)
		}
	}

	return nil
}

// worker consumes jobs from the queue until shutdown
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case job, ok := <-r.jobChan:
			if !ok {
				r.logger.Debug("job channel closed, stopping worker", "worker_id", id)
				return
			}

			r.processJob(job, id)
		}
	}
}

// processJob runs a single job attempt and persists the outcome. Failed
// attempts are retried until MaxAttempts is exhausted.
func (r *Runner) processJob(job *Job, workerID int) {
	ctx := context.Background()
	log := r.logger.With(
		"job_id", job.ID,
		"job_type", job.Type,
		"worker_id", workerID,
	)

	job.Status = JobStatusProcessing
	job.Attempts++
	if err := r.store.Update(ctx, job); err != nil {
		log.Error("failed to mark job processing", "error", err)
		return
	}

	log.Info("processing job", "attempt", job.Attempts)

	err := r.executor.Execute(ctx, job)
	if err == nil {
		job.Status = JobStatusCompleted
		job.LastError = ""
		if updateErr := r.store.Update(ctx, job); updateErr != nil {
			log.Error("failed to mark job completed", "error", updateErr)
		}
		log.Info("job completed successfully")
		return
	}

	job.LastError = err.Error()

	if job.Attempts >= r.config.MaxAttempts {
		job.Status = JobStatusFailed
		log.Error("job failed permanently",
			"error", err,
			"attempts", job.Attempts)
	} else {
		job.Status = JobStatusPending
		log.Warn("job attempt failed, will retry",
			"error", err,
			"attempt", job.Attempts)
	}

	if updateErr := r.store.Update(ctx, job); updateErr != nil {
		log.Error("failed to record job failure", "error", updateErr)
		return
	}

	if job.Status == JobStatusPending {
		select {
		case r.jobChan <- job:
		default:
			log.Warn("job queue full, retry stays pending")
		}
	}
}

// stuckJobMonitor periodically resets jobs that have been in processing
// state for longer than StuckJobAge and requeues them
func (r *Runner) stuckJobMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckJobCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			ctx := context.Background()

			stuck, err := r.store.ListProcessing(ctx, r.config.StuckJobAge)
			if err != nil {
				r.logger.Error("failed to check for stuck jobs", "error", err)
				continue
			}

			if len(stuck) == 0 {
				continue
			}

			r.logger.Info("found stuck jobs", "count", len(stuck))

			for _, job := range stuck {
				job.Status = JobStatusPending
				job.LastError = "reset after being stuck in processing state"
				if err := r.store.Update(ctx, job); err != nil {
					r.logger.Error("failed to reset stuck job",
						"job_id", job.ID,
						"job_type", job.Type,
						"error", err)
					continue
				}

				select {
				case r.jobChan <- job:
					r.logger.Info("requeued stuck job",
						"job_id", job.ID,
						"job_type", job.Type)
				default:
					r.logger.Warn("job queue full, stuck job stays pending",
						"job_id", job.ID,
						"job_type", job.Type)
				}
			}
		}
	}
}
