// Package scheduler runs the server's periodic housekeeping jobs on cron.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/bluberry/internal/metrics"
)

const defaultJobTimeout = time.Minute

// Job is a named task run every Interval. A zero Interval disables it.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler manages periodic housekeeping tasks.
type Scheduler struct {
	cron    *cron.Cron
	log     *slog.Logger
	jobs    map[string]Job
	entries map[string]cron.EntryID
}

// New creates a Scheduler with jobs registered but not started. Jobs with a
// zero interval are skipped. Overlapping runs of the same job are skipped.
func New(log *slog.Logger, jobs ...Job) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}

	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:     log,
		jobs:    make(map[string]Job, len(jobs)),
		entries: make(map[string]cron.EntryID, len(jobs)),
	}

	for _, j := range jobs {
		if j.Interval <= 0 {
			log.Debug("scheduled job disabled", "job", j.Name)
			continue
		}
		if j.Run == nil {
			return nil, fmt.Errorf("job %q has no run function", j.Name)
		}
		if _, dup := s.jobs[j.Name]; dup {
			return nil, fmt.Errorf("job %q registered twice", j.Name)
		}

		job := j
		id, err := s.cron.AddFunc("@every "+job.Interval.String(), func() {
			_ = s.runJob(context.Background(), job) //nolint:errcheck // logged in runJob
		})
		if err != nil {
			return nil, fmt.Errorf("scheduling job %q: %w", job.Name, err)
		}
		s.jobs[job.Name] = job
		s.entries[job.Name] = id
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "jobs", len(s.jobs))
	s.cron.Start()
	s.SyncNextRunTimestamps()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// SyncNextRunTimestamps publishes the next run time of every job.
func (s *Scheduler) SyncNextRunTimestamps() {
	for name, id := range s.entries {
		next := s.cron.Entry(id).Next
		if next.IsZero() {
			continue
		}
		metrics.SchedulerNextRun.WithLabelValues(name).Set(float64(next.Unix()))
	}
}

// RunNow runs the named job immediately, outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.runJob(ctx, job)
}

// runJob executes one run of job with its timeout, recovering panics and
// recording the outcome.
func (s *Scheduler) runJob(ctx context.Context, job Job) (err error) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %q panicked: %v", job.Name, r)
		}

		metrics.SchedulerJobDuration.WithLabelValues(job.Name).Observe(time.Since(start).Seconds())
		result := "succeeded"
		if err != nil {
			result = "failed"
			if errors.Is(err, context.DeadlineExceeded) {
				result = "timeout"
			}
			s.log.Error("scheduled job failed", "job", job.Name, "error", err)
		} else {
			s.log.Debug("scheduled job finished", "job", job.Name, "duration", time.Since(start))
		}
		metrics.SchedulerJobRunsTotal.WithLabelValues(job.Name, result).Inc()
		s.SyncNextRunTimestamps()
	}()

	return job.Run(ctx)
}
