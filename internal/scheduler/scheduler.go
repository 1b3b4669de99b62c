// Package scheduler runs periodic calibration cache warms on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is a unit of scheduled work
type Job func(ctx context.Context) error

// Scheduler manages scheduled warm jobs
type Scheduler struct {
	cron       *cron.Cron
	logger     *logrus.Logger
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
	jobTimeout time.Duration
}

// NewScheduler creates a new scheduler. Runs of the same job never overlap and a
// panicking job is recovered and logged.
func NewScheduler(logger *logrus.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(logger)
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger:     logger,
		jobIDs:     make([]cron.EntryID, 0),
		jobTimeout: 10 * time.Minute,
	}
}

// SetJobTimeout bounds each job run
func (s *Scheduler) SetJobTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d > 0 {
		s.jobTimeout = d
	}
}

// Schedule adds a named job on a standard five-field cron expression
func (s *Scheduler) Schedule(cronExpression, name string, job Job) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return 0, fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, s.wrap(name, job))
	if err != nil {
		return 0, fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"cron": cronExpression,
	}).Info("Scheduled job")

	return entryID, nil
}

func (s *Scheduler) wrap(name string, job Job) func() {
	return func() {
		s.mu.RLock()
		timeout := s.jobTimeout
		s.mu.RUnlock()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		log := s.logger.WithField("job", name)
		log.Info("Starting scheduled job")

		if err := job(ctx); err != nil {
			log.WithError(err).Error("Scheduled job failed")
			return
		}
		log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Scheduled job completed")
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	for i, id := range s.jobIDs {
		if id == jobID {
			s.jobIDs = append(s.jobIDs[:i], s.jobIDs[i+1:]...)
			break
		}
	}
	s.logger.WithField("job_id", jobID).Info("Removed job")

	return nil
}
