package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"pinax-social-backend/internal/jobs"
	"pinax-social-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a scheduler with every configured job registered. An invalid
// cron spec is an error; an empty sync_plugins spec disables that job.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// UTC with seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}
	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

type entry struct {
	name string
	spec string
	run  func() bool
}

func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	entries := []entry{
		{"ExpireJoinInvitations", cfg.ExpireJoinInvitations, s.jobs.ExpireJoinInvitations},
		{"PurgeMessages", cfg.PurgeMessages, s.jobs.PurgeMessages},
		{"EmitNotices", cfg.EmitNotices, s.jobs.EmitNotices},
		{"RefreshFeeds", cfg.RefreshFeeds, s.jobs.RefreshFeeds},
	}
	if cfg.SyncPlugins != "" {
		entries = append(entries, entry{"SyncPlugins", cfg.SyncPlugins, s.jobs.SyncPlugins})
	} else {
		logger.Info("Plugin sync job disabled")
	}

	for _, e := range entries {
		run := e.run
		if _, err := s.cron.AddFunc(e.spec, func() { run() }); err != nil {
			return fmt.Errorf("failed to register %s job with spec %q: %w", e.name, e.spec, err)
		}
		logger.Debug("Registered cron job", "job", e.name, "spec", e.spec)
	}

	logger.Info("All cron jobs registered successfully", "count", len(entries))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// JobCount returns the number of registered jobs
func (s *Scheduler) JobCount() int {
	return len(s.cron.Entries())
}
