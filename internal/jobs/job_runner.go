package jobs

import (
	"context"
	"time"

	"pinax-social-backend/internal/config"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Friends       service.FriendService
	Messages      service.MessageService
	Notifications service.NotificationService
	Feeds         service.FeedService
	Plugins       service.PluginService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery. It reports whether the
// job finished without error.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (ok bool) {
	log := logger.WithJob(jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
			ok = false
		}
	}()

	start := time.Now()
	log.Info("Starting job")
	if err := jobFunc(context.Background()); err != nil {
		log.Error("Job failed", "error", err, "duration", time.Since(start))
		return false
	}
	log.Info("Job completed", "duration", time.Since(start))
	return true
}

// RunAllDailyJobs runs all daily jobs (for manual execution)
func (jr *JobRunner) RunAllDailyJobs() {
	jr.ExpireJoinInvitations()
	jr.PurgeMessages()
	jr.RefreshFeeds()
	if jr.config.Scheduler.SyncPlugins != "" {
		jr.SyncPlugins()
	}
}
