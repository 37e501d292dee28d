package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pinax-social-backend/internal/app"
	"pinax-social-backend/internal/config"
	"pinax-social-backend/internal/jobs"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/scheduler"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup happens before exiting.
func run() int {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'emit-notices', 'all-daily')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Pinax cronjob runner...", "log_level", cfg.Log.Level)

	ctx := context.Background()
	db, err := app.OpenDB(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return 1
	}
	defer db.Close()

	a, err := app.New(ctx, cfg, db)
	if err != nil {
		logger.Error("Failed to initialize services", "error", err)
		return 1
	}
	defer a.Close()

	jobRunner := jobs.NewJobRunner(a.JobServices(), cfg)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !runJobOnce(jobRunner, *runOnce) {
			return 1
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return 0
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to schedule jobs", "error", err)
		return 1
	}

	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "jobs", cronScheduler.JobCount())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped")
	return 0
}

var jobNames = []string{
	"expire-join-invitations",
	"purge-messages",
	"emit-notices",
	"refresh-feeds",
	"sync-plugins",
	"all-daily",
}

// runJobOnce runs a specific job and reports whether it succeeded
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) bool {
	switch jobName {
	case "expire-join-invitations":
		return jobRunner.ExpireJoinInvitations()
	case "purge-messages":
		return jobRunner.PurgeMessages()
	case "emit-notices":
		return jobRunner.EmitNotices()
	case "refresh-feeds":
		return jobRunner.RefreshFeeds()
	case "sync-plugins":
		return jobRunner.SyncPlugins()
	case "all-daily":
		jobRunner.RunAllDailyJobs()
		return true
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Println("Available jobs:")
		for _, name := range jobNames {
			fmt.Printf("  - %s\n", name)
		}
		return false
	}
}
