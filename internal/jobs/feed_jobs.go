package jobs

import (
	"context"
	"errors"

	"github.com/hashicorp/go-multierror"

	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/plugins"
)

// RefreshFeeds fetches every registered feed. Individual feed failures are logged
// and do not fail the job.
func (jr *JobRunner) RefreshFeeds() bool {
	return jr.runWithRecovery("RefreshFeeds", func(ctx context.Context) error {
		refreshed, err := jr.services.Feeds.RefreshAll(ctx)
		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, e := range merr.Errors {
				logger.Warn("Feed refresh failed", "error", e)
			}
			err = nil
		}
		if err != nil {
			return err
		}
		logger.Info("Refreshed feeds", "count", refreshed)
		return nil
	})
}

// SyncPlugins reconciles the plugin registry with the manifests on disk
func (jr *JobRunner) SyncPlugins() bool {
	return jr.runWithRecovery("SyncPlugins", func(ctx context.Context) error {
		report, err := jr.services.Plugins.Sync(ctx, plugins.Options{})
		if err != nil {
			return err
		}
		if report.DiscoveryErrors != nil {
			logger.Warn("Plugin discovery reported problems", "error", report.DiscoveryErrors)
		}
		logger.Info("Synced plugins", "summary", report.String())
		return nil
	})
}
