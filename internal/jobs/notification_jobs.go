package jobs

import (
	"context"

	"pinax-social-backend/internal/logger"
)

const emitBatchSize = 500

// EmitNotices delivers queued notices by email and push, one batch per run
func (jr *JobRunner) EmitNotices() bool {
	return jr.runWithRecovery("EmitNotices", func(ctx context.Context) error {
		result, err := jr.services.Notifications.EmitQueued(ctx, emitBatchSize)
		if err != nil {
			return err
		}
		if result.Delivered > 0 || result.Failed > 0 || result.Dropped > 0 {
			logger.Info("Emitted queued notices", "delivered", result.Delivered, "failed", result.Failed, "dropped", result.Dropped)
		}
		return nil
	})
}
