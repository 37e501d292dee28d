package jobs

import (
	"context"

	"pinax-social-backend/internal/logger"
)

// ExpireJoinInvitations marks pending join invitations older than the configured
// number of days as expired
func (jr *JobRunner) ExpireJoinInvitations() bool {
	return jr.runWithRecovery("ExpireJoinInvitations", func(ctx context.Context) error {
		n, err := jr.services.Friends.ExpireJoinInvitations(ctx, jr.now())
		if err != nil {
			return err
		}
		logger.Info("Expired join invitations", "count", n, "expiryDays", jr.config.Site.InvitationExpiryDays)
		return nil
	})
}

// PurgeMessages removes messages both parties deleted more than the configured
// number of days ago
func (jr *JobRunner) PurgeMessages() bool {
	return jr.runWithRecovery("PurgeMessages", func(ctx context.Context) error {
		n, err := jr.services.Messages.PurgeDeleted(ctx, jr.now())
		if err != nil {
			return err
		}
		logger.Info("Purged deleted messages", "count", n, "purgeDays", jr.config.Site.MessagePurgeDays)
		return nil
	})
}
