// File: internal/jobs/notification_redelivery.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"miniblocket_backend/internal/config"
	"miniblocket_backend/internal/listing"
	"miniblocket_backend/internal/moderation"
	"miniblocket_backend/internal/notification"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// NotificationRedeliveryJob periodically re-sends decision notifications that
// were committed with their moderation event but never delivered, for example
// because the notification write failed after the decision transaction. It is
// idempotent: a decision whose notification already exists is skipped.
type NotificationRedeliveryJob struct {
	moderationRepo      moderation.Repository
	listingRepo         listing.Repository
	notificationService notification.Service
	logger              *zap.Logger
	cfg                 *config.Config
	cronScheduler       *cron.Cron
}

// NewNotificationRedeliveryJob creates a new NotificationRedeliveryJob.
func NewNotificationRedeliveryJob(
	moderationRepo moderation.Repository,
	listingRepo listing.Repository,
	notificationService notification.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *NotificationRedeliveryJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &NotificationRedeliveryJob{
		moderationRepo:      moderationRepo,
		listingRepo:         listingRepo,
		notificationService: notificationService,
		logger:              logger.Named("NotificationRedeliveryJob"),
		cfg:                 cfg,
		cronScheduler:       scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *NotificationRedeliveryJob) SetupAndStart() error {
	jobSpec := j.cfg.NotificationRedeliveryJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Notification redelivery job schedule not defined (NOTIFICATION_REDELIVERY_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule notification redelivery job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Notification redelivery job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob scans recent decisions and redelivers the ones without a notification.
func (j *NotificationRedeliveryJob) runJob() {
	j.logger.Info("Starting notification redelivery run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	redelivered, err := j.Run(ctx)
	if err != nil {
		j.logger.Error("Notification redelivery run failed", zap.Error(err))
		return
	}
	j.logger.Info("Notification redelivery run completed", zap.Int("redelivered", redelivered))
}

// Run performs one redelivery pass and returns how many notifications were
// sent. It is exposed separately from the scheduler so it can be invoked
// directly.
func (j *NotificationRedeliveryJob) Run(ctx context.Context) (int, error) {
	since := time.Now().Add(-j.cfg.NotificationRedeliveryLookback)
	events, err := j.moderationRepo.FindDecisionsSince(ctx, since)
	if err != nil {
		return 0, err
	}

	redelivered := 0
	for i := range events {
		event := &events[i]

		notificationType := notification.TypeProductApproved
		if event.Action == moderation.ActionReject {
			notificationType = notification.TypeProductRejected
		}

		exists, err := j.notificationService.HasDispatched(ctx, event.ListingID, notificationType)
		if err != nil {
			j.logger.Error("Failed to check notification state",
				zap.Error(err), zap.String("listingID", event.ListingID.String()))
			continue
		}
		if exists {
			continue
		}

		l, err := j.listingRepo.FindByID(ctx, event.ListingID, false)
		if err != nil {
			// Listing deleted since the decision; nothing to deliver.
			j.logger.Debug("Skipping redelivery for missing listing",
				zap.String("listingID", event.ListingID.String()))
			continue
		}

		var n *notification.Notification
		if event.Action == moderation.ActionApprove {
			n = notification.NewProductApproved(l.SellerID, l.ID, l.Title)
		} else {
			reason := ""
			if event.Reason != nil {
				reason = *event.Reason
			}
			n = notification.NewProductRejected(l.SellerID, l.ID, l.Title, reason)
		}

		if err := j.notificationService.Dispatch(ctx, n); err != nil {
			j.logger.Error("Redelivery dispatch failed",
				zap.Error(err), zap.String("listingID", l.ID.String()))
			continue
		}
		redelivered++
	}
	return redelivered, nil
}

// Stop gracefully stops the cron scheduler.
func (j *NotificationRedeliveryJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping notification redelivery scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Notification redelivery scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Notification redelivery scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
