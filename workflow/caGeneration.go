package workflow

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bsm/redislock"
	"github.com/laikahq/audit_backend/appctx"
	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/models"
	"github.com/sirupsen/logrus"
)

const defaultCAGenerationDeadline = 120 * time.Second

func caGenerationDeadline() time.Duration {
	if v := os.Getenv("CA_GENERATION_DEADLINE_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultCAGenerationDeadline
}

// HandlePopulationJob consumes one outbox message delivered through the
// Pub/Sub push endpoint. Delivery is at-least-once, so a short redis lock
// dedupes concurrent redeliveries of the same record; the processed flag on
// the record makes replays harmless.
func HandlePopulationJob(ctx context.Context, msg config.PopulationJobMessage) error {
	logger := config.GetLogger()

	locker := config.GetRedisLock()
	if locker != nil {
		lockKey := fmt.Sprintf("PopulationJob:%d", msg.ID)
		lock, err := locker.Obtain(ctx, lockKey, caGenerationDeadline(), nil)
		if err == redislock.ErrNotObtained {
			logger.WithFields(logrus.Fields{
				"record_id":      msg.ID,
				"correlation_id": msg.CorrelationId,
			}).Info("population job already in flight, skipping redelivery")
			return nil
		} else if err != nil {
			return err
		}
		defer func() {
			_ = lock.Release(ctx)
		}()
	}

	ctx = appctx.Set(ctx, appctx.ContextKeyOrganizationId, msg.OrganizationId)
	ctx = appctx.Set(ctx, appctx.ContextKeyCorrelationId, msg.CorrelationId)

	ctx, cancel := context.WithTimeout(ctx, caGenerationDeadline())
	defer cancel()

	db := config.GetDB().WithContext(ctx)
	messageId := fmt.Sprint(msg.ID)
	skip, err := BeginIdempotency(db, msg.OrganizationId, string(models.PopulationJobTypeCAGeneration), messageId)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}

	var jobErr error
	switch models.PopulationJobType(msg.JobType) {
	case models.PopulationJobTypeCAGeneration:
		_, jobErr = models.GenerateCompletenessAccuracyArtifact(ctx, msg.PopulationId)
	default:
		jobErr = fmt.Errorf("unknown population job type %q", msg.JobType)
	}

	if jobErr != nil {
		config.LogError(logger, "workflow", "HandlePopulationJob", "population job failed", msg, jobErr)
	}
	if jobErr != nil {
		_ = MarkIdempotencyFailed(db, msg.OrganizationId, string(models.PopulationJobTypeCAGeneration), messageId, jobErr)
	} else if err := MarkIdempotencySucceeded(db, msg.OrganizationId, string(models.PopulationJobTypeCAGeneration), messageId); err != nil {
		config.LogError(logger, "workflow", "HandlePopulationJob", "failed to mark idempotency", msg, err)
	}
	if err := models.MarkPopulationJobProcessed(ctx, msg.ID, jobErr); err != nil {
		config.LogError(logger, "workflow", "HandlePopulationJob", "failed to mark job processed", msg, err)
		return err
	}
	return jobErr
}
