package main

import (
	"context"
	"time"

	"github.com/laikahq/audit_backend/models"
	"github.com/laikahq/audit_backend/utils"
	"github.com/laikahq/audit_backend/workflow"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OutboxDirectProcessor processes unpublished outbox records without Pub/Sub.
// Intended for local/dev environments where Pub/Sub is not configured; enable
// with OUTBOX_DIRECT_DISPATCH=true.
type OutboxDirectProcessor struct {
	DB        *gorm.DB
	Logger    *logrus.Logger
	WorkerID  string
	BatchSize int
	Interval  time.Duration
	LockTTL   time.Duration
}

func NewOutboxDirectProcessor(db *gorm.DB, logger *logrus.Logger) *OutboxDirectProcessor {
	return &OutboxDirectProcessor{
		DB:        db,
		Logger:    logger,
		WorkerID:  "direct-" + time.Now().Format("20060102-150405.000"),
		BatchSize: 50,
		Interval:  2 * time.Second,
		LockTTL:   30 * time.Second,
	}
}

func (p *OutboxDirectProcessor) Run(ctx context.Context) {
	if p == nil || p.DB == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		p.processOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.Interval):
		}
	}
}

func (p *OutboxDirectProcessor) processOnce(ctx context.Context) {
	now := time.Now().UTC()
	staleBefore := now.Add(-p.LockTTL)

	var claimed []models.PopulationJobRecord
	err := p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.
			Where("is_processed = 0").
			Where("publish_status IN ?", []models.OutboxPublishStatus{
				models.OutboxPublishStatusPending,
				models.OutboxPublishStatusFailed,
			}).
			Where("(locked_at IS NULL OR locked_at <= ?)", staleBefore).
			Order("id ASC").
			Limit(p.BatchSize).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		if err := q.Find(&claimed).Error; err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}
		for i := range claimed {
			claimed[i].LockedAt = &now
			claimed[i].LockedBy = &p.WorkerID
			if err := tx.Model(&models.PopulationJobRecord{}).
				Where("id = ?", claimed[i].ID).
				Updates(map[string]interface{}{
					"locked_at": claimed[i].LockedAt,
					"locked_by": claimed[i].LockedBy,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil || len(claimed) == 0 {
		return
	}

	for _, rec := range claimed {
		msg := models.ConvertToPopulationJobMessage(rec)
		procCtx := utils.SetOrganizationIdInContext(ctx, rec.OrganizationId)
		procCtx = utils.SetUserIdInContext(procCtx, 0)
		procCtx = utils.SetUserNameInContext(procCtx, "System")
		procCtx = utils.SetCorrelationIdInContext(procCtx, rec.CorrelationId)

		if err := workflow.HandlePopulationJob(procCtx, msg); err != nil {
			errMsg := err.Error()
			_ = p.DB.WithContext(ctx).Model(&models.PopulationJobRecord{}).
				Where("id = ?", rec.ID).
				Updates(map[string]interface{}{
					"last_process_error": &errMsg,
					"locked_at":          nil,
					"locked_by":          nil,
				}).Error
			if p.Logger != nil {
				p.Logger.WithFields(logrus.Fields{
					"field":           "OutboxDirectProcessor",
					"organization_id": rec.OrganizationId,
					"population_id":   rec.PopulationId,
					"job_type":        rec.JobType,
					"record_id":       rec.ID,
				}).Error("direct processing failed: " + errMsg)
			}
			continue
		}

		// Mark published so the dispatcher stops considering the row.
		_ = p.DB.WithContext(ctx).Model(&models.PopulationJobRecord{}).
			Where("id = ?", rec.ID).
			Updates(map[string]interface{}{
				"publish_status":  models.OutboxPublishStatusPublished,
				"published_at":    &now,
				"next_attempt_at": nil,
				"locked_at":       nil,
				"locked_by":       nil,
			}).Error
	}
}
