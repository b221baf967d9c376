package main

import (
	"context"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/models"
	"github.com/laikahq/audit_backend/utils"
	"github.com/laikahq/audit_backend/workflow"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type outboxProcessRetryConfig struct {
	maxAttempts int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	interval    time.Duration
}

func getOutboxProcessRetryConfig() outboxProcessRetryConfig {
	cfg := outboxProcessRetryConfig{
		maxAttempts: 10,
		baseBackoff: 5 * time.Second,
		maxBackoff:  10 * time.Minute,
		interval:    30 * time.Second,
	}

	if v := os.Getenv("OUTBOX_PROCESS_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.maxAttempts = n
		}
	}
	if v := os.Getenv("OUTBOX_PROCESS_BASE_BACKOFF_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.baseBackoff = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("OUTBOX_PROCESS_MAX_BACKOFF_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.maxBackoff = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("OUTBOX_PROCESS_RETRY_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.interval = time.Duration(n) * time.Second
		}
	}

	return cfg
}

func outboxProcessBackoff(attempt int, cfg outboxProcessRetryConfig) time.Duration {
	if attempt <= 0 {
		return cfg.baseBackoff
	}
	// base * 2^(attempt-1), capped.
	exp := float64(attempt - 1)
	delay := time.Duration(float64(cfg.baseBackoff) * math.Pow(2, exp))
	if delay > cfg.maxBackoff {
		return cfg.maxBackoff
	}
	return delay
}

// runProcessRetryLoop re-runs published outbox jobs whose processing failed
// (worker crash, storage blip, Pub/Sub delivery never arriving). Processing
// is idempotent, so re-running is safe.
func runProcessRetryLoop(ctx context.Context, db *gorm.DB, logger *logrus.Logger) {
	cfg := getOutboxProcessRetryConfig()
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(cfg.interval):
		}
		retryUnprocessedOnce(ctx, db, logger, cfg)
	}
}

func retryUnprocessedOnce(ctx context.Context, db *gorm.DB, logger *logrus.Logger, cfg outboxProcessRetryConfig) {
	now := time.Now().UTC()

	// Only rows that were published but never completed processing. Young rows
	// are skipped to give the normal push delivery a chance first.
	cutoff := now.Add(-2 * cfg.baseBackoff)
	var records []models.PopulationJobRecord
	err := db.WithContext(ctx).
		Where("publish_status = ?", models.OutboxPublishStatusPublished).
		Where("is_processed = 0").
		Where("process_attempts < ?", cfg.maxAttempts).
		Where("(next_process_attempt_at IS NULL OR next_process_attempt_at <= ?)", now).
		Where("published_at IS NOT NULL AND published_at <= ?", cutoff).
		Order("id ASC").
		Limit(50).
		Find(&records).Error
	if err != nil {
		config.LogError(logger, "outbox_processing_retry.go", "retryUnprocessedOnce", "query unprocessed records", nil, err)
		return
	}

	for _, rec := range records {
		msg := models.ConvertToPopulationJobMessage(rec)
		procCtx := utils.SetOrganizationIdInContext(ctx, rec.OrganizationId)
		procCtx = utils.SetUserIdInContext(procCtx, 0)
		procCtx = utils.SetUserNameInContext(procCtx, "System")
		procCtx = utils.SetCorrelationIdInContext(procCtx, rec.CorrelationId)

		if err := workflow.HandlePopulationJob(procCtx, msg); err != nil {
			markProcessRetryFailure(ctx, db, logger, rec, cfg, err)
			continue
		}
		// Success: HandlePopulationJob already marked the record processed.
		_ = db.WithContext(ctx).Model(&models.PopulationJobRecord{}).
			Where("id = ?", rec.ID).
			Updates(map[string]interface{}{
				"next_process_attempt_at": nil,
			}).Error
	}
}

func markProcessRetryFailure(ctx context.Context, db *gorm.DB, logger *logrus.Logger, rec models.PopulationJobRecord, cfg outboxProcessRetryConfig, err error) {
	attempts := rec.ProcessAttempts + 1
	errMsg := err.Error()

	var nextAttemptAt *time.Time
	if attempts < cfg.maxAttempts {
		t := time.Now().UTC().Add(outboxProcessBackoff(attempts, cfg))
		nextAttemptAt = &t
	}

	_ = db.WithContext(ctx).Model(&models.PopulationJobRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"process_attempts":        attempts,
			"next_process_attempt_at": nextAttemptAt,
			"last_process_error":      &errMsg,
		}).Error

	if logger != nil {
		entry := logger.WithFields(logrus.Fields{
			"field":            "OutboxProcessing",
			"organization_id":  rec.OrganizationId,
			"population_id":    rec.PopulationId,
			"job_type":         rec.JobType,
			"record_id":        rec.ID,
			"process_attempts": attempts,
		})
		if attempts >= cfg.maxAttempts {
			entry.Error("outbox processing exhausted retries: " + errMsg)
		} else {
			entry.Warn("outbox processing failed, will retry: " + errMsg)
		}
	}
}
