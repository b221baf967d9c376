package models

import (
	"context"
	"time"

	"github.com/laikahq/audit_backend/config"
)

// PopulationJobRecord is the transactional outbox row for background
// population work (currently C&A artifact generation). Rows are written in
// the same transaction as the domain change and published after commit by
// the dispatcher.
type PopulationJobRecord struct {
	ID             int               `gorm:"primary_key;index:idx_popjob_dispatch,priority:3" json:"id"`
	OrganizationId string            `gorm:"size:64;not null;index" json:"organization_id"`
	PopulationId   int               `gorm:"index;not null" json:"population_id"`
	JobType        PopulationJobType `gorm:"size:40;not null" json:"job_type"`
	Payload        []byte            `gorm:"type:blob" json:"payload"`
	EnqueuedAt     time.Time         `gorm:"index;not null" json:"enqueued_at"`
	IsProcessed    bool              `gorm:"index;not null" json:"is_processed"`
	// Publish metadata (dispatcher side).
	PublishStatus    OutboxPublishStatus `gorm:"size:20;index;not null;default:'pending';index:idx_popjob_dispatch,priority:1" json:"publish_status"`
	PublishedAt      *time.Time          `gorm:"index" json:"published_at"`
	PubSubMessageId  *string             `gorm:"size:255" json:"pubsub_message_id"`
	PublishAttempts  int                 `gorm:"not null;default:0" json:"publish_attempts"`
	NextAttemptAt    *time.Time          `gorm:"index;index:idx_popjob_dispatch,priority:2" json:"next_attempt_at"`
	LockedAt         *time.Time          `gorm:"index" json:"locked_at"`
	LockedBy         *string             `gorm:"size:100" json:"locked_by"`
	LastPublishError *string             `gorm:"type:text" json:"last_publish_error"`
	// Processing metadata (worker side).
	ProcessAttempts      int        `gorm:"not null;default:0" json:"process_attempts"`
	NextProcessAttemptAt *time.Time `gorm:"index" json:"next_process_attempt_at"`
	LastProcessError     *string    `gorm:"type:text" json:"last_process_error"`
	ProcessedAt          *time.Time `gorm:"index" json:"processed_at"`
	CorrelationId    string     `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func ConvertToPopulationJobMessage(record PopulationJobRecord) config.PopulationJobMessage {
	return config.PopulationJobMessage{
		ID:             record.ID,
		OrganizationId: record.OrganizationId,
		EnqueuedAt:     record.EnqueuedAt,
		PopulationId:   record.PopulationId,
		JobType:        string(record.JobType),
		Payload:        record.Payload,
		CorrelationId:  record.CorrelationId,
	}
}

func MarkPopulationJobProcessed(ctx context.Context, id int, processErr error) error {
	db := config.GetDB()
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"is_processed": true,
		"processed_at": now,
	}
	if processErr != nil {
		updates["is_processed"] = false
		updates["last_process_error"] = processErr.Error()
	}
	return db.WithContext(ctx).Model(&PopulationJobRecord{}).Where("id = ?", id).Updates(updates).Error
}
