package models

import (
	"context"
	"time"

	"github.com/laikahq/audit_backend/config"
)

const (
	DirectorySyncStatusRunning = "running"
	DirectorySyncStatusSuccess = "success"
	DirectorySyncStatusPartial = "partial"
	DirectorySyncStatusFailed  = "failed"
)

// DirectorySyncState holds the incremental cursor for one organization's HRIS
// directory sync. One row per organization.
type DirectorySyncState struct {
	ID              int       `gorm:"primary_key" json:"id"`
	OrganizationId  string    `gorm:"size:64;not null;unique" json:"organization_id"`
	CursorStateJSON []byte    `gorm:"type:blob" json:"cursor_state_json"`
	LastSyncAt      *time.Time `json:"last_sync_at"`
	LastSuccessAt   *time.Time `json:"last_success_at"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DirectorySyncRun records one execution of the people sync worker.
type DirectorySyncRun struct {
	ID            int        `gorm:"primary_key" json:"id"`
	OrganizationId string    `gorm:"size:64;not null;index" json:"organization_id"`
	Status        string     `gorm:"size:20;not null;index" json:"status"`
	StartedAt     *time.Time `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
	RecordsSynced int        `gorm:"not null;default:0" json:"records_synced"`
	ErrorCount    int        `gorm:"not null;default:0" json:"error_count"`
	LastError     *string    `gorm:"type:text" json:"last_error"`
	TriggeredBy   string     `gorm:"size:50" json:"triggered_by"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetOrCreateDirectorySyncState(ctx context.Context, organizationId string) (*DirectorySyncState, error) {
	db := config.GetDB()
	var state DirectorySyncState
	err := db.WithContext(ctx).Where("organization_id = ?", organizationId).Take(&state).Error
	if err == nil {
		return &state, nil
	}
	state = DirectorySyncState{OrganizationId: organizationId}
	if err := db.WithContext(ctx).Create(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}
