package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/utils"
)

// Audit is one engagement for an organization. AsOfDate anchors the review
// window; date-range population questions derive their default answer from it.
type Audit struct {
	ID             int        `gorm:"primary_key" json:"id"`
	OrganizationId string     `gorm:"index;not null" json:"organization_id"`
	Name           string     `gorm:"size:255;not null" json:"name" binding:"required"`
	AuditFirm      string     `gorm:"size:255" json:"audit_firm"`
	AuditType      string     `gorm:"size:100" json:"audit_type"`
	AsOfDate       *time.Time `json:"as_of_date"`
	Configuration  JSONMap    `gorm:"type:json" json:"configuration"`
	IsCompleted    *bool      `gorm:"not null;default:false" json:"is_completed"`
	IsActive       *bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAudit struct {
	Name          string     `json:"name" binding:"required"`
	AuditFirm     string     `json:"audit_firm"`
	AuditType     string     `json:"audit_type"`
	AsOfDate      *time.Time `json:"as_of_date"`
	Configuration JSONMap    `json:"configuration"`
}

func (audit Audit) GetOrganizationId() string {
	return audit.OrganizationId
}

func GetAudit(ctx context.Context, id int) (*Audit, error) {
	return GetResource[Audit](ctx, id)
}

func CreateAudit(ctx context.Context, input *NewAudit) (*Audit, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("audit name is required")
	}

	db := config.GetDB()
	audit := Audit{
		OrganizationId: organizationId,
		Name:           name,
		AuditFirm:      input.AuditFirm,
		AuditType:      input.AuditType,
		AsOfDate:       input.AsOfDate,
		Configuration:  input.Configuration,
		IsCompleted:    utils.NewFalse(),
		IsActive:       utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&audit).Error; err != nil {
		return nil, err
	}
	return &audit, nil
}

func (input *Audit) UpdateAudit(ctx context.Context, id int) (*Audit, error) {

	db := config.GetDB()

	result, err := utils.FetchModel[Audit](ctx, input.OrganizationId, id)
	if err != nil {
		return nil, utils.ErrorAuditNotFound
	}

	result.Name = input.Name
	result.AuditFirm = input.AuditFirm
	result.AuditType = input.AuditType
	result.AsOfDate = input.AsOfDate
	result.Configuration = input.Configuration
	result.IsCompleted = input.IsCompleted

	if err := db.WithContext(ctx).Save(result).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Audit](id); err != nil {
		return nil, err
	}
	return result, nil
}

// AsOfDateRange renders the audit's review window as the two-point
// comma-separated range date-range answers expect, e.g.
// "01/01/2025,06/30/2025". Both points collapse to the as-of date when no
// window start is configured.
func (audit Audit) AsOfDateRange() string {
	if audit.AsOfDate == nil {
		return ""
	}
	end := audit.AsOfDate.Format(dateOutputLayout)
	start := end
	if v, ok := audit.Configuration["review_period_start"]; ok && v != "" {
		if t, parsed := parseDateValue(v); parsed {
			start = t.Format(dateOutputLayout)
		}
	}
	return start + "," + end
}
