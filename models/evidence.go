package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/utils"
	"gorm.io/gorm"
)

// Evidence is one auditor evidence request. Sample-type evidences are created
// by attaching population samples; document-type evidences collect plain
// uploads.
type Evidence struct {
	ID             int            `gorm:"primary_key" json:"id"`
	OrganizationId string         `gorm:"index;not null" json:"organization_id"`
	AuditId        int            `gorm:"index;not null" json:"audit_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Status         EvidenceStatus `gorm:"type:enum('open', 'submitted', 'auditor_accepted', 'pending');default:open" json:"status"`
	Type           EvidenceType   `gorm:"type:enum('sample', 'document');default:document" json:"type"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewEvidence struct {
	AuditId     int          `json:"audit_id" binding:"required"`
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Type        EvidenceType `json:"type"`
}

func (obj Evidence) GetId() int {
	return obj.ID
}

func (obj Evidence) GetCursor() string {
	return fmt.Sprint(obj.ID)
}

func (obj Evidence) GetOrganizationId() string {
	return obj.OrganizationId
}

// CheckFrozen rejects changes once the evidence leaves open.
func (obj Evidence) CheckFrozen(ctx context.Context) error {
	if obj.Status != EvidenceStatusOpen {
		return utils.ErrorEvidenceNotOpen
	}
	return nil
}

// PopulationEvidence links one sample of a population to an evidence request.
type PopulationEvidence struct {
	ID             int       `gorm:"primary_key" json:"id"`
	OrganizationId string    `gorm:"index;not null" json:"organization_id"`
	EvidenceId     int       `gorm:"index;not null;uniqueIndex:idx_population_evidence,priority:1" json:"evidence_id"`
	PopulationId   int       `gorm:"index;not null" json:"population_id"`
	SampleId       int       `gorm:"not null;uniqueIndex:idx_population_evidence,priority:2" json:"sample_id"`
	Sample         *Sample   `gorm:"foreignKey:SampleId" json:"sample"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func CreateEvidence(ctx context.Context, input *NewEvidence) (*Evidence, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	if _, err := GetAudit(ctx, input.AuditId); err != nil {
		return nil, utils.ErrorAuditNotFound
	}

	evidenceType := input.Type
	if evidenceType == "" {
		evidenceType = EvidenceTypeDocument
	}

	evidence := Evidence{
		OrganizationId: organizationId,
		AuditId:        input.AuditId,
		Name:           input.Name,
		Description:    input.Description,
		Status:         EvidenceStatusOpen,
		Type:           evidenceType,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&evidence).Error; err != nil {
		return nil, err
	}
	return &evidence, nil
}

func GetEvidence(ctx context.Context, id int) (*Evidence, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	return utils.FetchModel[Evidence](ctx, organizationId, id)
}

// AttachSamplesToEvidenceRequest bridges the sampler and the evidence room:
// every current sample of the population is linked to the evidence, which
// becomes (or stays) a sample-type request. Samples already linked are
// skipped, so re-attaching after adding one more sample is safe.
func AttachSamplesToEvidenceRequest(ctx context.Context, evidenceId int, populationId int) (*Evidence, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	evidence, err := utils.FetchModelForChange[Evidence](ctx, organizationId, evidenceId)
	if err != nil {
		return nil, err
	}

	samples, err := GetPopulationSamples(ctx, populationId)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, utils.ErrorNoAvailableItems
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		evidence.Type = EvidenceTypeSample
		if err := tx.Save(evidence).Error; err != nil {
			return err
		}

		var linked []int
		if err := tx.Model(&PopulationEvidence{}).
			Where("evidence_id = ?", evidenceId).
			Pluck("sample_id", &linked).Error; err != nil {
			return err
		}
		linkedSet := make(map[int]bool, len(linked))
		for _, id := range linked {
			linkedSet[id] = true
		}

		for _, sample := range samples {
			if linkedSet[sample.ID] {
				continue
			}
			link := PopulationEvidence{
				OrganizationId: organizationId,
				EvidenceId:     evidenceId,
				PopulationId:   populationId,
				SampleId:       sample.ID,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return SaveHistoryUpdate(tx, evidence.ID, evidence, "Population samples attached to evidence")
	})
	if err != nil {
		return nil, err
	}
	return evidence, nil
}

// GetEvidenceSamples lists the linked samples with their population rows.
func GetEvidenceSamples(ctx context.Context, evidenceId int) ([]*PopulationEvidence, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	db := config.GetDB()
	var results []*PopulationEvidence
	err := db.WithContext(ctx).Model(&PopulationEvidence{}).
		Preload("Sample").Preload("Sample.PopulationData").
		Where("organization_id = ? AND evidence_id = ?", organizationId, evidenceId).
		Order("id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// UploadSampleAttachment stores an auditee file against one sample of an
// evidence request. Uploads only land while the evidence is open.
func UploadSampleAttachment(ctx context.Context, evidenceId int, sampleId int, file graphql.Upload) (*Attachment, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	evidence, err := utils.FetchModel[Evidence](ctx, organizationId, evidenceId)
	if err != nil {
		return nil, err
	}
	if err := evidence.CheckFrozen(ctx); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&PopulationEvidence{}).
		Where("organization_id = ? AND evidence_id = ? AND sample_id = ?", organizationId, evidenceId, sampleId).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, utils.ErrorRecordNotFound
	}

	return CreateAttachment(ctx, file, "evidences", evidenceId, &sampleId)
}

type UpdateEvidenceInput struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Status      *EvidenceStatus `json:"status"`
}

func UpdateEvidence(ctx context.Context, id int, input *UpdateEvidenceInput) (*Evidence, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	evidence, err := utils.FetchModel[Evidence](ctx, organizationId, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil || input.Description != nil {
		if err := evidence.CheckFrozen(ctx); err != nil {
			return nil, err
		}
	}

	if input.Name != nil {
		evidence.Name = *input.Name
	}
	if input.Description != nil {
		evidence.Description = *input.Description
	}
	if input.Status != nil {
		evidence.Status = *input.Status
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(evidence).Error; err != nil {
		return nil, err
	}
	return evidence, nil
}
