package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/laikahq/audit_backend/models"
	"gorm.io/gorm"
)

type attachmentReader struct {
	db            *gorm.DB
	referenceType string
}

func (r *attachmentReader) getAttachments(ctx context.Context, referenceIds []int) []*dataloader.Result[[]*models.Attachment] {
	var results []models.Attachment
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id IN ? AND is_deleted = ? AND sample_id IS NULL",
			r.referenceType, referenceIds, false).
		Order("id").Find(&results).Error; err != nil {
		return handleError[[]*models.Attachment](len(referenceIds), err)
	}
	return generateLoaderArrayResults(results, referenceIds)
}

func GetPopulationAttachmentsLoaded(ctx context.Context, populationId int) ([]*models.Attachment, error) {
	loaders := For(ctx)
	return loaders.populationAttachmentLoader.Load(ctx, populationId)()
}

func GetEvidenceAttachmentsLoaded(ctx context.Context, evidenceId int) ([]*models.Attachment, error) {
	loaders := For(ctx)
	return loaders.evidenceAttachmentLoader.Load(ctx, evidenceId)()
}
