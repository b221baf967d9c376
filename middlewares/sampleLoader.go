package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/laikahq/audit_backend/models"
	"gorm.io/gorm"
)

type sampleReader struct {
	db *gorm.DB
}

func (r *sampleReader) getSamples(ctx context.Context, ids []int) []*dataloader.Result[*models.Sample] {
	var results []models.Sample
	if err := r.db.WithContext(ctx).Preload("PopulationData").Where("id IN ?", ids).Find(&results).Error; err != nil {
		return handleError[*models.Sample](len(ids), err)
	}
	return generateLoaderResults(results, ids)
}

func GetSampleLoaded(ctx context.Context, id int) (*models.Sample, error) {
	loaders := For(ctx)
	return loaders.sampleLoader.Load(ctx, id)()
}

type evidenceSampleReader struct {
	db *gorm.DB
}

func (r *evidenceSampleReader) getEvidenceSamples(ctx context.Context, evidenceIds []int) []*dataloader.Result[[]*models.PopulationEvidence] {
	var results []models.PopulationEvidence
	if err := r.db.WithContext(ctx).Preload("Sample").Preload("Sample.PopulationData").
		Where("evidence_id IN ?", evidenceIds).Order("id").Find(&results).Error; err != nil {
		return handleError[[]*models.PopulationEvidence](len(evidenceIds), err)
	}
	return generateLoaderArrayResults(results, evidenceIds)
}

func GetEvidenceSamplesLoaded(ctx context.Context, evidenceId int) ([]*models.PopulationEvidence, error) {
	loaders := For(ctx)
	return loaders.evidenceSampleLoader.Load(ctx, evidenceId)()
}
