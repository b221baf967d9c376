package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/laikahq/audit_backend/models"
	"gorm.io/gorm"
)

type populationReader struct {
	db *gorm.DB
}

func (r *populationReader) getPopulations(ctx context.Context, ids []int) []*dataloader.Result[*models.AuditPopulation] {
	var results []models.AuditPopulation
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return handleError[*models.AuditPopulation](len(ids), err)
	}
	return generateLoaderResults(results, ids)
}

func GetPopulationLoaded(ctx context.Context, id int) (*models.AuditPopulation, error) {
	loaders := For(ctx)
	return loaders.populationLoader.Load(ctx, id)()
}
