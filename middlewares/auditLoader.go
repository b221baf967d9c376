package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/laikahq/audit_backend/models"
	"gorm.io/gorm"
)

type auditReader struct {
	db *gorm.DB
}

func (r *auditReader) getAudits(ctx context.Context, ids []int) []*dataloader.Result[*models.Audit] {
	var results []models.Audit
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return handleError[*models.Audit](len(ids), err)
	}
	return generateLoaderResults(results, ids)
}

func GetAuditLoaded(ctx context.Context, id int) (*models.Audit, error) {
	loaders := For(ctx)
	return loaders.auditLoader.Load(ctx, id)()
}
