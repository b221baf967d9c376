package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/laikahq/audit_backend/models"
	"gorm.io/gorm"
)

type userReader struct {
	db *gorm.DB
}

func (r *userReader) getUsers(ctx context.Context, ids []int) []*dataloader.Result[*models.User] {
	var results []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return handleError[*models.User](len(ids), err)
	}
	for i := range results {
		results[i].PrepareGive()
	}
	return generateLoaderResults(results, ids)
}

func GetUserLoaded(ctx context.Context, id int) (*models.User, error) {
	loaders := For(ctx)
	return loaders.userLoader.Load(ctx, id)()
}

func GetUsersLoaded(ctx context.Context, ids []int) ([]*models.User, []error) {
	loaders := For(ctx)
	return loaders.userLoader.LoadMany(ctx, ids)()
}
