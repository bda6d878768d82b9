package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"

	"bitbucket.org/grupoavance/lending_backend/models"
)

type routeReader struct {
	db *gorm.DB
}

func (r *routeReader) getRoutes(ctx context.Context, ids []int) []*dataloader.Result[*models.Route] {
	var results []models.Route

	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.Route](len(ids), err)
	}
	return generateLoaderResults(results, ids)
}

// GetRoute returns single route by id efficiently
func GetRoute(ctx context.Context, id int) (*models.Route, error) {
	loaders := For(ctx)
	return loaders.RouteLoader.Load(ctx, id)()
}
