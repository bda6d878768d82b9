package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"

	"bitbucket.org/grupoavance/lending_backend/models"
)

type leadReader struct {
	db *gorm.DB
}

func (r *leadReader) getLeads(ctx context.Context, ids []int) []*dataloader.Result[*models.Lead] {
	var results []models.Lead

	err := r.db.WithContext(ctx).
		Preload("Addresses", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Preload("Addresses.Location").
		Where("id IN ?", ids).
		Find(&results).Error
	if err != nil {
		return handleError[*models.Lead](len(ids), err)
	}
	return generateLoaderResults(results, ids)
}

// GetLead returns single lead by id efficiently
func GetLead(ctx context.Context, id int) (*models.Lead, error) {
	loaders := For(ctx)
	return loaders.LeadLoader.Load(ctx, id)()
}
