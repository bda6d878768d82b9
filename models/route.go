package models

import (
	"context"

	"bitbucket.org/grupoavance/lending_backend/config"
	"bitbucket.org/grupoavance/lending_backend/utils"
)

// Route groups leads and localities for collection planning. Historical
// assignment is carried on each transaction as snapshot_route_id.
type Route struct {
	ID   int    `gorm:"primary_key" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

func (obj Route) GetId() int {
	return obj.ID
}

// RoutesByIds fetches all requested routes in a single query.
func RoutesByIds(ctx context.Context, ids []int) (map[int]Route, error) {
	result := make(map[int]Route, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	db := config.GetDB()

	var routes []Route
	if err := db.WithContext(ctx).Where("id IN ?", utils.UniqueSlice(ids)).Find(&routes).Error; err != nil {
		return nil, err
	}
	for _, route := range routes {
		result[route.ID] = route
	}
	return result, nil
}

// RouteExists checks a single route id.
func RouteExists(ctx context.Context, id int) (bool, error) {
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&Route{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// LeadExists checks a single lead id.
func LeadExists(ctx context.Context, id int) (bool, error) {
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&Lead{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
