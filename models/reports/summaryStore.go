package reports

import (
	"context"
	"time"

	"bitbucket.org/grupoavance/lending_backend/models"
)

// SummaryStore is the read surface the aggregation engine needs. Summaries
// are a pure function of its current content: no materialized state, every
// call recomputes from raw transactions. Keeping it behind an interface lets
// a caching layer wrap the engine without touching rule logic.
type SummaryStore interface {
	TransactionsBetween(ctx context.Context, from time.Time, to time.Time, routeId *int) ([]models.Transaction, error)
	AccountsByIds(ctx context.Context, ids []int) (map[int]models.Account, error)
	LeadsByIds(ctx context.Context, ids []int) (map[int]models.Lead, error)
	RoutesByIds(ctx context.Context, ids []int) (map[int]models.Route, error)
}

type gormSummaryStore struct{}

// NewGormSummaryStore returns the production store backed by config.GetDB().
func NewGormSummaryStore() SummaryStore {
	return gormSummaryStore{}
}

func (gormSummaryStore) TransactionsBetween(ctx context.Context, from time.Time, to time.Time, routeId *int) ([]models.Transaction, error) {
	return models.ListTransactionsBetween(ctx, from, to, routeId)
}

func (gormSummaryStore) AccountsByIds(ctx context.Context, ids []int) (map[int]models.Account, error) {
	return models.AccountsByIds(ctx, ids)
}

func (gormSummaryStore) LeadsByIds(ctx context.Context, ids []int) (map[int]models.Lead, error) {
	return models.LeadsByIds(ctx, ids)
}

func (gormSummaryStore) RoutesByIds(ctx context.Context, ids []int) (map[int]models.Route, error) {
	return models.RoutesByIds(ctx, ids)
}
