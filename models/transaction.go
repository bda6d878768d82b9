package models

import (
	"context"
	"time"

	"bitbucket.org/grupoavance/lending_backend/config"
	"github.com/shopspring/decimal"
)

// Transaction is created exclusively by the upstream entry flows (loan
// collection, disbursement, funding). This service only ever reads it.
type Transaction struct {
	ID                   int             `gorm:"primary_key" json:"id"`
	Amount               decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	TransactionType      TransactionType `gorm:"index;size:20;not null" json:"transaction_type"`
	IncomeSource         IncomeSource    `gorm:"size:50" json:"income_source"`
	ExpenseSource        ExpenseSource   `gorm:"size:50" json:"expense_source"`
	TransactionDate      time.Time       `gorm:"index;not null" json:"transaction_date"`
	SourceAccountId      int             `gorm:"index" json:"source_account_id"`
	DestinationAccountId int             `gorm:"index" json:"destination_account_id"`
	LeadId               int             `gorm:"index" json:"lead_id"`
	RouteId              int             `gorm:"index" json:"route_id"`
	SnapshotRouteId      int             `gorm:"index" json:"snapshot_route_id"`
	Description          string          `gorm:"size:255" json:"description"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// EffectiveRouteId prefers the historical route snapshot over the live route,
// so a lead reassignment does not rewrite where old collections are reported.
func (t *Transaction) EffectiveRouteId() int {
	if t.SnapshotRouteId > 0 {
		return t.SnapshotRouteId
	}
	return t.RouteId
}

// ListTransactionsBetween returns the raw window [from, to], optionally
// restricted to one route (snapshot or live match).
func ListTransactionsBetween(ctx context.Context, from time.Time, to time.Time, routeId *int) ([]Transaction, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("transaction_date BETWEEN ? AND ?", from, to)
	if routeId != nil && *routeId > 0 {
		dbCtx = dbCtx.Where("snapshot_route_id = ? OR route_id = ?", *routeId, *routeId)
	}

	var results []Transaction
	if err := dbCtx.Order("transaction_date, id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
