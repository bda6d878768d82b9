package models

import (
	"context"

	"bitbucket.org/grupoavance/lending_backend/config"
	"bitbucket.org/grupoavance/lending_backend/utils"
	"github.com/shopspring/decimal"
)

// Account balances are maintained by the upstream entry flows; the reporting
// engine recomputes movement from raw transactions instead of reading Amount.
type Account struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	AccountType AccountType     `gorm:"index;size:30;not null" json:"account_type"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
}

// AccountsByIds fetches all requested accounts in a single query.
func AccountsByIds(ctx context.Context, ids []int) (map[int]Account, error) {
	result := make(map[int]Account, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	db := config.GetDB()

	var accounts []Account
	if err := db.WithContext(ctx).Where("id IN ?", utils.UniqueSlice(ids)).Find(&accounts).Error; err != nil {
		return nil, err
	}
	for _, account := range accounts {
		result[account.ID] = account
	}
	return result, nil
}
