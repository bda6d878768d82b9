package reports

import (
	"context"
	"time"

	"bitbucket.org/grupoavance/lending_backend/models"
	"github.com/shopspring/decimal"
)

// BankIncomeTransaction is the normalized audit row for bank-bound inflows.
type BankIncomeTransaction struct {
	ID           int                 `json:"id"`
	Amount       decimal.Decimal     `json:"amount"`
	Date         time.Time           `json:"date"`
	IncomeSource models.IncomeSource `json:"income_source"`
	LeadId       int                 `json:"lead_id"`
	LeadFullName string              `json:"lead_full_name"`
	RouteId      int                 `json:"route_id"`
	RouteName    string              `json:"route_name"`
	AccountName  string              `json:"account_name"`
}

type BankIncomeResponse struct {
	Success      bool                     `json:"success"`
	Transactions []*BankIncomeTransaction `json:"transactions"`
}

// GetBankIncomeTransactions lists INCOME transactions whose destination
// account is bank-typed, for audit against bank statements. When onlyAbonos
// is set, the list is restricted to borrower installments.
func GetBankIncomeTransactions(ctx context.Context, startDate string, endDate string, routeIds []int, onlyAbonos bool) (*BankIncomeResponse, error) {
	var start, end models.MyDateString
	if err := start.ParseString(startDate); err != nil {
		return nil, err
	}
	if err := end.ParseString(endDate); err != nil {
		return nil, err
	}
	return bankIncomeTransactions(ctx, NewGormSummaryStore(), start, end, routeIds, onlyAbonos)
}

func bankIncomeTransactions(ctx context.Context, store SummaryStore, startDate models.MyDateString, endDate models.MyDateString, routeIds []int, onlyAbonos bool) (*BankIncomeResponse, error) {
	transactions, err := store.TransactionsBetween(ctx, startDate.StartOfDayUTC(), endDate.EndOfDayUTC(), nil)
	if err != nil {
		return nil, err
	}

	wantedRoutes := make(map[int]bool, len(routeIds))
	for _, id := range routeIds {
		wantedRoutes[id] = true
	}

	var accountIds, leadIds, referencedRouteIds []int
	var candidates []*models.Transaction
	for i := range transactions {
		txn := &transactions[i]
		if txn.TransactionType != models.TransactionTypeIncome {
			continue
		}
		if onlyAbonos && !txn.IncomeSource.IsLoanPayment() {
			continue
		}
		if len(wantedRoutes) > 0 && !wantedRoutes[txn.SnapshotRouteId] && !wantedRoutes[txn.RouteId] {
			continue
		}
		candidates = append(candidates, txn)
		if txn.DestinationAccountId > 0 {
			accountIds = append(accountIds, txn.DestinationAccountId)
		}
		if txn.LeadId > 0 {
			leadIds = append(leadIds, txn.LeadId)
		}
		if routeId := txn.EffectiveRouteId(); routeId > 0 {
			referencedRouteIds = append(referencedRouteIds, routeId)
		}
	}

	accounts, err := store.AccountsByIds(ctx, accountIds)
	if err != nil {
		return nil, err
	}
	leads, err := store.LeadsByIds(ctx, leadIds)
	if err != nil {
		return nil, err
	}
	routes, err := store.RoutesByIds(ctx, referencedRouteIds)
	if err != nil {
		return nil, err
	}

	results := make([]*BankIncomeTransaction, 0, len(candidates))
	for _, txn := range candidates {
		account, ok := accounts[txn.DestinationAccountId]
		if !ok || !account.AccountType.IsBank() {
			continue
		}
		row := &BankIncomeTransaction{
			ID:           txn.ID,
			Amount:       txn.Amount,
			Date:         txn.TransactionDate,
			IncomeSource: txn.IncomeSource,
			LeadId:       txn.LeadId,
			RouteId:      txn.EffectiveRouteId(),
			AccountName:  account.Name,
		}
		if lead, ok := leads[txn.LeadId]; ok {
			row.LeadFullName = lead.FullName()
		}
		if route, ok := routes[row.RouteId]; ok {
			row.RouteName = route.Name
		}
		results = append(results, row)
	}

	return &BankIncomeResponse{Success: true, Transactions: results}, nil
}
