package reports

import (
	"context"
	"sort"
	"time"

	"bitbucket.org/grupoavance/lending_backend/config"
	"bitbucket.org/grupoavance/lending_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// LocalitySummary is one (day, locality) row of the transactions summary.
// CashBalance and BankBalance are net movement within the queried window for
// that bucket, not cumulative account balances; both may be negative.
type LocalitySummary struct {
	Date        time.Time `json:"date"`
	LocalityKey string    `json:"locality"`

	Abono           decimal.Decimal `json:"abono"`
	CashAbono       decimal.Decimal `json:"cash_abono"`
	BankAbono       decimal.Decimal `json:"bank_abono"`
	Credito         decimal.Decimal `json:"credito"`
	MoneyInvestment decimal.Decimal `json:"money_investment"`

	Gasoline           decimal.Decimal `json:"gasoline"`
	Viatic             decimal.Decimal `json:"viatic"`
	Accommodation      decimal.Decimal `json:"accommodation"`
	VehicleMaintenance decimal.Decimal `json:"vehicle_maintenance"`
	Salary             decimal.Decimal `json:"salary"`
	ExternalSalary     decimal.Decimal `json:"external_salary"`
	LeadExpense        decimal.Decimal `json:"lead_expense"`
	Otro               decimal.Decimal `json:"otro"`

	LoanGrantedComission decimal.Decimal `json:"loan_granted_comission"`
	LeadComission        decimal.Decimal `json:"lead_comission"`

	CashBalance      decimal.Decimal `json:"cash_balance"`
	BankBalance      decimal.Decimal `json:"bank_balance"`
	TransferFromCash decimal.Decimal `json:"transfer_from_cash"`
	TransferToBank   decimal.Decimal `json:"transfer_to_bank"`

	Balance decimal.Decimal `json:"balance"`
	Profit  decimal.Decimal `json:"profit"`
}

func (s *LocalitySummary) totalIncome() decimal.Decimal {
	return s.Abono.Add(s.MoneyInvestment)
}

func (s *LocalitySummary) totalExpenses() decimal.Decimal {
	return s.Gasoline.
		Add(s.Viatic).
		Add(s.Accommodation).
		Add(s.VehicleMaintenance).
		Add(s.Salary).
		Add(s.ExternalSalary).
		Add(s.LeadExpense).
		Add(s.Credito).
		Add(s.Otro)
}

func (s *LocalitySummary) totalComissions() decimal.Decimal {
	return s.LoanGrantedComission.Add(s.LeadComission)
}

// Summarizer is the query surface for the transactions summary. The engine
// recomputes from scratch on every call; WithSummaryCache wraps the same
// interface when a cache is wanted.
type Summarizer interface {
	Summarize(ctx context.Context, startDate models.MyDateString, endDate models.MyDateString, routeId *int) ([]*LocalitySummary, error)
}

type SummaryEngine struct {
	store  SummaryStore
	logger *logrus.Logger
}

func NewSummaryEngine(store SummaryStore, logger *logrus.Logger) *SummaryEngine {
	return &SummaryEngine{store: store, logger: logger}
}

// Summarize fetches the transaction window, prefetches every referenced
// account/lead/route in one bulk lookup per type, then folds each transaction
// into its (day, locality) bucket. All lookups complete before folding
// begins. Only buckets that received at least one transaction are emitted.
func (e *SummaryEngine) Summarize(ctx context.Context, startDate models.MyDateString, endDate models.MyDateString, routeId *int) ([]*LocalitySummary, error) {
	started := time.Now()

	from := startDate.StartOfDayUTC()
	to := endDate.EndOfDayUTC()

	transactions, err := e.store.TransactionsBetween(ctx, from, to, routeId)
	if err != nil {
		return nil, err
	}

	var accountIds, leadIds, routeIds []int
	for i := range transactions {
		txn := &transactions[i]
		if txn.SourceAccountId > 0 {
			accountIds = append(accountIds, txn.SourceAccountId)
		}
		if txn.DestinationAccountId > 0 {
			accountIds = append(accountIds, txn.DestinationAccountId)
		}
		if txn.LeadId > 0 {
			leadIds = append(leadIds, txn.LeadId)
		}
		if txn.RouteId > 0 {
			routeIds = append(routeIds, txn.RouteId)
		}
		if txn.SnapshotRouteId > 0 {
			routeIds = append(routeIds, txn.SnapshotRouteId)
		}
	}

	accounts, err := e.store.AccountsByIds(ctx, accountIds)
	if err != nil {
		return nil, err
	}
	leads, err := e.store.LeadsByIds(ctx, leadIds)
	if err != nil {
		return nil, err
	}
	routes, err := e.store.RoutesByIds(ctx, routeIds)
	if err != nil {
		return nil, err
	}

	results := buildLocalitySummaries(transactions, accounts, leads, routes)

	if e.logger != nil {
		if ms := time.Since(started).Milliseconds(); ms > 500 {
			e.logger.WithFields(logrus.Fields{
				"module":       "transactionsSummary.go",
				"ms":           ms,
				"transactions": len(transactions),
				"buckets":      len(results),
			}).Warn("slow transactions summary")
		}
	}

	return results, nil
}

type bucketKey struct {
	day      string
	locality string
}

func buildLocalitySummaries(transactions []models.Transaction, accounts map[int]models.Account, leads map[int]models.Lead, routes map[int]models.Route) []*LocalitySummary {
	buckets := make(map[bucketKey]*LocalitySummary)

	for i := range transactions {
		txn := &transactions[i]
		day := txn.TransactionDate.UTC()
		key := bucketKey{
			day:      day.Format("2006-01-02"),
			locality: resolveLocality(txn, leads, routes),
		}
		bucket := buckets[key]
		if bucket == nil {
			bucket = &LocalitySummary{
				Date:        time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
				LocalityKey: key.locality,
			}
			buckets[key] = bucket
		}
		applyTransaction(bucket, txn, accounts)
	}

	results := make([]*LocalitySummary, 0, len(buckets))
	for _, bucket := range buckets {
		income := bucket.totalIncome()
		expenses := bucket.totalExpenses()
		comissions := bucket.totalComissions()
		// Comissions reduce the balance but are excluded from profit.
		bucket.Balance = income.Sub(expenses).Sub(comissions)
		bucket.Profit = income.Sub(expenses)
		results = append(results, bucket)
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].Date.Equal(results[j].Date) {
			return results[i].Date.Before(results[j].Date)
		}
		return results[i].LocalityKey < results[j].LocalityKey
	})
	return results
}

// GetTransactionsSummary is the operation the admin screens call. Dates are
// ISO-8601, already normalized to UTC by the caller; any business-timezone
// offset is the caller's job.
func GetTransactionsSummary(ctx context.Context, startDate string, endDate string, routeId *int) ([]*LocalitySummary, error) {
	var start, end models.MyDateString
	if err := start.ParseString(startDate); err != nil {
		return nil, err
	}
	if err := end.ParseString(endDate); err != nil {
		return nil, err
	}

	var summarizer Summarizer = NewSummaryEngine(NewGormSummaryStore(), config.GetLogger())
	summarizer = WithSummaryCache(summarizer)
	return summarizer.Summarize(ctx, start, end, routeId)
}
