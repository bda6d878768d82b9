package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/grupoavance/lending_backend/models"
)

var testAccounts = map[int]models.Account{
	1: {ID: 1, Name: "Caja Empleado", AccountType: models.AccountTypeEmployeeCashFund},
	2: {ID: 2, Name: "Banamex", AccountType: models.AccountTypeBank},
	3: {ID: 3, Name: "Caja Oficina", AccountType: models.AccountTypeOfficeCashFund},
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func incomeTxn(amount string, source models.IncomeSource, destinationAccountId int) *models.Transaction {
	return &models.Transaction{
		Amount:               dec(amount),
		TransactionType:      models.TransactionTypeIncome,
		IncomeSource:         source,
		DestinationAccountId: destinationAccountId,
		TransactionDate:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func expenseTxn(amount string, source models.ExpenseSource, sourceAccountId int) *models.Transaction {
	return &models.Transaction{
		Amount:          dec(amount),
		TransactionType: models.TransactionTypeExpense,
		ExpenseSource:   source,
		SourceAccountId: sourceAccountId,
		TransactionDate: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
}

func transferTxn(amount string, sourceAccountId int, destinationAccountId int) *models.Transaction {
	return &models.Transaction{
		Amount:               dec(amount),
		TransactionType:      models.TransactionTypeTransfer,
		SourceAccountId:      sourceAccountId,
		DestinationAccountId: destinationAccountId,
		TransactionDate:      time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
	}
}

func checkDecimal(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", field, got, want)
	}
}

func TestCashLoanPaymentThenCashExpense(t *testing.T) {
	bucket := &LocalitySummary{}
	applyTransaction(bucket, incomeTxn("1000", models.IncomeSourceCashLoanPayment, 1), testAccounts)
	applyTransaction(bucket, expenseTxn("50", models.ExpenseSourceGasoline, 1), testAccounts)

	checkDecimal(t, "Abono", bucket.Abono, "1000")
	checkDecimal(t, "CashAbono", bucket.CashAbono, "1000")
	checkDecimal(t, "CashBalance", bucket.CashBalance, "950")
	checkDecimal(t, "Gasoline", bucket.Gasoline, "50")
	checkDecimal(t, "BankAbono", bucket.BankAbono, "0")
	checkDecimal(t, "BankBalance", bucket.BankBalance, "0")
}

func TestBankLoanPaymentHitsBankCounters(t *testing.T) {
	bucket := &LocalitySummary{}
	applyTransaction(bucket, incomeTxn("300", models.IncomeSourceBankLoanPayment, 2), testAccounts)

	checkDecimal(t, "Abono", bucket.Abono, "300")
	checkDecimal(t, "BankAbono", bucket.BankAbono, "300")
	checkDecimal(t, "BankBalance", bucket.BankBalance, "300")
	checkDecimal(t, "CashAbono", bucket.CashAbono, "0")
	checkDecimal(t, "CashBalance", bucket.CashBalance, "0")
}

func TestMoneyInvestmentIsNotAbono(t *testing.T) {
	bucket := &LocalitySummary{}
	applyTransaction(bucket, incomeTxn("5000", models.IncomeSourceMoneyInvestment, 1), testAccounts)

	checkDecimal(t, "MoneyInvestment", bucket.MoneyInvestment, "5000")
	checkDecimal(t, "Abono", bucket.Abono, "0")
	checkDecimal(t, "CashBalance", bucket.CashBalance, "5000")
}

func TestCashToBankTransferMovesBalancesAndTrackers(t *testing.T) {
	bucket := &LocalitySummary{}
	applyTransaction(bucket, incomeTxn("1000", models.IncomeSourceCashLoanPayment, 1), testAccounts)
	applyTransaction(bucket, expenseTxn("50", models.ExpenseSourceGasoline, 1), testAccounts)
	applyTransaction(bucket, transferTxn("200", 1, 2), testAccounts)

	checkDecimal(t, "CashBalance", bucket.CashBalance, "750")
	checkDecimal(t, "CashAbono", bucket.CashAbono, "800")
	checkDecimal(t, "BankBalance", bucket.BankBalance, "200")
	checkDecimal(t, "BankAbono", bucket.BankAbono, "200")
	checkDecimal(t, "TransferFromCash", bucket.TransferFromCash, "200")
	checkDecimal(t, "TransferToBank", bucket.TransferToBank, "200")
}

func TestBankToCashTransferSkipsTrackers(t *testing.T) {
	bucket := &LocalitySummary{}
	applyTransaction(bucket, transferTxn("200", 2, 1), testAccounts)

	checkDecimal(t, "BankBalance", bucket.BankBalance, "-200")
	checkDecimal(t, "BankAbono", bucket.BankAbono, "-200")
	checkDecimal(t, "CashBalance", bucket.CashBalance, "200")
	checkDecimal(t, "CashAbono", bucket.CashAbono, "200")
	checkDecimal(t, "TransferFromCash", bucket.TransferFromCash, "0")
	checkDecimal(t, "TransferToBank", bucket.TransferToBank, "0")
}

func TestCashToCashTransferIsNeutral(t *testing.T) {
	bucket := &LocalitySummary{}
	applyTransaction(bucket, transferTxn("75", 1, 3), testAccounts)

	checkDecimal(t, "CashBalance", bucket.CashBalance, "0")
	checkDecimal(t, "CashAbono", bucket.CashAbono, "0")
	checkDecimal(t, "BankBalance", bucket.BankBalance, "0")
	checkDecimal(t, "TransferFromCash", bucket.TransferFromCash, "0")
}

func TestBankSourcedExpenseLeavesBalancesUntouched(t *testing.T) {
	bucket := &LocalitySummary{}
	applyTransaction(bucket, expenseTxn("120", models.ExpenseSourceViatic, 2), testAccounts)

	checkDecimal(t, "Viatic", bucket.Viatic, "120")
	checkDecimal(t, "CashBalance", bucket.CashBalance, "0")
	checkDecimal(t, "BankBalance", bucket.BankBalance, "0")
}

func TestCreditAndLoanGrantedShareCounter(t *testing.T) {
	bucket := &LocalitySummary{}
	applyTransaction(bucket, expenseTxn("400", models.ExpenseSourceCredit, 1), testAccounts)
	applyTransaction(bucket, expenseTxn("600", models.ExpenseSourceLoanGranted, 1), testAccounts)

	checkDecimal(t, "Credito", bucket.Credito, "1000")
	checkDecimal(t, "CashBalance", bucket.CashBalance, "-1000")
}

func TestUnknownExpenseLandsInOtro(t *testing.T) {
	bucket := &LocalitySummary{}
	applyTransaction(bucket, expenseTxn("33", models.ExpenseSource("SOMETHING_NEW"), 1), testAccounts)

	checkDecimal(t, "Otro", bucket.Otro, "33")
	checkDecimal(t, "CashBalance", bucket.CashBalance, "-33")
}

func TestUnresolvedAccountDefaultsToCash(t *testing.T) {
	bucket := &LocalitySummary{}
	// destination 99 is not in the lookup map
	applyTransaction(bucket, incomeTxn("100", models.IncomeSourceCashLoanPayment, 99), testAccounts)
	applyTransaction(bucket, expenseTxn("40", models.ExpenseSourceGasoline, 99), testAccounts)

	checkDecimal(t, "CashAbono", bucket.CashAbono, "100")
	checkDecimal(t, "CashBalance", bucket.CashBalance, "60")
	checkDecimal(t, "BankAbono", bucket.BankAbono, "0")
}

func TestCashBalanceMayGoNegative(t *testing.T) {
	bucket := &LocalitySummary{}
	applyTransaction(bucket, expenseTxn("500", models.ExpenseSourceSalary, 1), testAccounts)

	checkDecimal(t, "CashBalance", bucket.CashBalance, "-500")
	checkDecimal(t, "Salary", bucket.Salary, "500")
}

// Every raw amount must land in exactly one bucket: summing any category
// counter across all buckets has to reproduce the raw per-category totals,
// however the transactions are spread over days and localities.
func TestSummariesConserveCategoryTotals(t *testing.T) {
	march2 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	march3 := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	transactions := []models.Transaction{
		{ID: 1, Amount: dec("1000"), TransactionType: models.TransactionTypeIncome, IncomeSource: models.IncomeSourceCashLoanPayment, TransactionDate: march2, DestinationAccountId: 1, RouteId: 3},
		{ID: 2, Amount: dec("300"), TransactionType: models.TransactionTypeIncome, IncomeSource: models.IncomeSourceBankLoanPayment, TransactionDate: march2, DestinationAccountId: 2, RouteId: 4},
		{ID: 3, Amount: dec("5000"), TransactionType: models.TransactionTypeIncome, IncomeSource: models.IncomeSourceMoneyInvestment, TransactionDate: march3, DestinationAccountId: 1, RouteId: 3},
		{ID: 4, Amount: dec("50"), TransactionType: models.TransactionTypeExpense, ExpenseSource: models.ExpenseSourceGasoline, TransactionDate: march2, SourceAccountId: 1, RouteId: 3},
		{ID: 5, Amount: dec("70"), TransactionType: models.TransactionTypeExpense, ExpenseSource: models.ExpenseSourceGasoline, TransactionDate: march3, SourceAccountId: 1, RouteId: 4},
		{ID: 6, Amount: dec("400"), TransactionType: models.TransactionTypeExpense, ExpenseSource: models.ExpenseSourceCredit, TransactionDate: march2, SourceAccountId: 1, RouteId: 3},
		{ID: 7, Amount: dec("600"), TransactionType: models.TransactionTypeExpense, ExpenseSource: models.ExpenseSourceLoanGranted, TransactionDate: march3, SourceAccountId: 2, RouteId: 4},
		{ID: 8, Amount: dec("90"), TransactionType: models.TransactionTypeExpense, ExpenseSource: models.ExpenseSourceLeadComission, TransactionDate: march2, SourceAccountId: 1, RouteId: 3},
		{ID: 9, Amount: dec("33"), TransactionType: models.TransactionTypeExpense, ExpenseSource: models.ExpenseSource("MYSTERY"), TransactionDate: march3, SourceAccountId: 1, RouteId: 3},
		{ID: 10, Amount: dec("200"), TransactionType: models.TransactionTypeTransfer, TransactionDate: march2, SourceAccountId: 1, DestinationAccountId: 2, RouteId: 3},
		{ID: 11, Amount: dec("80"), TransactionType: models.TransactionTypeTransfer, TransactionDate: march3, SourceAccountId: 2, DestinationAccountId: 1, RouteId: 4},
	}
	routes := map[int]models.Route{
		3: {ID: 3, Name: "Ruta Norte"},
		4: {ID: 4, Name: "Ruta Sur"},
	}

	summaries := buildLocalitySummaries(transactions, testAccounts, map[int]models.Lead{}, routes)
	if len(summaries) < 3 {
		t.Fatalf("expected the fixture to spread over at least 3 buckets, got %d", len(summaries))
	}

	var abono, moneyInvestment, gasoline, credito, leadComission, otro, transferToBank decimal.Decimal
	for _, s := range summaries {
		abono = abono.Add(s.Abono)
		moneyInvestment = moneyInvestment.Add(s.MoneyInvestment)
		gasoline = gasoline.Add(s.Gasoline)
		credito = credito.Add(s.Credito)
		leadComission = leadComission.Add(s.LeadComission)
		otro = otro.Add(s.Otro)
		transferToBank = transferToBank.Add(s.TransferToBank)
	}

	checkDecimal(t, "sum(Abono)", abono, "1300")
	checkDecimal(t, "sum(MoneyInvestment)", moneyInvestment, "5000")
	checkDecimal(t, "sum(Gasoline)", gasoline, "120")
	checkDecimal(t, "sum(Credito)", credito, "1000")
	checkDecimal(t, "sum(LeadComission)", leadComission, "90")
	checkDecimal(t, "sum(Otro)", otro, "33")
	checkDecimal(t, "sum(TransferToBank)", transferToBank, "200")
}

// A cash->bank transfer never changes CashBalance+BankBalance as a whole.
func TestTransferConservesCombinedBalance(t *testing.T) {
	bucket := &LocalitySummary{}
	applyTransaction(bucket, incomeTxn("1000", models.IncomeSourceCashLoanPayment, 1), testAccounts)
	before := bucket.CashBalance.Add(bucket.BankBalance)

	applyTransaction(bucket, transferTxn("350", 1, 2), testAccounts)
	after := bucket.CashBalance.Add(bucket.BankBalance)

	if !before.Equal(after) {
		t.Fatalf("combined balance changed across transfer: %s -> %s", before, after)
	}

	applyTransaction(bucket, transferTxn("100", 2, 1), testAccounts)
	if !after.Equal(bucket.CashBalance.Add(bucket.BankBalance)) {
		t.Fatalf("combined balance changed across bank->cash transfer")
	}
}
