package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "INCOME"
	TransactionTypeExpense  TransactionType = "EXPENSE"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

func (t TransactionType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *TransactionType) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("transaction type must be string")
	}
	switch str {
	case "INCOME":
		*t = TransactionTypeIncome
	case "EXPENSE":
		*t = TransactionTypeExpense
	case "TRANSFER":
		*t = TransactionTypeTransfer
	default:
		return errors.New("invalid transaction type")
	}
	return nil
}

type AccountType string

const (
	AccountTypeEmployeeCashFund AccountType = "EMPLOYEE_CASH_FUND"
	AccountTypeBank             AccountType = "BANK"
	AccountTypeOfficeCashFund   AccountType = "OFFICE_CASH_FUND"
	AccountTypePrepaidGas       AccountType = "PREPAID_GAS"
	AccountTypeTravelExpenses   AccountType = "TRAVEL_EXPENSES"
)

// IsBank is the only account classification the ledger rules care about:
// everything that is not BANK moves through the cash counters.
func (t AccountType) IsBank() bool {
	return t == AccountTypeBank
}

func (t AccountType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *AccountType) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("account type must be string")
	}
	accountTypes := map[string]AccountType{
		"EMPLOYEE_CASH_FUND": AccountTypeEmployeeCashFund,
		"BANK":               AccountTypeBank,
		"OFFICE_CASH_FUND":   AccountTypeOfficeCashFund,
		"PREPAID_GAS":        AccountTypePrepaidGas,
		"TRAVEL_EXPENSES":    AccountTypeTravelExpenses,
	}
	var ok bool
	*t, ok = accountTypes[str]
	if !ok {
		return errors.New("invalid account type")
	}
	return nil
}

type IncomeSource string

const (
	IncomeSourceCashLoanPayment IncomeSource = "CASH_LOAN_PAYMENT"
	IncomeSourceBankLoanPayment IncomeSource = "BANK_LOAN_PAYMENT"
	IncomeSourceMoneyInvestment IncomeSource = "MONEY_INVESTMENT"
	IncomeSourceOther           IncomeSource = "OTHER_INCOME"
)

// IsLoanPayment reports whether the income is a borrower installment (abono).
// The cash/bank split is decided by the destination account, not the source tag.
func (s IncomeSource) IsLoanPayment() bool {
	return s == IncomeSourceCashLoanPayment || s == IncomeSourceBankLoanPayment
}

func (s IncomeSource) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(s))), nil
}

func (s *IncomeSource) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("income source must be string")
	}
	incomeSources := map[string]IncomeSource{
		"CASH_LOAN_PAYMENT": IncomeSourceCashLoanPayment,
		"BANK_LOAN_PAYMENT": IncomeSourceBankLoanPayment,
		"MONEY_INVESTMENT":  IncomeSourceMoneyInvestment,
		"OTHER_INCOME":      IncomeSourceOther,
	}
	var ok bool
	*s, ok = incomeSources[str]
	if !ok {
		return errors.New("invalid income source")
	}
	return nil
}

type ExpenseSource string

const (
	ExpenseSourceGasoline             ExpenseSource = "GASOLINE"
	ExpenseSourceViatic               ExpenseSource = "VIATIC"
	ExpenseSourceAccommodation        ExpenseSource = "ACCOMMODATION"
	ExpenseSourceVehicleMaintenance   ExpenseSource = "VEHICLE_MAINTENANCE"
	ExpenseSourceSalary               ExpenseSource = "NOMINA_SALARY"
	ExpenseSourceExternalSalary       ExpenseSource = "EXTERNAL_SALARY"
	ExpenseSourceCredit               ExpenseSource = "CREDITO"
	ExpenseSourceLoanGranted          ExpenseSource = "LOAN_GRANTED"
	ExpenseSourceLoanGrantedComission ExpenseSource = "LOAN_GRANTED_COMISSION"
	ExpenseSourceLeadComission        ExpenseSource = "LEAD_COMISSION"
	ExpenseSourceLeadExpense          ExpenseSource = "LEAD_EXPENSE"
	ExpenseSourceOther                ExpenseSource = "OTRO"
)

func (s ExpenseSource) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(s))), nil
}

func (s *ExpenseSource) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("expense source must be string")
	}
	expenseSources := map[string]ExpenseSource{
		"GASOLINE":               ExpenseSourceGasoline,
		"VIATIC":                 ExpenseSourceViatic,
		"ACCOMMODATION":          ExpenseSourceAccommodation,
		"VEHICLE_MAINTENANCE":    ExpenseSourceVehicleMaintenance,
		"NOMINA_SALARY":          ExpenseSourceSalary,
		"EXTERNAL_SALARY":        ExpenseSourceExternalSalary,
		"CREDITO":                ExpenseSourceCredit,
		"LOAN_GRANTED":           ExpenseSourceLoanGranted,
		"LOAN_GRANTED_COMISSION": ExpenseSourceLoanGrantedComission,
		"LEAD_COMISSION":         ExpenseSourceLeadComission,
		"LEAD_EXPENSE":           ExpenseSourceLeadExpense,
		"OTRO":                   ExpenseSourceOther,
	}
	var ok bool
	*s, ok = expenseSources[str]
	if !ok {
		return errors.New("invalid expense source")
	}
	return nil
}

type DiscrepancyType string

const (
	DiscrepancyTypePayment DiscrepancyType = "PAYMENT"
	DiscrepancyTypeCredit  DiscrepancyType = "CREDIT"
	DiscrepancyTypeExpense DiscrepancyType = "EXPENSE"
)

func (t DiscrepancyType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *DiscrepancyType) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("discrepancy type must be string")
	}
	switch str {
	case "PAYMENT":
		*t = DiscrepancyTypePayment
	case "CREDIT":
		*t = DiscrepancyTypeCredit
	case "EXPENSE":
		*t = DiscrepancyTypeExpense
	default:
		return errors.New("invalid discrepancy type")
	}
	return nil
}

type DiscrepancyStatus string

const (
	DiscrepancyStatusPending   DiscrepancyStatus = "PENDING"
	DiscrepancyStatusCompleted DiscrepancyStatus = "COMPLETED"
	DiscrepancyStatusDiscarded DiscrepancyStatus = "DISCARDED"
)

func (t DiscrepancyStatus) Valid() bool {
	switch t {
	case DiscrepancyStatusPending, DiscrepancyStatusCompleted, DiscrepancyStatusDiscarded:
		return true
	}
	return false
}

func (t DiscrepancyStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *DiscrepancyStatus) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("discrepancy status must be string")
	}
	status := DiscrepancyStatus(str)
	if !status.Valid() {
		return errors.New("invalid discrepancy status")
	}
	*t = status
	return nil
}

type MyDateString time.Time

func (t MyDateString) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(time.Time(t).UTC().Format(time.RFC3339))), nil
}

// Parse the string into time.Time object. Accepts a bare date or a full
// ISO-8601 instant (already normalized to UTC by the caller).
func (t *MyDateString) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("MyDateString must be string")
	}
	return t.ParseString(str)
}

func (t *MyDateString) ParseString(str string) error {
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05", time.RFC3339} {
		if parsed, err := time.Parse(layout, str); err == nil {
			*t = MyDateString(parsed.UTC())
			return nil
		}
	}
	return errors.New("error parsing datetime")
}

func (t *MyDateString) StartOfDayUTC() time.Time {
	d := time.Time(*t).UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func (t *MyDateString) EndOfDayUTC() time.Time {
	d := time.Time(*t).UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999000000, time.UTC)
}

// Value implements the driver.Valuer interface
func (t MyDateString) Value() (driver.Value, error) {
	return time.Time(t), nil
}

// Scan implements the sql.Scanner interface
func (t *MyDateString) Scan(value interface{}) error {
	if value == nil {
		*t = MyDateString(time.Time{})
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*t = MyDateString(v)
	default:
		return fmt.Errorf("cannot convert %T to MyDateString", value)
	}
	return nil
}
