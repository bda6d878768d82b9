package reports

import (
	"bitbucket.org/grupoavance/lending_backend/models"
)

// isBankAccount resolves the only classification the ledger cares about.
// An unresolvable account is treated as non-bank, so the movement stays on
// the cash counters (default-to-cash; see DESIGN.md before "fixing" this).
func isBankAccount(accounts map[int]models.Account, id int) bool {
	if id <= 0 {
		return false
	}
	account, ok := accounts[id]
	if !ok {
		return false
	}
	return account.AccountType.IsBank()
}

// applyTransaction folds one transaction into its bucket.
//
// The two asymmetries below are carried over from the books this system
// replaced and are confirmed behavior, not bugs:
//   - bank-sourced expenses update their category counter but never touch
//     BankBalance; BankBalance accumulates inbound bank movement only.
//   - BANK->CASH transfers do not update the transfer trackers; only the
//     CASH->BANK direction is tracked.
func applyTransaction(bucket *LocalitySummary, txn *models.Transaction, accounts map[int]models.Account) {
	amount := txn.Amount

	switch txn.TransactionType {
	case models.TransactionTypeIncome:
		if txn.IncomeSource == models.IncomeSourceMoneyInvestment {
			bucket.MoneyInvestment = bucket.MoneyInvestment.Add(amount)
		} else {
			// Loan payments and every other income tag count as abono.
			bucket.Abono = bucket.Abono.Add(amount)
		}
		if isBankAccount(accounts, txn.DestinationAccountId) {
			bucket.BankAbono = bucket.BankAbono.Add(amount)
			bucket.BankBalance = bucket.BankBalance.Add(amount)
		} else {
			bucket.CashAbono = bucket.CashAbono.Add(amount)
			bucket.CashBalance = bucket.CashBalance.Add(amount)
		}

	case models.TransactionTypeExpense:
		switch txn.ExpenseSource {
		case models.ExpenseSourceGasoline:
			bucket.Gasoline = bucket.Gasoline.Add(amount)
		case models.ExpenseSourceViatic:
			bucket.Viatic = bucket.Viatic.Add(amount)
		case models.ExpenseSourceAccommodation:
			bucket.Accommodation = bucket.Accommodation.Add(amount)
		case models.ExpenseSourceVehicleMaintenance:
			bucket.VehicleMaintenance = bucket.VehicleMaintenance.Add(amount)
		case models.ExpenseSourceSalary:
			bucket.Salary = bucket.Salary.Add(amount)
		case models.ExpenseSourceExternalSalary:
			bucket.ExternalSalary = bucket.ExternalSalary.Add(amount)
		case models.ExpenseSourceCredit, models.ExpenseSourceLoanGranted:
			// Both tags are loan principal leaving the operation.
			bucket.Credito = bucket.Credito.Add(amount)
		case models.ExpenseSourceLoanGrantedComission:
			bucket.LoanGrantedComission = bucket.LoanGrantedComission.Add(amount)
		case models.ExpenseSourceLeadComission:
			bucket.LeadComission = bucket.LeadComission.Add(amount)
		case models.ExpenseSourceLeadExpense:
			bucket.LeadExpense = bucket.LeadExpense.Add(amount)
		default:
			// Unknown tags land in the catch-all instead of being dropped.
			bucket.Otro = bucket.Otro.Add(amount)
		}
		if !isBankAccount(accounts, txn.SourceAccountId) {
			bucket.CashBalance = bucket.CashBalance.Sub(amount)
		}

	case models.TransactionTypeTransfer:
		sourceIsBank := isBankAccount(accounts, txn.SourceAccountId)
		destinationIsBank := isBankAccount(accounts, txn.DestinationAccountId)
		switch {
		case !sourceIsBank && destinationIsBank:
			bucket.CashAbono = bucket.CashAbono.Sub(amount)
			bucket.CashBalance = bucket.CashBalance.Sub(amount)
			bucket.BankAbono = bucket.BankAbono.Add(amount)
			bucket.BankBalance = bucket.BankBalance.Add(amount)
			bucket.TransferFromCash = bucket.TransferFromCash.Add(amount)
			bucket.TransferToBank = bucket.TransferToBank.Add(amount)
		case sourceIsBank && !destinationIsBank:
			bucket.BankAbono = bucket.BankAbono.Sub(amount)
			bucket.BankBalance = bucket.BankBalance.Sub(amount)
			bucket.CashAbono = bucket.CashAbono.Add(amount)
			bucket.CashBalance = bucket.CashBalance.Add(amount)
		default:
			// cash->cash and bank->bank movements do not change the split.
		}
	}
}
