package models

import "github.com/shopspring/decimal"

// PathBalance is the signed balance of one full account path.
// The core-wide sign convention is credit-positive: credits add, debits
// subtract. A debit-normal account in its normal state therefore shows a
// negative PathBalance.
type PathBalance struct {
	Path   string          `db:"account_path" json:"path"`
	Amount decimal.Decimal `db:"amount" json:"amount"`
}

// AccountActivity is the raw debit/credit sums for one account, as read
// from the transaction store before normal-balance presentation.
type AccountActivity struct {
	AccountCode string          `db:"account_code" json:"account_code"`
	AccountName string          `db:"account_name" json:"account_name"`
	AccountType AccountType     `db:"account_type" json:"account_type"`
	Path        string          `db:"path" json:"path"`
	TotalDebit  decimal.Decimal `db:"total_debit" json:"total_debit"`
	TotalCredit decimal.Decimal `db:"total_credit" json:"total_credit"`
}

// TrialBalanceRow reports one account's net balance in its normal-balance
// column. A balance opposite the normal side stays in the normal column as a
// negative amount; it is never moved to the other column.
type TrialBalanceRow struct {
	AccountCode  string          `json:"account_code"`
	AccountName  string          `json:"account_name"`
	AccountType  AccountType     `json:"account_type"`
	DebitAmount  decimal.Decimal `json:"debit_amount"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
}

type TrialBalance struct {
	Accounts     []TrialBalanceRow `json:"accounts"`
	TotalDebits  decimal.Decimal   `json:"total_debits"`
	TotalCredits decimal.Decimal   `json:"total_credits"`
}

type TrialBalanceValidation struct {
	IsBalanced bool            `json:"is_balanced"`
	Difference decimal.Decimal `json:"difference"`
}
