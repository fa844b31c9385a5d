package models

import "time"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// PathDelimiter separates the segments of an account path,
// e.g. "Assets:Accounts Receivable:Acme Co".
const PathDelimiter = ":"

type Account struct {
	ID             int64       `db:"id" json:"id"`
	OrganizationID int64       `db:"organization_id" json:"organization_id"`
	AccountCode    string      `db:"account_code" json:"account_code"`
	AccountName    string      `db:"account_name" json:"account_name"`
	Path           string      `db:"path" json:"path"`
	AccountType    AccountType `db:"account_type" json:"account_type"`
	Subtype        string      `db:"subtype" json:"subtype"`
	ParentCode     *string     `db:"parent_code" json:"parent_code"`
	IsActive       bool        `db:"is_active" json:"is_active"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// AccountNode is an Account with its children resolved, for hierarchy views.
type AccountNode struct {
	Account
	Children []*AccountNode `json:"children"`
}

type AccountRequest struct {
	Path     string `json:"path" validate:"required"`
	Subtype  string `json:"subtype"`
	IsActive bool   `json:"is_active"`
}

type RenameAccountRequest struct {
	NewName             string `json:"new_name" validate:"required"`
	RewriteTransactions bool   `json:"rewrite_transactions"`
}
