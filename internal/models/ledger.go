package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerGroup and Ledger form the simplified two-level hierarchy end users
// edit directly. They are not the ledger of record: the posting engine only
// ever targets the Account path the adapter materializes from them.
type LedgerGroup struct {
	ID             int64     `db:"id" json:"id"`
	OrganizationID int64     `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name" json:"name"`
	Code           string    `db:"code" json:"code"`
	ParentID       *int64    `db:"parent_id" json:"parent_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type Ledger struct {
	ID             int64           `db:"id" json:"id"`
	OrganizationID int64           `db:"organization_id" json:"organization_id"`
	GroupID        int64           `db:"group_id" json:"group_id"`
	Name           string          `db:"name" json:"name"`
	Code           string          `db:"code" json:"code"`
	OpeningBalance decimal.Decimal `db:"opening_balance" json:"opening_balance"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

type LedgerGroupRequest struct {
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code"`
	ParentID *int64 `json:"parent_id"`
}

type LedgerRequest struct {
	Name           string          `json:"name" validate:"required"`
	Code           string          `json:"code"`
	GroupID        int64           `json:"group_id" validate:"required"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}
