package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide is the side of a journal line.
type EntrySide string

const (
	SideDebit  EntrySide = "debit"
	SideCredit EntrySide = "credit"
)

// Journal is one balanced financial event. It owns its transactions and is
// never deleted; the only state transition is voided false -> true.
type Journal struct {
	ID             int64     `db:"id" json:"id"`
	OrganizationID int64     `db:"organization_id" json:"organization_id"`
	ReferenceCode  string    `db:"reference_code" json:"reference_code"`
	JournalDate    time.Time `db:"journal_date" json:"journal_date"`
	Memo           string    `db:"memo" json:"memo"`
	VoucherNumber  string    `db:"voucher_number" json:"voucher_number"`
	Voided         bool      `db:"voided" json:"voided"`
	VoidReason     string    `db:"void_reason" json:"void_reason"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	Transactions []JournalTransaction `db:"-" json:"transactions,omitempty"`
}

// JournalTransaction is a single debit or credit line. AccountPath is a
// denormalized copy of the account path as it was at posting time, not a
// foreign key: history keeps the path even if the account is later renamed,
// unless an explicit rename cascade rewrites it.
type JournalTransaction struct {
	ID             int64           `db:"id" json:"id"`
	JournalID      int64           `db:"journal_id" json:"journal_id"`
	OrganizationID int64           `db:"organization_id" json:"organization_id"`
	AccountPath    string          `db:"account_path" json:"account_path"`
	Debit          bool            `db:"debit" json:"debit"`
	Credit         bool            `db:"credit" json:"credit"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	TxnDate        time.Time       `db:"txn_date" json:"txn_date"`
	Memo           string          `db:"memo" json:"memo"`
	Meta           Meta            `db:"meta" json:"meta"`
	Voided         bool            `db:"voided" json:"voided"`
}

// Meta is an opaque key/value bag carrying cross-references to the
// originating voucher, stored as JSON.
type Meta map[string]string

func (m Meta) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *Meta) Scan(src interface{}) error {
	if src == nil {
		*m = Meta{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Meta", src)
	}
	if len(data) == 0 {
		*m = Meta{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// PostingLine is one requested line of a journal posting.
type PostingLine struct {
	AccountPath string          `json:"account_path"`
	Amount      decimal.Decimal `json:"amount"`
	Side        EntrySide       `json:"side"`
}

type PostingRequest struct {
	Memo          string        `json:"memo"`
	Lines         []PostingLine `json:"lines"`
	VoucherNumber string        `json:"voucher_number"`
	Datetime      *time.Time    `json:"datetime"`
	Meta          Meta          `json:"meta"`
}

type VoidRequest struct {
	Reason string `json:"reason" validate:"required"`
}
