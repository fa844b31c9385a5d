package models

// Counter is a per-(name, organization) sequence high-water mark used for
// human-readable voucher numbers. OrganizationID 0 is a legacy unscoped
// counter kept addressable for pre-multitenant sequences.
type Counter struct {
	Name           string `db:"name" json:"name"`
	OrganizationID int64  `db:"organization_id" json:"organization_id"`
	Prefix         string `db:"prefix" json:"prefix"`
	PaddingSize    int    `db:"padding_size" json:"padding_size"`
	Value          int64  `db:"value" json:"value"`
}

// CounterConfig is the formatting configuration supplied on first use.
type CounterConfig struct {
	Prefix      string `json:"prefix"`
	PaddingSize int    `json:"padding_size"`
}

// Sequence names reserved by the voucher workflows.
const (
	SeqReceiptVoucher        = "receipt_voucher"
	SeqPaymentVoucher        = "payment_voucher"
	SeqJournalVoucher        = "journal_voucher"
	SeqContraVoucher         = "contra_voucher"
	SeqSalesOrder            = "sales_order"
	SeqPurchaseOrder         = "purchase_order"
	SeqSalesReturnVoucher    = "sales_return_voucher"
	SeqPurchaseReturnVoucher = "purchase_return_voucher"
)
