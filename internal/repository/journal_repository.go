package repository

import (
	"bookkeeping-web/internal/models"
	"time"

	"github.com/jmoiron/sqlx"
)

type JournalRepository struct {
	db *sqlx.DB
}

func NewJournalRepository(db *sqlx.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// CreateWithTransactions persists one journal and all its lines as a single
// database transaction: either the full set lands or nothing does.
func (r *JournalRepository) CreateWithTransactions(journal *models.Journal, txns []models.JournalTransaction) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.NamedExec(`
		INSERT INTO journals (organization_id, reference_code, journal_date, memo, voucher_number, voided, void_reason)
		VALUES (:organization_id, :reference_code, :journal_date, :memo, :voucher_number, :voided, :void_reason)`,
		journal)
	if err != nil {
		return err
	}
	journalID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	journal.ID = journalID

	for i := range txns {
		txns[i].JournalID = journalID
	}

	_, err = tx.NamedExec(`
		INSERT INTO journal_transactions (journal_id, organization_id, account_path, debit, credit, amount, txn_date, memo, meta, voided)
		VALUES (:journal_id, :organization_id, :account_path, :debit, :credit, :amount, :txn_date, :memo, :meta, :voided)`,
		txns)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	journal.Transactions = txns
	return nil
}

func (r *JournalRepository) FindByID(orgID, id int64) (*models.Journal, error) {
	var journal models.Journal
	query := "SELECT * FROM journals WHERE organization_id = ? AND id = ? LIMIT 1"
	if err := r.db.Get(&journal, query, orgID, id); err != nil {
		return nil, err
	}

	txnQuery := "SELECT * FROM journal_transactions WHERE journal_id = ? ORDER BY id"
	if err := r.db.Select(&journal.Transactions, txnQuery, id); err != nil {
		return nil, err
	}
	return &journal, nil
}

func (r *JournalRepository) FindByVoucherNumber(orgID int64, voucherNumber string) (*models.Journal, error) {
	var journal models.Journal
	query := "SELECT * FROM journals WHERE organization_id = ? AND voucher_number = ? LIMIT 1"
	if err := r.db.Get(&journal, query, orgID, voucherNumber); err != nil {
		return nil, err
	}
	return &journal, nil
}

func (r *JournalRepository) ExistsVoucherNumber(orgID int64, voucherNumber string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM journals WHERE organization_id = ? AND voucher_number = ?"
	if err := r.db.Get(&count, query, orgID, voucherNumber); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *JournalRepository) FindAll(orgID int64, limit, offset int, search string) ([]models.Journal, int, error) {
	var journals []models.Journal
	var total int

	whereClause := "WHERE organization_id = ?"
	args := []interface{}{orgID}
	if search != "" {
		whereClause += " AND (voucher_number LIKE ? OR memo LIKE ?)"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	if err := r.db.Get(&total, "SELECT COUNT(*) FROM journals "+whereClause, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM journals " + whereClause + " ORDER BY journal_date DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	if err := r.db.Select(&journals, query, args...); err != nil {
		return nil, 0, err
	}
	return journals, total, nil
}

// Void flips the journal and all its transactions in one database
// transaction. State checks (exists, not already voided) are the service's
// job; this only applies the transition.
func (r *JournalRepository) Void(orgID, journalID int64, reason string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE journals SET voided = TRUE, void_reason = ?
	                  WHERE organization_id = ? AND id = ?`, reason, orgID, journalID)
	if err != nil {
		return err
	}
	_, err = tx.Exec("UPDATE journal_transactions SET voided = TRUE WHERE journal_id = ?", journalID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// HasTransactionsForPath reports whether any transaction (voided or not)
// references the path or any path beneath it. Used by the account deletion
// guard: accounts with financial history are retire-only.
func (r *JournalRepository) HasTransactionsForPath(orgID int64, path string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM journal_transactions
	          WHERE organization_id = ? AND (account_path = ? OR account_path LIKE CONCAT(?, ':%'))`
	if err := r.db.Get(&count, query, orgID, path, escapeLike(path)); err != nil {
		return false, err
	}
	return count > 0, nil
}

// DistinctPaths returns every account path referenced by non-voided
// transactions. The consistency checker compares these against the chart of
// accounts to find orphaned references.
func (r *JournalRepository) DistinctPaths(orgID int64) ([]string, error) {
	var paths []string
	query := `SELECT DISTINCT account_path FROM journal_transactions
	          WHERE organization_id = ? AND voided = FALSE`
	if err := r.db.Select(&paths, query, orgID); err != nil {
		return nil, err
	}
	return paths, nil
}

// SumByPath returns credit-positive signed sums per distinct account path
// under the prefix, excluding voided transactions and anything outside the
// date window.
func (r *JournalRepository) SumByPath(orgID int64, pathPrefix string, start, end *time.Time) ([]models.PathBalance, error) {
	query := `SELECT account_path,
	                 COALESCE(SUM(CASE WHEN credit THEN amount ELSE -amount END), 0) AS amount
	          FROM journal_transactions
	          WHERE organization_id = ?
	            AND voided = FALSE
	            AND (account_path = ? OR account_path LIKE CONCAT(?, ':%'))`
	args := []interface{}{orgID, pathPrefix, escapeLike(pathPrefix)}

	if start != nil {
		query += " AND txn_date >= ?"
		args = append(args, *start)
	}
	if end != nil {
		query += " AND txn_date <= ?"
		args = append(args, *end)
	}
	query += " GROUP BY account_path ORDER BY account_path"

	var balances []models.PathBalance
	if err := r.db.Select(&balances, query, args...); err != nil {
		return nil, err
	}
	return balances, nil
}

// AccountActivity returns raw debit/credit totals for every active account
// as of the given date. Accounts with no postings come back with zero sums.
func (r *JournalRepository) AccountActivity(orgID int64, asOf time.Time) ([]models.AccountActivity, error) {
	query := `SELECT a.account_code,
	                 a.account_name,
	                 a.account_type,
	                 a.path,
	                 COALESCE(SUM(CASE WHEN t.debit THEN t.amount ELSE 0 END), 0) AS total_debit,
	                 COALESCE(SUM(CASE WHEN t.credit THEN t.amount ELSE 0 END), 0) AS total_credit
	          FROM accounts a
	          LEFT JOIN journal_transactions t
	            ON t.organization_id = a.organization_id
	           AND t.account_path = a.path
	           AND t.voided = FALSE
	           AND t.txn_date <= ?
	          WHERE a.organization_id = ? AND a.is_active = TRUE
	          GROUP BY a.id, a.account_code, a.account_name, a.account_type, a.path
	          ORDER BY a.account_code`

	var rows []models.AccountActivity
	if err := r.db.Select(&rows, query, asOf, orgID); err != nil {
		return nil, err
	}
	return rows, nil
}
