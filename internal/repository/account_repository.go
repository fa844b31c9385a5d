package repository

import (
	"bookkeeping-web/internal/models"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindAll(orgID int64, limit, offset int, search string) ([]models.Account, int, error) {
	var accounts []models.Account
	var total int

	// Build query with search
	whereClause := "WHERE organization_id = ?"
	args := []interface{}{orgID}

	if search != "" {
		whereClause += " AND (account_code LIKE ? OR account_name LIKE ? OR path LIKE ?)"
		searchPattern := "%" + search + "%"
		args = append(args, searchPattern, searchPattern, searchPattern)
	}

	// Get total count
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM accounts %s", whereClause)
	err := r.db.Get(&total, countQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, organization_id, account_code, account_name, path,
		       account_type, COALESCE(subtype, '') as subtype, parent_code,
		       is_active, created_at, updated_at
		FROM accounts %s
		ORDER BY account_code
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	err = r.db.Select(&accounts, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

func (r *AccountRepository) FindByID(id int64) (*models.Account, error) {
	var account models.Account
	query := "SELECT * FROM accounts WHERE id = ? LIMIT 1"
	err := r.db.Get(&account, query, id)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByPath matches case-insensitively: the path column uses a
// case-insensitive collation, so no LOWER() is needed here.
func (r *AccountRepository) FindByPath(orgID int64, path string) (*models.Account, error) {
	var account models.Account
	query := "SELECT * FROM accounts WHERE organization_id = ? AND path = ? LIMIT 1"
	err := r.db.Get(&account, query, orgID, path)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) FindByCode(orgID int64, code string) (*models.Account, error) {
	var account models.Account
	query := "SELECT * FROM accounts WHERE organization_id = ? AND account_code = ? LIMIT 1"
	err := r.db.Get(&account, query, orgID, code)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) Create(account *models.Account) error {
	query := `INSERT INTO accounts (organization_id, account_code, account_name, path, account_type, subtype, parent_code, is_active)
	          VALUES (:organization_id, :account_code, :account_name, :path, :account_type, :subtype, :parent_code, :is_active)`
	result, err := r.db.NamedExec(query, account)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	account.ID = id
	return nil
}

func (r *AccountRepository) Update(account *models.Account) error {
	query := `UPDATE accounts SET account_name = :account_name, subtype = :subtype,
	          is_active = :is_active WHERE id = :id`
	_, err := r.db.NamedExec(query, account)
	return err
}

// NextCodeInRange returns one past the highest code used within [lo, hi) for
// the organization, i.e. the next candidate code. A result equal to hi means
// the block is full; the caller must reject it rather than spill into the
// next type's block. Concurrent callers may race to the same code; the unique
// key on (organization_id, account_code) breaks the tie and the caller
// retries.
func (r *AccountRepository) NextCodeInRange(orgID, lo, hi int64) (int64, error) {
	var next int64
	query := `SELECT COALESCE(MAX(CAST(account_code AS UNSIGNED)), ? - 1) + 1
	          FROM accounts
	          WHERE organization_id = ?
	            AND CAST(account_code AS UNSIGNED) >= ?
	            AND CAST(account_code AS UNSIGNED) < ?`
	err := r.db.Get(&next, query, lo, orgID, lo, hi)
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *AccountRepository) HasChildren(orgID int64, code string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM accounts WHERE organization_id = ? AND parent_code = ?"
	err := r.db.Get(&count, query, orgID, code)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AccountRepository) Delete(id int64) error {
	query := "DELETE FROM accounts WHERE id = ?"
	_, err := r.db.Exec(query, id)
	return err
}

func (r *AccountRepository) GetAllActive(orgID int64) ([]models.Account, error) {
	var accounts []models.Account
	query := `SELECT * FROM accounts
	          WHERE organization_id = ? AND is_active = TRUE
	          ORDER BY account_code`
	err := r.db.Select(&accounts, query, orgID)
	return accounts, err
}

func (r *AccountRepository) GetAll(orgID int64) ([]models.Account, error) {
	var accounts []models.Account
	query := "SELECT * FROM accounts WHERE organization_id = ? ORDER BY account_code"
	err := r.db.Select(&accounts, query, orgID)
	return accounts, err
}

// RenameCascade rewrites the account's own leaf name and path and the path
// of every descendant whose path starts with the old prefix, in a single
// database transaction. When rewriteTransactions is set, historical
// transaction paths are rewritten too; otherwise they keep the path exactly
// as posted.
func (r *AccountRepository) RenameCascade(account *models.Account, newName, newPath string, rewriteTransactions bool) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	oldPath := account.Path

	_, err = tx.Exec("UPDATE accounts SET account_name = ?, path = ? WHERE id = ?",
		newName, newPath, account.ID)
	if err != nil {
		return err
	}

	// Descendants: replace the old prefix, keep the tail. The LIKE argument
	// is escaped so wildcard characters in the old name cannot match a
	// sibling subtree.
	_, err = tx.Exec(`UPDATE accounts
	                  SET path = CONCAT(?, SUBSTRING(path, CHAR_LENGTH(?) + 1))
	                  WHERE organization_id = ? AND path LIKE CONCAT(?, ':%')`,
		newPath, oldPath, account.OrganizationID, escapeLike(oldPath))
	if err != nil {
		return err
	}

	if rewriteTransactions {
		_, err = tx.Exec(`UPDATE journal_transactions SET account_path = ?
		                  WHERE organization_id = ? AND account_path = ?`,
			newPath, account.OrganizationID, oldPath)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`UPDATE journal_transactions
		                  SET account_path = CONCAT(?, SUBSTRING(account_path, CHAR_LENGTH(?) + 1))
		                  WHERE organization_id = ? AND account_path LIKE CONCAT(?, ':%')`,
			newPath, oldPath, account.OrganizationID, escapeLike(oldPath))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
