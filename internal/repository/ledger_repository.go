package repository

import (
	"bookkeeping-web/internal/models"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) FindAllGroups(orgID int64) ([]models.LedgerGroup, error) {
	var groups []models.LedgerGroup
	query := "SELECT * FROM ledger_groups WHERE organization_id = ? ORDER BY name"
	err := r.db.Select(&groups, query, orgID)
	return groups, err
}

func (r *LedgerRepository) FindGroupByID(orgID, id int64) (*models.LedgerGroup, error) {
	var group models.LedgerGroup
	query := "SELECT * FROM ledger_groups WHERE organization_id = ? AND id = ? LIMIT 1"
	if err := r.db.Get(&group, query, orgID, id); err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *LedgerRepository) CreateGroup(group *models.LedgerGroup) error {
	query := `INSERT INTO ledger_groups (organization_id, name, code, parent_id)
	          VALUES (:organization_id, :name, :code, :parent_id)`
	result, err := r.db.NamedExec(query, group)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	group.ID = id
	return nil
}

func (r *LedgerRepository) UpdateGroup(group *models.LedgerGroup) error {
	query := `UPDATE ledger_groups SET name = :name, code = :code, parent_id = :parent_id
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, group)
	return err
}

func (r *LedgerRepository) DeleteGroup(id int64) error {
	_, err := r.db.Exec("DELETE FROM ledger_groups WHERE id = ?", id)
	return err
}

func (r *LedgerRepository) GroupHasLedgers(id int64) (bool, error) {
	var count int
	if err := r.db.Get(&count, "SELECT COUNT(*) FROM ledgers WHERE group_id = ?", id); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *LedgerRepository) FindAllLedgers(orgID int64, limit, offset int, search string) ([]models.Ledger, int, error) {
	var ledgers []models.Ledger
	var total int

	whereClause := "WHERE organization_id = ?"
	args := []interface{}{orgID}
	if search != "" {
		whereClause += " AND (name LIKE ? OR code LIKE ?)"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM ledgers %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT * FROM ledgers %s ORDER BY name LIMIT ? OFFSET ?", whereClause)
	args = append(args, limit, offset)
	if err := r.db.Select(&ledgers, query, args...); err != nil {
		return nil, 0, err
	}
	return ledgers, total, nil
}

func (r *LedgerRepository) FindLedgerByID(orgID, id int64) (*models.Ledger, error) {
	var ledger models.Ledger
	query := "SELECT * FROM ledgers WHERE organization_id = ? AND id = ? LIMIT 1"
	if err := r.db.Get(&ledger, query, orgID, id); err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (r *LedgerRepository) CreateLedger(ledger *models.Ledger) error {
	query := `INSERT INTO ledgers (organization_id, group_id, name, code, opening_balance)
	          VALUES (:organization_id, :group_id, :name, :code, :opening_balance)`
	result, err := r.db.NamedExec(query, ledger)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	ledger.ID = id
	return nil
}

func (r *LedgerRepository) UpdateLedger(ledger *models.Ledger) error {
	query := `UPDATE ledgers SET group_id = :group_id, name = :name, code = :code,
	          opening_balance = :opening_balance WHERE id = :id`
	_, err := r.db.NamedExec(query, ledger)
	return err
}

func (r *LedgerRepository) DeleteLedger(id int64) error {
	_, err := r.db.Exec("DELETE FROM ledgers WHERE id = ?", id)
	return err
}
