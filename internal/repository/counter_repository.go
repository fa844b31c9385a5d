package repository

import (
	"bookkeeping-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type CounterRepository struct {
	db *sqlx.DB
}

func NewCounterRepository(db *sqlx.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Increment atomically bumps the (name, organization) counter and returns
// the new value, creating the row on first use. The read-modify-write
// happens inside a single statement: LAST_INSERT_ID(expr) smuggles the new
// value out through the OK packet, so two concurrent callers can never
// observe the same value. The counters table has no auto-increment column
// precisely so this works.
func (r *CounterRepository) Increment(name string, orgID int64, prefix string, paddingSize int) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO counters (name, organization_id, prefix, padding_size, value)
		VALUES (?, ?, ?, ?, LAST_INSERT_ID(1))
		ON DUPLICATE KEY UPDATE
			value = LAST_INSERT_ID(value + 1),
			prefix = VALUES(prefix),
			padding_size = VALUES(padding_size)`,
		name, orgID, prefix, paddingSize)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (r *CounterRepository) Find(name string, orgID int64) (*models.Counter, error) {
	var counter models.Counter
	query := "SELECT * FROM counters WHERE name = ? AND organization_id = ? LIMIT 1"
	if err := r.db.Get(&counter, query, name, orgID); err != nil {
		return nil, err
	}
	return &counter, nil
}
