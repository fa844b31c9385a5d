package database

import "github.com/jmoiron/sqlx"

// migrations are idempotent bootstrap statements, executed in order on
// startup. The counters table deliberately has no auto-increment id: its
// primary key is (name, organization_id) so the LAST_INSERT_ID upsert trick
// in the counter repository returns the counter value, not a row id.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		username VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'user',
		organization_id BIGINT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username),
		UNIQUE KEY uq_users_email (email)
	)`,

	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		organization_id BIGINT NOT NULL,
		account_code VARCHAR(32) NOT NULL,
		account_name VARCHAR(255) NOT NULL,
		path VARCHAR(500) NOT NULL,
		account_type VARCHAR(16) NOT NULL,
		subtype VARCHAR(64) NOT NULL DEFAULT '',
		parent_code VARCHAR(32) NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_accounts_org_code (organization_id, account_code),
		UNIQUE KEY uq_accounts_org_path (organization_id, path),
		KEY idx_accounts_org_parent (organization_id, parent_code)
	)`,

	`CREATE TABLE IF NOT EXISTS journals (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		organization_id BIGINT NOT NULL,
		reference_code CHAR(36) NOT NULL,
		journal_date DATETIME NOT NULL,
		memo VARCHAR(500) NOT NULL DEFAULT '',
		voucher_number VARCHAR(64) NOT NULL,
		voided BOOLEAN NOT NULL DEFAULT FALSE,
		void_reason VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_journals_org_voucher (organization_id, voucher_number),
		KEY idx_journals_org_date (organization_id, journal_date)
	)`,

	`CREATE TABLE IF NOT EXISTS journal_transactions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		journal_id BIGINT NOT NULL,
		organization_id BIGINT NOT NULL,
		account_path VARCHAR(500) NOT NULL,
		debit BOOLEAN NOT NULL DEFAULT FALSE,
		credit BOOLEAN NOT NULL DEFAULT FALSE,
		amount DECIMAL(18,2) NOT NULL,
		txn_date DATETIME NOT NULL,
		memo VARCHAR(500) NOT NULL DEFAULT '',
		meta TEXT NULL,
		voided BOOLEAN NOT NULL DEFAULT FALSE,
		KEY idx_txns_journal (journal_id),
		KEY idx_txns_org_path (organization_id, account_path),
		KEY idx_txns_org_date (organization_id, txn_date)
	)`,

	`CREATE TABLE IF NOT EXISTS counters (
		name VARCHAR(64) NOT NULL,
		organization_id BIGINT NOT NULL DEFAULT 0,
		prefix VARCHAR(16) NOT NULL DEFAULT '',
		padding_size INT NOT NULL DEFAULT 4,
		value BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (name, organization_id)
	)`,

	`CREATE TABLE IF NOT EXISTS ledger_groups (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		organization_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		code VARCHAR(32) NOT NULL DEFAULT '',
		parent_id BIGINT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_groups_org_name (organization_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS ledgers (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		organization_id BIGINT NOT NULL,
		group_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		code VARCHAR(32) NOT NULL DEFAULT '',
		opening_balance DECIMAL(18,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_ledgers_org_group_name (organization_id, group_id, name),
		KEY idx_ledgers_group (group_id)
	)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sqlx.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
