package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"bookkeeping-web/internal/apperr"
	"bookkeeping-web/internal/config"
	"bookkeeping-web/internal/repository"
	"bookkeeping-web/internal/service"
	"bookkeeping-web/internal/utils"
)

// ConsistencyTaskHandler re-verifies the account tree's structural invariants
// for one organization after a cascade rename. It only reports: found
// violations are logged for operator attention, never auto-repaired.
type ConsistencyTaskHandler struct {
	cfg         *config.Config
	accountRepo *repository.AccountRepository
	journalRepo *repository.JournalRepository
	logger      *logrus.Logger
}

func NewConsistencyTaskHandler(db *sqlx.DB, cfg *config.Config) *ConsistencyTaskHandler {
	return &ConsistencyTaskHandler{
		cfg:         cfg,
		accountRepo: repository.NewAccountRepository(db),
		journalRepo: repository.NewJournalRepository(db),
		logger:      utils.GetLogger(),
	}
}

func (h *ConsistencyTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload service.ConsistencyCheckPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	h.logger.WithField("organization_id", payload.OrganizationID).Info("Starting consistency check")

	accounts, err := h.accountRepo.GetAll(payload.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	byPath := make(map[string]bool, len(accounts))
	for _, account := range accounts {
		byPath[account.Path] = true
	}

	violations := 0
	for _, account := range accounts {
		if leaf := service.LeafName(account.Path); leaf != account.AccountName {
			violations++
			h.report(payload.OrganizationID, &apperr.ConsistencyError{
				Path:   account.Path,
				Detail: fmt.Sprintf("leaf segment %q does not match account name %q", leaf, account.AccountName),
			})
		}
		parent := service.ParentPath(account.Path)
		if parent == "" {
			continue
		}
		if !byPath[parent] {
			violations++
			h.report(payload.OrganizationID, &apperr.ConsistencyError{
				Path:   account.Path,
				Detail: fmt.Sprintf("parent path %q has no account", parent),
			})
		}
	}

	// Transactions carry denormalized paths, so a rename that skipped the
	// historical rewrite leaves them pointing at retired spellings. That is
	// legal, but paths matching no account at all are not.
	txnPaths, err := h.journalRepo.DistinctPaths(payload.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to load transaction paths: %w", err)
	}
	orphans := 0
	for _, path := range txnPaths {
		if !byPath[path] {
			orphans++
			h.report(payload.OrganizationID, &apperr.ConsistencyError{
				Path:   path,
				Detail: "transactions reference a path with no account",
			})
		}
	}

	h.logger.WithFields(logrus.Fields{
		"organization_id": payload.OrganizationID,
		"accounts":        len(accounts),
		"violations":      violations,
		"orphaned_paths":  orphans,
	}).Info("Consistency check completed")

	return nil
}

func (h *ConsistencyTaskHandler) report(orgID int64, err *apperr.ConsistencyError) {
	h.logger.WithFields(logrus.Fields{
		"organization_id": orgID,
		"path":            err.Path,
	}).Warn(err.Error())
}
