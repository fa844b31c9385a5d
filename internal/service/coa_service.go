package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"bookkeeping-web/internal/apperr"
	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/repository"
)

// AccountStore is the persistence surface the registry needs.
type AccountStore interface {
	FindByID(id int64) (*models.Account, error)
	FindByPath(orgID int64, path string) (*models.Account, error)
	Create(account *models.Account) error
	Update(account *models.Account) error
	NextCodeInRange(orgID, lo, hi int64) (int64, error)
	HasChildren(orgID int64, code string) (bool, error)
	Delete(id int64) error
	GetAllActive(orgID int64) ([]models.Account, error)
	RenameCascade(account *models.Account, newName, newPath string, rewriteTransactions bool) error
}

// TransactionChecker answers whether financial history references a path.
type TransactionChecker interface {
	HasTransactionsForPath(orgID int64, path string) (bool, error)
}

// createAttempts bounds the duplicate-key re-fetch loop during concurrent
// account creation.
const createAttempts = 3

// ChartOfAccountsService owns the hierarchical account tree: colon-delimited
// paths, type/subtype taxonomy, active flag, cascade rename.
type ChartOfAccountsService struct {
	accounts AccountStore
	txns     TransactionChecker
	tasks    *asynq.Client
	logger   *logrus.Logger
}

func NewChartOfAccountsService(accounts AccountStore, txns TransactionChecker, tasks *asynq.Client, logger *logrus.Logger) *ChartOfAccountsService {
	return &ChartOfAccountsService{
		accounts: accounts,
		txns:     txns,
		tasks:    tasks,
		logger:   logger,
	}
}

// ResolveOrCreate returns the account with the given path, creating it (and
// any missing ancestors) when absent. The account type is inferred from the
// top-level segment.
func (s *ChartOfAccountsService) ResolveOrCreate(orgID int64, path string) (*models.Account, error) {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return nil, apperr.NewValidation("path", "account path is empty")
	}
	accountType := InferAccountType(segments[0])
	return s.resolveOrCreateTyped(orgID, segments, accountType, "")
}

// ResolveOrCreateTyped is ResolveOrCreate with an explicit type/subtype for
// accounts that get created, used by the ledger-group adapter whose type
// heuristic differs from the path-root inference.
func (s *ChartOfAccountsService) ResolveOrCreateTyped(orgID int64, path string, accountType models.AccountType, subtype string) (*models.Account, error) {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return nil, apperr.NewValidation("path", "account path is empty")
	}
	return s.resolveOrCreateTyped(orgID, segments, accountType, subtype)
}

func (s *ChartOfAccountsService) resolveOrCreateTyped(orgID int64, segments []string, accountType models.AccountType, subtype string) (*models.Account, error) {
	var parent *models.Account
	for i := range segments {
		currentPath := JoinPath(segments[:i+1])
		account, err := s.findOrCreate(orgID, currentPath, segments[i], parent, accountType, subtype)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", currentPath, err)
		}
		parent = account
	}
	return parent, nil
}

// findOrCreate looks the path up and creates it when missing. A duplicate
// key error means another writer created the same path or grabbed the same
// code concurrently; both are handled by re-fetching / retrying, bounded.
func (s *ChartOfAccountsService) findOrCreate(orgID int64, path, name string, parent *models.Account, accountType models.AccountType, subtype string) (*models.Account, error) {
	for attempt := 0; attempt < createAttempts; attempt++ {
		account, err := s.accounts.FindByPath(orgID, path)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		lo, hi := codeRange(accountType)
		code, err := s.accounts.NextCodeInRange(orgID, lo, hi)
		if err != nil {
			return nil, err
		}
		if code >= hi {
			// The type's code block is full. Spilling into the next block
			// would collide with another type's codes, so refuse instead.
			return nil, &apperr.StateError{
				Kind:   "account type",
				Key:    string(accountType),
				Reason: fmt.Sprintf("code block %d-%d exhausted", lo, hi-1),
			}
		}

		account = &models.Account{
			OrganizationID: orgID,
			AccountCode:    strconv.FormatInt(code, 10),
			AccountName:    name,
			Path:           path,
			AccountType:    accountType,
			Subtype:        subtype,
			IsActive:       true,
		}
		if parent != nil {
			parentCode := parent.AccountCode
			account.ParentCode = &parentCode
		}

		err = s.accounts.Create(account)
		if err == nil {
			return account, nil
		}
		if !repository.IsDuplicate(err) {
			return nil, err
		}
		// Lost the race: either the path now exists or the code is taken.
		// Loop around and re-fetch.
	}
	return nil, &apperr.ConflictError{Kind: "account", Key: path}
}

// Rename replaces the account's leaf name and cascades the path-prefix
// rewrite to every descendant, atomically. rewriteTransactions additionally
// rewrites historical transaction paths; by default history keeps the path
// exactly as posted.
func (s *ChartOfAccountsService) Rename(orgID, accountID int64, newName string, rewriteTransactions bool) (*models.Account, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, apperr.NewValidation("new_name", "name is required")
	}
	if strings.Contains(newName, models.PathDelimiter) {
		return nil, apperr.NewValidation("new_name", "name must not contain the path delimiter")
	}

	account, err := s.getOwned(orgID, accountID)
	if err != nil {
		return nil, err
	}

	newPath := newName
	if parent := ParentPath(account.Path); parent != "" {
		newPath = parent + models.PathDelimiter + newName
	}
	if strings.EqualFold(newPath, account.Path) && newName == account.AccountName {
		return account, nil
	}

	if existing, err := s.accounts.FindByPath(orgID, newPath); err == nil && existing.ID != account.ID {
		return nil, &apperr.ConflictError{Kind: "account", Key: newPath}
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	oldPath := account.Path
	if err := s.accounts.RenameCascade(account, newName, newPath, rewriteTransactions); err != nil {
		return nil, fmt.Errorf("rename cascade %q -> %q: %w", oldPath, newPath, err)
	}

	s.logger.WithFields(logrus.Fields{
		"organization_id": orgID,
		"account_id":      accountID,
		"old_path":        oldPath,
		"new_path":        newPath,
	}).Info("account renamed")

	s.enqueueConsistencyCheck(orgID)

	account.AccountName = newName
	account.Path = newPath
	return account, nil
}

// Delete removes an account that has neither child accounts nor financial
// history. Accounts that have been posted against are retire-only.
func (s *ChartOfAccountsService) Delete(orgID, accountID int64) error {
	account, err := s.getOwned(orgID, accountID)
	if err != nil {
		return err
	}

	hasChildren, err := s.accounts.HasChildren(orgID, account.AccountCode)
	if err != nil {
		return err
	}
	if hasChildren {
		return &apperr.StateError{Kind: "account", Key: account.Path, Reason: "has child accounts"}
	}

	hasTxns, err := s.txns.HasTransactionsForPath(orgID, account.Path)
	if err != nil {
		return err
	}
	if hasTxns {
		return &apperr.StateError{Kind: "account", Key: account.Path, Reason: "has posted transactions; retire it instead"}
	}

	return s.accounts.Delete(account.ID)
}

// Retire soft-disables an account without touching its history.
func (s *ChartOfAccountsService) Retire(orgID, accountID int64) (*models.Account, error) {
	account, err := s.getOwned(orgID, accountID)
	if err != nil {
		return nil, err
	}
	account.IsActive = false
	if err := s.accounts.Update(account); err != nil {
		return nil, err
	}
	return account, nil
}

// ListHierarchy returns all active accounts as parent -> children trees
// ordered by code.
func (s *ChartOfAccountsService) ListHierarchy(orgID int64) ([]*models.AccountNode, error) {
	accounts, err := s.accounts.GetAllActive(orgID)
	if err != nil {
		return nil, err
	}
	return BuildHierarchy(accounts), nil
}

func (s *ChartOfAccountsService) Get(orgID, accountID int64) (*models.Account, error) {
	return s.getOwned(orgID, accountID)
}

func (s *ChartOfAccountsService) getOwned(orgID, accountID int64) (*models.Account, error) {
	account, err := s.accounts.FindByID(accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Kind: "account", Key: strconv.FormatInt(accountID, 10)}
	}
	if err != nil {
		return nil, err
	}
	if account.OrganizationID != orgID {
		return nil, &apperr.NotFoundError{Kind: "account", Key: strconv.FormatInt(accountID, 10)}
	}
	return account, nil
}

func (s *ChartOfAccountsService) enqueueConsistencyCheck(orgID int64) {
	if s.tasks == nil {
		return
	}
	payload, err := json.Marshal(ConsistencyCheckPayload{OrganizationID: orgID})
	if err != nil {
		return
	}
	if _, err := s.tasks.Enqueue(asynq.NewTask(TaskCheckConsistency, payload)); err != nil {
		s.logger.WithError(err).Warn("failed to enqueue consistency check")
	}
}
