package service

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"bookkeeping-web/internal/apperr"
	"bookkeeping-web/internal/models"
)

// LedgerStore is the persistence surface for the Group/Ledger editing layer.
type LedgerStore interface {
	FindAllGroups(orgID int64) ([]models.LedgerGroup, error)
	FindGroupByID(orgID, id int64) (*models.LedgerGroup, error)
	CreateGroup(group *models.LedgerGroup) error
	UpdateGroup(group *models.LedgerGroup) error
	DeleteGroup(id int64) error
	GroupHasLedgers(id int64) (bool, error)
	FindAllLedgers(orgID int64, limit, offset int, search string) ([]models.Ledger, int, error)
	FindLedgerByID(orgID, id int64) (*models.Ledger, error)
	CreateLedger(ledger *models.Ledger) error
	UpdateLedger(ledger *models.Ledger) error
	DeleteLedger(id int64) error
}

// TypedAccountResolver lets the adapter create accounts with its own type
// heuristic instead of the path-root inference.
type TypedAccountResolver interface {
	ResolveOrCreateTyped(orgID int64, path string, accountType models.AccountType, subtype string) (*models.Account, error)
}

// LedgerService is the friendlier two-level (Group -> Ledger) editing
// surface. It never posts anything itself: EnsureAccountFor materializes the
// equivalent chart-of-accounts entry so the posting engine can target it by
// path.
type LedgerService struct {
	store    LedgerStore
	registry TypedAccountResolver
}

func NewLedgerService(store LedgerStore, registry TypedAccountResolver) *LedgerService {
	return &LedgerService{store: store, registry: registry}
}

// EnsureAccountFor builds "GroupName:LedgerName" and resolves or creates the
// matching account, with type/subtype guessed from the group name. No
// posting validation happens here; that is the posting engine's job.
func (s *LedgerService) EnsureAccountFor(orgID, ledgerID int64) (*models.Account, error) {
	ledger, err := s.GetLedger(orgID, ledgerID)
	if err != nil {
		return nil, err
	}
	group, err := s.GetGroup(orgID, ledger.GroupID)
	if err != nil {
		return nil, err
	}

	path := group.Name + models.PathDelimiter + ledger.Name
	accountType, subtype := InferGroupType(group.Name)
	return s.registry.ResolveOrCreateTyped(orgID, path, accountType, subtype)
}

func (s *LedgerService) ListGroups(orgID int64) ([]models.LedgerGroup, error) {
	return s.store.FindAllGroups(orgID)
}

func (s *LedgerService) GetGroup(orgID, id int64) (*models.LedgerGroup, error) {
	group, err := s.store.FindGroupByID(orgID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Kind: "ledger group", Key: strconv.FormatInt(id, 10)}
	}
	return group, err
}

func (s *LedgerService) CreateGroup(orgID int64, req *models.LedgerGroupRequest) (*models.LedgerGroup, error) {
	if err := validateLedgerName(req.Name); err != nil {
		return nil, err
	}
	group := &models.LedgerGroup{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(req.Name),
		Code:           req.Code,
		ParentID:       req.ParentID,
	}
	if err := s.store.CreateGroup(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *LedgerService) UpdateGroup(orgID, id int64, req *models.LedgerGroupRequest) (*models.LedgerGroup, error) {
	if err := validateLedgerName(req.Name); err != nil {
		return nil, err
	}
	group, err := s.GetGroup(orgID, id)
	if err != nil {
		return nil, err
	}
	group.Name = strings.TrimSpace(req.Name)
	group.Code = req.Code
	group.ParentID = req.ParentID
	if err := s.store.UpdateGroup(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *LedgerService) DeleteGroup(orgID, id int64) error {
	group, err := s.GetGroup(orgID, id)
	if err != nil {
		return err
	}
	hasLedgers, err := s.store.GroupHasLedgers(group.ID)
	if err != nil {
		return err
	}
	if hasLedgers {
		return &apperr.StateError{Kind: "ledger group", Key: group.Name, Reason: "has ledgers"}
	}
	return s.store.DeleteGroup(group.ID)
}

func (s *LedgerService) ListLedgers(orgID int64, limit, offset int, search string) ([]models.Ledger, int, error) {
	return s.store.FindAllLedgers(orgID, limit, offset, search)
}

func (s *LedgerService) GetLedger(orgID, id int64) (*models.Ledger, error) {
	ledger, err := s.store.FindLedgerByID(orgID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Kind: "ledger", Key: strconv.FormatInt(id, 10)}
	}
	return ledger, err
}

func (s *LedgerService) CreateLedger(orgID int64, req *models.LedgerRequest) (*models.Ledger, error) {
	if err := validateLedgerName(req.Name); err != nil {
		return nil, err
	}
	if _, err := s.GetGroup(orgID, req.GroupID); err != nil {
		return nil, err
	}
	ledger := &models.Ledger{
		OrganizationID: orgID,
		GroupID:        req.GroupID,
		Name:           strings.TrimSpace(req.Name),
		Code:           req.Code,
		OpeningBalance: req.OpeningBalance,
	}
	if err := s.store.CreateLedger(ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}

func (s *LedgerService) UpdateLedger(orgID, id int64, req *models.LedgerRequest) (*models.Ledger, error) {
	if err := validateLedgerName(req.Name); err != nil {
		return nil, err
	}
	ledger, err := s.GetLedger(orgID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetGroup(orgID, req.GroupID); err != nil {
		return nil, err
	}
	ledger.GroupID = req.GroupID
	ledger.Name = strings.TrimSpace(req.Name)
	ledger.Code = req.Code
	ledger.OpeningBalance = req.OpeningBalance
	if err := s.store.UpdateLedger(ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}

func (s *LedgerService) DeleteLedger(orgID, id int64) error {
	ledger, err := s.GetLedger(orgID, id)
	if err != nil {
		return err
	}
	return s.store.DeleteLedger(ledger.ID)
}

func validateLedgerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.NewValidation("name", "name is required")
	}
	if strings.Contains(name, models.PathDelimiter) {
		return apperr.NewValidation("name", "name must not contain the path delimiter")
	}
	return nil
}
