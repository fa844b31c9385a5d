package service

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeping-web/internal/apperr"
	"bookkeeping-web/internal/models"
)

type fakeLedgerStore struct {
	groups  map[int64]*models.LedgerGroup
	ledgers map[int64]*models.Ledger
	nextID  int64
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{
		groups:  make(map[int64]*models.LedgerGroup),
		ledgers: make(map[int64]*models.Ledger),
	}
}

func (s *fakeLedgerStore) FindAllGroups(orgID int64) ([]models.LedgerGroup, error) {
	var out []models.LedgerGroup
	for _, g := range s.groups {
		if g.OrganizationID == orgID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (s *fakeLedgerStore) FindGroupByID(orgID, id int64) (*models.LedgerGroup, error) {
	g, ok := s.groups[id]
	if !ok || g.OrganizationID != orgID {
		return nil, sql.ErrNoRows
	}
	copied := *g
	return &copied, nil
}

func (s *fakeLedgerStore) CreateGroup(group *models.LedgerGroup) error {
	s.nextID++
	group.ID = s.nextID
	copied := *group
	s.groups[group.ID] = &copied
	return nil
}

func (s *fakeLedgerStore) UpdateGroup(group *models.LedgerGroup) error {
	copied := *group
	s.groups[group.ID] = &copied
	return nil
}

func (s *fakeLedgerStore) DeleteGroup(id int64) error {
	delete(s.groups, id)
	return nil
}

func (s *fakeLedgerStore) GroupHasLedgers(id int64) (bool, error) {
	for _, l := range s.ledgers {
		if l.GroupID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeLedgerStore) FindAllLedgers(orgID int64, limit, offset int, search string) ([]models.Ledger, int, error) {
	var out []models.Ledger
	for _, l := range s.ledgers {
		if l.OrganizationID == orgID {
			out = append(out, *l)
		}
	}
	return out, len(out), nil
}

func (s *fakeLedgerStore) FindLedgerByID(orgID, id int64) (*models.Ledger, error) {
	l, ok := s.ledgers[id]
	if !ok || l.OrganizationID != orgID {
		return nil, sql.ErrNoRows
	}
	copied := *l
	return &copied, nil
}

func (s *fakeLedgerStore) CreateLedger(ledger *models.Ledger) error {
	s.nextID++
	ledger.ID = s.nextID
	copied := *ledger
	s.ledgers[ledger.ID] = &copied
	return nil
}

func (s *fakeLedgerStore) UpdateLedger(ledger *models.Ledger) error {
	copied := *ledger
	s.ledgers[ledger.ID] = &copied
	return nil
}

func (s *fakeLedgerStore) DeleteLedger(id int64) error {
	delete(s.ledgers, id)
	return nil
}

type fakeTypedResolver struct {
	lastPath    string
	lastType    models.AccountType
	lastSubtype string
}

func (r *fakeTypedResolver) ResolveOrCreateTyped(orgID int64, path string, accountType models.AccountType, subtype string) (*models.Account, error) {
	r.lastPath = path
	r.lastType = accountType
	r.lastSubtype = subtype
	return &models.Account{OrganizationID: orgID, Path: path, AccountType: accountType, Subtype: subtype, IsActive: true}, nil
}

func newTestLedgerService() (*LedgerService, *fakeLedgerStore, *fakeTypedResolver) {
	store := newFakeLedgerStore()
	resolver := &fakeTypedResolver{}
	return NewLedgerService(store, resolver), store, resolver
}

func TestEnsureAccountFor(t *testing.T) {
	svc, _, resolver := newTestLedgerService()

	group, err := svc.CreateGroup(1, &models.LedgerGroupRequest{Name: "Current Liabilities"})
	require.NoError(t, err)
	ledger, err := svc.CreateLedger(1, &models.LedgerRequest{GroupID: group.ID, Name: "Bank Loan"})
	require.NoError(t, err)

	account, err := svc.EnsureAccountFor(1, ledger.ID)
	require.NoError(t, err)

	assert.Equal(t, "Current Liabilities:Bank Loan", account.Path)
	assert.Equal(t, models.AccountTypeLiability, resolver.lastType)
	assert.Equal(t, "current", resolver.lastSubtype)
}

func TestLedgerNameMustNotContainDelimiter(t *testing.T) {
	svc, _, _ := newTestLedgerService()

	_, err := svc.CreateGroup(1, &models.LedgerGroupRequest{Name: "Bad:Name"})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	group, err := svc.CreateGroup(1, &models.LedgerGroupRequest{Name: "Expenses"})
	require.NoError(t, err)

	_, err = svc.CreateLedger(1, &models.LedgerRequest{GroupID: group.ID, Name: "Rent:Office"})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateLedgerRequiresExistingGroup(t *testing.T) {
	svc, _, _ := newTestLedgerService()

	_, err := svc.CreateLedger(1, &models.LedgerRequest{GroupID: 42, Name: "Rent"})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteGroupWithLedgers(t *testing.T) {
	svc, store, _ := newTestLedgerService()

	group, err := svc.CreateGroup(1, &models.LedgerGroupRequest{Name: "Expenses"})
	require.NoError(t, err)
	ledger, err := svc.CreateLedger(1, &models.LedgerRequest{GroupID: group.ID, Name: "Rent"})
	require.NoError(t, err)

	err = svc.DeleteGroup(1, group.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsState(err))

	require.NoError(t, svc.DeleteLedger(1, ledger.ID))
	require.NoError(t, svc.DeleteGroup(1, group.ID))
	assert.Empty(t, store.groups)
}

func TestLedgerNamesAreTrimmed(t *testing.T) {
	svc, _, _ := newTestLedgerService()

	group, err := svc.CreateGroup(1, &models.LedgerGroupRequest{Name: "  Fixed Assets  "})
	require.NoError(t, err)
	assert.Equal(t, "Fixed Assets", group.Name)
	assert.False(t, strings.HasPrefix(group.Name, " "))
}
