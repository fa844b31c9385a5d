package service

import (
	"database/sql"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeping-web/internal/apperr"
	"bookkeeping-web/internal/models"
)

type fakeJournalStore struct {
	journals map[int64]*models.Journal
	nextID   int64
	vouchers map[string]bool
}

func newFakeJournalStore() *fakeJournalStore {
	return &fakeJournalStore{
		journals: make(map[int64]*models.Journal),
		vouchers: make(map[string]bool),
	}
}

func (s *fakeJournalStore) CreateWithTransactions(journal *models.Journal, txns []models.JournalTransaction) error {
	if s.vouchers[journal.VoucherNumber] {
		return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	}
	s.nextID++
	journal.ID = s.nextID
	journal.Transactions = txns
	s.journals[journal.ID] = journal
	s.vouchers[journal.VoucherNumber] = true
	return nil
}

func (s *fakeJournalStore) FindByID(orgID, id int64) (*models.Journal, error) {
	journal, ok := s.journals[id]
	if !ok || journal.OrganizationID != orgID {
		return nil, sql.ErrNoRows
	}
	copied := *journal
	return &copied, nil
}

func (s *fakeJournalStore) FindAll(orgID int64, limit, offset int, search string) ([]models.Journal, int, error) {
	var out []models.Journal
	for _, j := range s.journals {
		if j.OrganizationID == orgID {
			out = append(out, *j)
		}
	}
	return out, len(out), nil
}

func (s *fakeJournalStore) ExistsVoucherNumber(orgID int64, voucherNumber string) (bool, error) {
	return s.vouchers[voucherNumber], nil
}

func (s *fakeJournalStore) Void(orgID, journalID int64, reason string) error {
	journal, ok := s.journals[journalID]
	if !ok {
		return sql.ErrNoRows
	}
	journal.Voided = true
	journal.VoidReason = reason
	return nil
}

type fakeResolver struct {
	resolved []string
}

func (r *fakeResolver) ResolveOrCreate(orgID int64, path string) (*models.Account, error) {
	r.resolved = append(r.resolved, path)
	return &models.Account{OrganizationID: orgID, Path: path, IsActive: true}, nil
}

func newTestPostingService(store *fakeJournalStore) *PostingService {
	return NewPostingService(store, &fakeResolver{}, nil, logrus.New())
}

func balancedRequest(voucher string) *models.PostingRequest {
	return &models.PostingRequest{
		Memo:          "office supplies",
		VoucherNumber: voucher,
		Lines: []models.PostingLine{
			{AccountPath: "Expenses:Supplies", Amount: decimal.NewFromInt(100), Side: models.SideDebit},
			{AccountPath: "Assets:Cash", Amount: decimal.NewFromInt(100), Side: models.SideCredit},
		},
	}
}

func TestValidatePosting(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.PostingRequest)
		wantErr string
	}{
		{"balanced", func(req *models.PostingRequest) {}, ""},
		{
			"no lines",
			func(req *models.PostingRequest) { req.Lines = nil },
			"at least one line",
		},
		{
			"missing voucher number",
			func(req *models.PostingRequest) { req.VoucherNumber = " " },
			"voucher number is required",
		},
		{
			"unbalanced",
			func(req *models.PostingRequest) { req.Lines[1].Amount = decimal.NewFromInt(90) },
			"unbalanced entry",
		},
		{
			"zero amount",
			func(req *models.PostingRequest) {
				req.Lines[0].Amount = decimal.Zero
				req.Lines[1].Amount = decimal.Zero
			},
			"amount must be positive",
		},
		{
			"negative amount",
			func(req *models.PostingRequest) {
				req.Lines[0].Amount = decimal.NewFromInt(-100)
				req.Lines[1].Amount = decimal.NewFromInt(-100)
			},
			"amount must be positive",
		},
		{
			"bad side",
			func(req *models.PostingRequest) { req.Lines[0].Side = "dbit" },
			`side must be "debit" or "credit"`,
		},
		{
			"empty account path",
			func(req *models.PostingRequest) { req.Lines[0].AccountPath = " : " },
			"account path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := balancedRequest("JV-00001")
			tt.mutate(req)
			err := ValidatePosting(req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatePostingLinesStandalone(t *testing.T) {
	lines := []models.PostingLine{
		{AccountPath: "Assets:Cash", Amount: decimal.NewFromInt(100), Side: models.SideDebit},
		{AccountPath: "Revenue:Sales", Amount: decimal.NewFromInt(100), Side: models.SideCredit},
	}
	assert.NoError(t, ValidatePostingLines(lines), "line checks must pass without a voucher number")

	lines[1].Amount = decimal.NewFromInt(90)
	err := ValidatePostingLines(lines)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	err = ValidatePostingLines(nil)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestValidatePostingRoundingTolerance(t *testing.T) {
	req := balancedRequest("JV-00001")
	req.Lines[0].Amount = decimal.RequireFromString("100.00")
	req.Lines[1].Amount = decimal.RequireFromString("99.99")
	assert.NoError(t, ValidatePosting(req), "a one cent difference is within tolerance")

	req.Lines[1].Amount = decimal.RequireFromString("99.98")
	assert.Error(t, ValidatePosting(req))
}

func TestValidatePostingMultiLeg(t *testing.T) {
	req := &models.PostingRequest{
		VoucherNumber: "JV-00002",
		Lines: []models.PostingLine{
			{AccountPath: "Assets:Bank", Amount: decimal.NewFromInt(70), Side: models.SideDebit},
			{AccountPath: "Assets:Cash", Amount: decimal.NewFromInt(30), Side: models.SideDebit},
			{AccountPath: "Revenue:Sales", Amount: decimal.NewFromInt(100), Side: models.SideCredit},
		},
	}
	assert.NoError(t, ValidatePosting(req))
}

func TestPost(t *testing.T) {
	store := newFakeJournalStore()
	svc := newTestPostingService(store)

	journal, err := svc.Post(1, balancedRequest("JV-00001"))
	require.NoError(t, err)

	assert.NotZero(t, journal.ID)
	assert.NotEmpty(t, journal.ReferenceCode)
	assert.Equal(t, "JV-00001", journal.VoucherNumber)
	require.Len(t, journal.Transactions, 2)
	assert.True(t, journal.Transactions[0].Debit)
	assert.True(t, journal.Transactions[1].Credit)
	assert.Equal(t, "Expenses:Supplies", journal.Transactions[0].AccountPath)
}

func TestPostDuplicateVoucherNumber(t *testing.T) {
	store := newFakeJournalStore()
	svc := newTestPostingService(store)

	_, err := svc.Post(1, balancedRequest("JV-00001"))
	require.NoError(t, err)

	_, err = svc.Post(1, balancedRequest("JV-00001"))
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestPostRejectsUnbalancedBeforeWriting(t *testing.T) {
	store := newFakeJournalStore()
	svc := newTestPostingService(store)

	req := balancedRequest("JV-00001")
	req.Lines[1].Amount = decimal.NewFromInt(90)

	_, err := svc.Post(1, req)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, store.journals, "nothing may be persisted for a rejected posting")
}

func TestVoid(t *testing.T) {
	store := newFakeJournalStore()
	svc := newTestPostingService(store)

	journal, err := svc.Post(1, balancedRequest("JV-00001"))
	require.NoError(t, err)

	voided, err := svc.Void(1, journal.ID, "duplicate entry")
	require.NoError(t, err)
	assert.True(t, voided.Voided)
	assert.Equal(t, "duplicate entry", voided.VoidReason)
}

func TestVoidRequiresReason(t *testing.T) {
	svc := newTestPostingService(newFakeJournalStore())
	_, err := svc.Void(1, 1, "  ")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestVoidIsNotIdempotent(t *testing.T) {
	store := newFakeJournalStore()
	svc := newTestPostingService(store)

	journal, err := svc.Post(1, balancedRequest("JV-00001"))
	require.NoError(t, err)

	_, err = svc.Void(1, journal.ID, "first")
	require.NoError(t, err)

	_, err = svc.Void(1, journal.ID, "second")
	require.Error(t, err)
	assert.True(t, apperr.IsState(err))
}

func TestVoidUnknownJournal(t *testing.T) {
	svc := newTestPostingService(newFakeJournalStore())
	_, err := svc.Void(1, 99, "missing")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestVoidOtherOrganizationJournal(t *testing.T) {
	store := newFakeJournalStore()
	svc := newTestPostingService(store)

	journal, err := svc.Post(1, balancedRequest("JV-00001"))
	require.NoError(t, err)

	_, err = svc.Void(2, journal.ID, "not yours")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
