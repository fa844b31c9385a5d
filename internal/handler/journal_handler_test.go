package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/service"
)

type stubJournalStore struct {
	journals map[int64]*models.Journal
	vouchers map[string]bool
	nextID   int64
}

func newStubJournalStore() *stubJournalStore {
	return &stubJournalStore{
		journals: make(map[int64]*models.Journal),
		vouchers: make(map[string]bool),
	}
}

func (s *stubJournalStore) CreateWithTransactions(journal *models.Journal, txns []models.JournalTransaction) error {
	s.nextID++
	journal.ID = s.nextID
	journal.Transactions = txns
	s.journals[journal.ID] = journal
	s.vouchers[journal.VoucherNumber] = true
	return nil
}

func (s *stubJournalStore) FindByID(orgID, id int64) (*models.Journal, error) {
	journal, ok := s.journals[id]
	if !ok || journal.OrganizationID != orgID {
		return nil, sql.ErrNoRows
	}
	return journal, nil
}

func (s *stubJournalStore) FindAll(orgID int64, limit, offset int, search string) ([]models.Journal, int, error) {
	return nil, 0, nil
}

func (s *stubJournalStore) ExistsVoucherNumber(orgID int64, voucherNumber string) (bool, error) {
	return s.vouchers[voucherNumber], nil
}

func (s *stubJournalStore) Void(orgID, journalID int64, reason string) error {
	journal, ok := s.journals[journalID]
	if !ok {
		return sql.ErrNoRows
	}
	journal.Voided = true
	journal.VoidReason = reason
	return nil
}

type stubResolver struct{}

func (stubResolver) ResolveOrCreate(orgID int64, path string) (*models.Account, error) {
	return &models.Account{OrganizationID: orgID, Path: path, IsActive: true}, nil
}

type stubCounterStore struct {
	value int64
}

func (s *stubCounterStore) Increment(name string, orgID int64, prefix string, paddingSize int) (int64, error) {
	s.value++
	return s.value, nil
}

func (s *stubCounterStore) Find(name string, orgID int64) (*models.Counter, error) {
	return nil, sql.ErrNoRows
}

func newJournalTestApp(t *testing.T) (*fiber.App, *stubCounterStore, *stubJournalStore) {
	t.Helper()
	store := newStubJournalStore()
	counters := &stubCounterStore{}

	postingService := service.NewPostingService(store, stubResolver{}, nil, logrus.New())
	sequenceService := service.NewSequenceService(counters, 5)
	handler := NewJournalHandler(postingService, sequenceService)

	app := fiber.New()
	app.Post("/journals", handler.PostJournal)
	return app, counters, store
}

func postJournalRequest(t *testing.T, app *fiber.App, req *models.PostingRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodPost, "/journals", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(httpReq)
	require.NoError(t, err)
	return resp
}

func TestPostJournalAutoReservesVoucherNumber(t *testing.T) {
	app, counters, store := newJournalTestApp(t)

	resp := postJournalRequest(t, app, &models.PostingRequest{
		Memo: "cash sale",
		Lines: []models.PostingLine{
			{AccountPath: "Assets:Cash", Amount: decimal.NewFromInt(100), Side: models.SideDebit},
			{AccountPath: "Revenue:Sales", Amount: decimal.NewFromInt(100), Side: models.SideCredit},
		},
	})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 1, counters.value)
	assert.True(t, store.vouchers["JV-00001"])
}

func TestPostJournalRejectedPostingDoesNotBurnSequenceNumber(t *testing.T) {
	app, counters, store := newJournalTestApp(t)

	resp := postJournalRequest(t, app, &models.PostingRequest{
		Memo: "unbalanced",
		Lines: []models.PostingLine{
			{AccountPath: "Assets:Cash", Amount: decimal.NewFromInt(100), Side: models.SideDebit},
			{AccountPath: "Revenue:Sales", Amount: decimal.NewFromInt(90), Side: models.SideCredit},
		},
	})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.EqualValues(t, 0, counters.value, "a rejected posting must not consume a sequence value")
	assert.Empty(t, store.journals)
}

func TestPostJournalEmptyLinesDoesNotBurnSequenceNumber(t *testing.T) {
	app, counters, _ := newJournalTestApp(t)

	resp := postJournalRequest(t, app, &models.PostingRequest{Memo: "empty"})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.EqualValues(t, 0, counters.value)
}

func TestPostJournalKeepsSuppliedVoucherNumber(t *testing.T) {
	app, counters, store := newJournalTestApp(t)

	resp := postJournalRequest(t, app, &models.PostingRequest{
		Memo:          "manual number",
		VoucherNumber: "RV-00007",
		Lines: []models.PostingLine{
			{AccountPath: "Assets:Bank", Amount: decimal.NewFromInt(50), Side: models.SideDebit},
			{AccountPath: "Revenue:Sales", Amount: decimal.NewFromInt(50), Side: models.SideCredit},
		},
	})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 0, counters.value, "supplied numbers bypass the sequence")
	assert.True(t, store.vouchers["RV-00007"])
}
