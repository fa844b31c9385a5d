package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"bookkeeping-web/internal/apperr"
	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/repository"
)

// balanceTolerance is the rounding slack allowed between total debits and
// total credits of one journal (two decimal places).
var balanceTolerance = decimal.NewFromFloat(0.01)

// JournalStore is the persistence surface the posting engine needs.
type JournalStore interface {
	CreateWithTransactions(journal *models.Journal, txns []models.JournalTransaction) error
	FindByID(orgID, id int64) (*models.Journal, error)
	FindAll(orgID int64, limit, offset int, search string) ([]models.Journal, int, error)
	ExistsVoucherNumber(orgID int64, voucherNumber string) (bool, error)
	Void(orgID, journalID int64, reason string) error
}

// AccountResolver is the slice of the registry the posting engine uses.
type AccountResolver interface {
	ResolveOrCreate(orgID int64, path string) (*models.Account, error)
}

// PostingService accepts balanced sets of debit/credit lines and persists
// them as a Journal plus its Transactions. It enforces the double-entry
// invariant and voiding semantics; what to post is the calling workflow's
// business.
type PostingService struct {
	journals JournalStore
	registry AccountResolver
	cache    *BalanceCache
	logger   *logrus.Logger
}

func NewPostingService(journals JournalStore, registry AccountResolver, cache *BalanceCache, logger *logrus.Logger) *PostingService {
	return &PostingService{
		journals: journals,
		registry: registry,
		cache:    cache,
		logger:   logger,
	}
}

// ValidatePosting checks a posting request before any write: non-empty
// lines, positive amounts, valid sides, and debits equal to credits within
// the tolerance.
func ValidatePosting(req *models.PostingRequest) error {
	if strings.TrimSpace(req.VoucherNumber) == "" {
		return apperr.NewValidation("voucher_number", "voucher number is required")
	}
	return ValidatePostingLines(req.Lines)
}

// ValidatePostingLines checks the line-level rules on their own, independent
// of the voucher number. Callers that reserve a voucher number from a
// sequence run this first, so a rejected posting cannot consume a value.
func ValidatePostingLines(lines []models.PostingLine) error {
	if len(lines) == 0 {
		return apperr.NewValidation("lines", "at least one line is required")
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, line := range lines {
		field := fmt.Sprintf("lines[%d]", i)
		if len(SplitPath(line.AccountPath)) == 0 {
			return apperr.NewValidation(field+".account_path", "account path is required")
		}
		if !line.Amount.IsPositive() {
			return apperr.NewValidation(field+".amount", "amount must be positive")
		}
		switch line.Side {
		case models.SideDebit:
			totalDebit = totalDebit.Add(line.Amount)
		case models.SideCredit:
			totalCredit = totalCredit.Add(line.Amount)
		default:
			return apperr.NewValidation(field+".side", `side must be "debit" or "credit"`)
		}
	}

	if diff := totalDebit.Sub(totalCredit).Abs(); diff.GreaterThan(balanceTolerance) {
		return apperr.NewValidation("lines", fmt.Sprintf(
			"unbalanced entry: debits (%s) != credits (%s)",
			totalDebit.StringFixed(2), totalCredit.StringFixed(2)))
	}
	return nil
}

// Post validates the request, resolves every line's account through the
// registry, and persists one Journal with one Transaction per line as a
// single unit. A duplicate voucher number surfaces as a ConflictError, which
// makes the voucher number usable as an idempotency key by retrying callers.
func (s *PostingService) Post(orgID int64, req *models.PostingRequest) (*models.Journal, error) {
	if err := ValidatePosting(req); err != nil {
		return nil, err
	}

	when := time.Now()
	if req.Datetime != nil {
		when = *req.Datetime
	}

	// Resolve (or lazily create) every account before writing the journal,
	// normalizing each line to the stored path casing.
	paths := make([]string, len(req.Lines))
	for i, line := range req.Lines {
		account, err := s.registry.ResolveOrCreate(orgID, line.AccountPath)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		paths[i] = account.Path
	}

	journal := &models.Journal{
		OrganizationID: orgID,
		ReferenceCode:  uuid.NewString(),
		JournalDate:    when,
		Memo:           req.Memo,
		VoucherNumber:  req.VoucherNumber,
	}

	txns := make([]models.JournalTransaction, len(req.Lines))
	for i, line := range req.Lines {
		txns[i] = models.JournalTransaction{
			OrganizationID: orgID,
			AccountPath:    paths[i],
			Debit:          line.Side == models.SideDebit,
			Credit:         line.Side == models.SideCredit,
			Amount:         line.Amount,
			TxnDate:        when,
			Memo:           req.Memo,
			Meta:           req.Meta,
		}
	}

	if err := s.journals.CreateWithTransactions(journal, txns); err != nil {
		if repository.IsDuplicate(err) {
			return nil, &apperr.ConflictError{Kind: "voucher number", Key: req.VoucherNumber}
		}
		return nil, fmt.Errorf("post voucher %s: %w", req.VoucherNumber, err)
	}

	s.cache.Bump(orgID)

	s.logger.WithFields(logrus.Fields{
		"organization_id": orgID,
		"voucher_number":  req.VoucherNumber,
		"journal_id":      journal.ID,
		"lines":           len(txns),
	}).Info("journal posted")

	return journal, nil
}

// Void marks the journal and all its transactions voided. Nothing is deleted
// or reversed; reporting excludes voided records instead.
func (s *PostingService) Void(orgID, journalID int64, reason string) (*models.Journal, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperr.NewValidation("reason", "void reason is required")
	}

	journal, err := s.journals.FindByID(orgID, journalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Kind: "journal", Key: strconv.FormatInt(journalID, 10)}
	}
	if err != nil {
		return nil, err
	}
	if journal.Voided {
		return nil, &apperr.StateError{Kind: "journal", Key: journal.VoucherNumber, Reason: "already voided"}
	}

	if err := s.journals.Void(orgID, journalID, reason); err != nil {
		return nil, fmt.Errorf("void journal %d: %w", journalID, err)
	}

	s.cache.Bump(orgID)

	s.logger.WithFields(logrus.Fields{
		"organization_id": orgID,
		"journal_id":      journalID,
		"voucher_number":  journal.VoucherNumber,
		"reason":          reason,
	}).Info("journal voided")

	return s.journals.FindByID(orgID, journalID)
}

func (s *PostingService) Get(orgID, journalID int64) (*models.Journal, error) {
	journal, err := s.journals.FindByID(orgID, journalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperr.NotFoundError{Kind: "journal", Key: strconv.FormatInt(journalID, 10)}
	}
	return journal, err
}

func (s *PostingService) List(orgID int64, limit, offset int, search string) ([]models.Journal, int, error) {
	return s.journals.FindAll(orgID, limit, offset, search)
}

// VoucherNumberExists is the existence probe handed to the sequence
// service's unique-number retry loop.
func (s *PostingService) VoucherNumberExists(orgID int64) func(string) (bool, error) {
	return func(voucherNumber string) (bool, error) {
		return s.journals.ExistsVoucherNumber(orgID, voucherNumber)
	}
}
