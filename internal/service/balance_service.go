package service

import (
	"encoding/csv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"bookkeeping-web/internal/apperr"
	"bookkeeping-web/internal/models"
)

// BalanceStore is the read-only transaction aggregation surface.
type BalanceStore interface {
	SumByPath(orgID int64, pathPrefix string, start, end *time.Time) ([]models.PathBalance, error)
	AccountActivity(orgID int64, asOf time.Time) ([]models.AccountActivity, error)
}

// BalanceQuery bounds a balance lookup. AsOf is shorthand for End.
type BalanceQuery struct {
	AsOf  *time.Time
	Start *time.Time
	End   *time.Time
}

// BalanceService answers balance and trial-balance queries over persisted
// transactions. Sign convention, core-wide: credit positive, debit negative.
// Queries take no locks and give no snapshot isolation; callers needing
// point-in-time numbers filter by date and accept that concurrent postings
// may or may not be included.
type BalanceService struct {
	store  BalanceStore
	cache  *BalanceCache
	logger *logrus.Logger
}

func NewBalanceService(store BalanceStore, cache *BalanceCache, logger *logrus.Logger) *BalanceService {
	return &BalanceService{store: store, cache: cache, logger: logger}
}

// BalanceOf sums transaction amounts per distinct full path under the
// prefix, credits positive and debits negative, excluding voided records and
// anything outside the date window.
func (s *BalanceService) BalanceOf(orgID int64, pathPrefix string, q BalanceQuery) ([]models.PathBalance, error) {
	segments := SplitPath(pathPrefix)
	if len(segments) == 0 {
		return nil, apperr.NewValidation("prefix", "account path prefix is required")
	}

	end := q.End
	if q.AsOf != nil {
		end = q.AsOf
	}
	return s.store.SumByPath(orgID, JoinPath(segments), q.Start, end)
}

// GenerateTrialBalance reports every active account's net balance as of the
// date in its normal-balance column: asset/expense debit-normal,
// liability/equity/revenue credit-normal. A balance opposite the normal side
// stays negative in its normal column.
func (s *BalanceService) GenerateTrialBalance(orgID int64, asOf time.Time) (*models.TrialBalance, error) {
	if tb, ok := s.cache.GetTrialBalance(orgID, asOf); ok {
		return tb, nil
	}

	rows, err := s.store.AccountActivity(orgID, asOf)
	if err != nil {
		return nil, err
	}

	tb := BuildTrialBalance(rows)
	s.cache.SetTrialBalance(orgID, asOf, tb)
	return tb, nil
}

// BuildTrialBalance folds raw per-account debit/credit sums into
// normal-balance columns and totals.
func BuildTrialBalance(rows []models.AccountActivity) *models.TrialBalance {
	tb := &models.TrialBalance{
		Accounts:     make([]models.TrialBalanceRow, 0, len(rows)),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}

	for _, row := range rows {
		out := models.TrialBalanceRow{
			AccountCode:  row.AccountCode,
			AccountName:  row.AccountName,
			AccountType:  row.AccountType,
			DebitAmount:  decimal.Zero,
			CreditAmount: decimal.Zero,
		}
		if debitNormal(row.AccountType) {
			out.DebitAmount = row.TotalDebit.Sub(row.TotalCredit)
			tb.TotalDebits = tb.TotalDebits.Add(out.DebitAmount)
		} else {
			out.CreditAmount = row.TotalCredit.Sub(row.TotalDebit)
			tb.TotalCredits = tb.TotalCredits.Add(out.CreditAmount)
		}
		tb.Accounts = append(tb.Accounts, out)
	}
	return tb
}

// ValidateTrialBalance checks the closure property: column totals equal
// within the posting tolerance.
func ValidateTrialBalance(tb *models.TrialBalance) models.TrialBalanceValidation {
	diff := tb.TotalDebits.Sub(tb.TotalCredits).Abs()
	return models.TrialBalanceValidation{
		IsBalanced: diff.LessThanOrEqual(balanceTolerance),
		Difference: diff,
	}
}

// ExportToCSV renders a trial balance with the fixed column order
// code, name, type, debit, credit. Pure formatting, no aggregation.
func ExportToCSV(tb *models.TrialBalance) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"code", "name", "type", "debit", "credit"}); err != nil {
		return "", err
	}
	for _, row := range tb.Accounts {
		record := []string{
			row.AccountCode,
			row.AccountName,
			string(row.AccountType),
			row.DebitAmount.StringFixed(2),
			row.CreditAmount.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	if err := w.Write([]string{"", "TOTAL", "", tb.TotalDebits.StringFixed(2), tb.TotalCredits.StringFixed(2)}); err != nil {
		return "", err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func debitNormal(t models.AccountType) bool {
	return t == models.AccountTypeAsset || t == models.AccountTypeExpense
}
