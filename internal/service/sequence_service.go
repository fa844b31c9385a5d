package service

import (
	"database/sql"
	"errors"
	"fmt"

	"bookkeeping-web/internal/apperr"
	"bookkeeping-web/internal/models"
)

// CounterStore is the persistence surface the sequence service needs. The
// Increment implementation must be a single atomic find-and-increment.
type CounterStore interface {
	Increment(name string, orgID int64, prefix string, paddingSize int) (int64, error)
	Find(name string, orgID int64) (*models.Counter, error)
}

// SequenceService issues monotonically increasing, prefix/padded voucher
// numbers per (name, organization). Organization 0 addresses legacy unscoped
// counters.
type SequenceService struct {
	counters    CounterStore
	maxAttempts int
}

func NewSequenceService(counters CounterStore, maxAttempts int) *SequenceService {
	if maxAttempts < 1 {
		maxAttempts = 5
	}
	return &SequenceService{counters: counters, maxAttempts: maxAttempts}
}

// FormatSequence renders a counter value as "{prefix}{zero-padded value}".
// Values wider than the padding keep all their digits.
func FormatSequence(prefix string, paddingSize int, value int64) string {
	return fmt.Sprintf("%s%0*d", prefix, paddingSize, value)
}

// Next atomically reserves the next value and returns its formatted form.
// The counter is created on first use, so the first call yields value 1.
func (s *SequenceService) Next(name string, orgID int64, cfg models.CounterConfig) (string, error) {
	value, err := s.counters.Increment(name, orgID, cfg.Prefix, cfg.PaddingSize)
	if err != nil {
		return "", fmt.Errorf("counter %s: %w", name, err)
	}
	return FormatSequence(cfg.Prefix, cfg.PaddingSize, value), nil
}

// Peek returns what the next call to Next would currently produce, without
// reserving it. It is informational only: another writer can take the value
// at any moment, so the result must never be persisted as the actual number.
func (s *SequenceService) Peek(name string, orgID int64) (string, error) {
	counter, err := s.counters.Find(name, orgID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &apperr.NotFoundError{Kind: "counter", Key: name}
	}
	if err != nil {
		return "", fmt.Errorf("counter %s: %w", name, err)
	}
	return FormatSequence(counter.Prefix, counter.PaddingSize, counter.Value+1), nil
}

// NextUnique reserves numbers until exists reports a free one, bounded by
// the configured attempt count. Needed because peeked or externally chosen
// numbers can collide with a concurrent writer's Next.
func (s *SequenceService) NextUnique(name string, orgID int64, cfg models.CounterConfig, exists func(string) (bool, error)) (string, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		number, err := s.Next(name, orgID, cfg)
		if err != nil {
			return "", err
		}
		taken, err := exists(number)
		if err != nil {
			return "", fmt.Errorf("counter %s: checking %q: %w", name, number, err)
		}
		if !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("counter %s: %w", name, apperr.ErrSequenceExhausted)
}
