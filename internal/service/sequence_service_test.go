package service

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeping-web/internal/apperr"
	"bookkeeping-web/internal/models"
)

type fakeCounterStore struct {
	counters map[string]*models.Counter
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{counters: make(map[string]*models.Counter)}
}

func counterKey(name string, orgID int64) string {
	return fmt.Sprintf("%s/%d", name, orgID)
}

func (s *fakeCounterStore) Increment(name string, orgID int64, prefix string, paddingSize int) (int64, error) {
	key := counterKey(name, orgID)
	counter, ok := s.counters[key]
	if !ok {
		counter = &models.Counter{Name: name, OrganizationID: orgID, Prefix: prefix, PaddingSize: paddingSize}
		s.counters[key] = counter
	}
	counter.Value++
	return counter.Value, nil
}

func (s *fakeCounterStore) Find(name string, orgID int64) (*models.Counter, error) {
	counter, ok := s.counters[counterKey(name, orgID)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return counter, nil
}

func TestFormatSequence(t *testing.T) {
	assert.Equal(t, "RcV-00001", FormatSequence("RcV-", 5, 1))
	assert.Equal(t, "JV-00042", FormatSequence("JV-", 5, 42))
	assert.Equal(t, "PO-123456", FormatSequence("PO-", 5, 123456))
	assert.Equal(t, "7", FormatSequence("", 1, 7))
}

func TestSequenceNext(t *testing.T) {
	svc := NewSequenceService(newFakeCounterStore(), 5)
	cfg := models.CounterConfig{Prefix: "RcV-", PaddingSize: 5}

	first, err := svc.Next(models.SeqReceiptVoucher, 1, cfg)
	require.NoError(t, err)
	assert.Equal(t, "RcV-00001", first)

	second, err := svc.Next(models.SeqReceiptVoucher, 1, cfg)
	require.NoError(t, err)
	assert.Equal(t, "RcV-00002", second)
}

func TestSequenceNextIsScopedPerOrganization(t *testing.T) {
	svc := NewSequenceService(newFakeCounterStore(), 5)
	cfg := models.CounterConfig{Prefix: "JV-", PaddingSize: 5}

	forOrg1, err := svc.Next(models.SeqJournalVoucher, 1, cfg)
	require.NoError(t, err)
	forOrg2, err := svc.Next(models.SeqJournalVoucher, 2, cfg)
	require.NoError(t, err)

	assert.Equal(t, "JV-00001", forOrg1)
	assert.Equal(t, "JV-00001", forOrg2)
}

func TestSequencePeek(t *testing.T) {
	store := newFakeCounterStore()
	svc := NewSequenceService(store, 5)
	cfg := models.CounterConfig{Prefix: "PV-", PaddingSize: 4}

	_, err := svc.Peek(models.SeqPaymentVoucher, 1)
	assert.True(t, apperr.IsNotFound(err), "peek before first use should be not found")

	_, err = svc.Next(models.SeqPaymentVoucher, 1, cfg)
	require.NoError(t, err)

	peeked, err := svc.Peek(models.SeqPaymentVoucher, 1)
	require.NoError(t, err)
	assert.Equal(t, "PV-0002", peeked)

	// Peeking must not reserve.
	next, err := svc.Next(models.SeqPaymentVoucher, 1, cfg)
	require.NoError(t, err)
	assert.Equal(t, "PV-0002", next)
}

func TestSequenceNextUniqueSkipsTakenNumbers(t *testing.T) {
	svc := NewSequenceService(newFakeCounterStore(), 5)
	cfg := models.CounterConfig{Prefix: "JV-", PaddingSize: 5}

	taken := map[string]bool{"JV-00001": true, "JV-00002": true}
	number, err := svc.NextUnique(models.SeqJournalVoucher, 1, cfg, func(n string) (bool, error) {
		return taken[n], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "JV-00003", number)
}

func TestSequenceNextUniqueExhausted(t *testing.T) {
	svc := NewSequenceService(newFakeCounterStore(), 3)
	cfg := models.CounterConfig{Prefix: "JV-", PaddingSize: 5}

	_, err := svc.NextUnique(models.SeqJournalVoucher, 1, cfg, func(string) (bool, error) {
		return true, nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrSequenceExhausted)
}
