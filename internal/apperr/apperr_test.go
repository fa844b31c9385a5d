package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchersSeeThroughWrapping(t *testing.T) {
	validation := fmt.Errorf("line 2: %w", NewValidation("amount", "amount must be positive"))
	assert.True(t, IsValidation(validation))
	assert.False(t, IsNotFound(validation))

	notFound := fmt.Errorf("lookup: %w", &NotFoundError{Kind: "account", Key: "42"})
	assert.True(t, IsNotFound(notFound))

	conflict := fmt.Errorf("post: %w", &ConflictError{Kind: "voucher number", Key: "JV-00001"})
	assert.True(t, IsConflict(conflict))

	state := fmt.Errorf("delete: %w", &StateError{Kind: "account", Key: "Assets", Reason: "has child accounts"})
	assert.True(t, IsState(state))

	consistency := fmt.Errorf("check: %w", &ConsistencyError{Path: "Assets:Cash", Detail: "parent missing"})
	assert.True(t, IsConsistency(consistency))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `validation: amount: amount must be positive`,
		NewValidation("amount", "amount must be positive").Error())
	assert.Equal(t, `account "42" not found`,
		(&NotFoundError{Kind: "account", Key: "42"}).Error())
	assert.Equal(t, `voucher number "JV-00001" already exists`,
		(&ConflictError{Kind: "voucher number", Key: "JV-00001"}).Error())
}

func TestSequenceExhaustedSentinel(t *testing.T) {
	err := fmt.Errorf("counter journal_voucher: %w", ErrSequenceExhausted)
	assert.True(t, errors.Is(err, ErrSequenceExhausted))
}
