package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGiftCardStatusTransitions(t *testing.T) {
	tests := []struct {
		from    GiftCardStatus
		to      GiftCardStatus
		allowed bool
	}{
		{GiftCardStatusActive, GiftCardStatusUsed, true},
		{GiftCardStatusActive, GiftCardStatusExpired, true},
		{GiftCardStatusActive, GiftCardStatusCancelled, true},
		{GiftCardStatusUsed, GiftCardStatusActive, false},
		{GiftCardStatusExpired, GiftCardStatusActive, false},
		{GiftCardStatusCancelled, GiftCardStatusActive, false},
		{GiftCardStatusUsed, GiftCardStatusCancelled, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestGiftCardStatusIsTerminal(t *testing.T) {
	assert.False(t, GiftCardStatusActive.IsTerminal())
	assert.True(t, GiftCardStatusUsed.IsTerminal())
	assert.True(t, GiftCardStatusExpired.IsTerminal())
	assert.True(t, GiftCardStatusCancelled.IsTerminal())
}

func TestGiftCardStatusIsValid(t *testing.T) {
	assert.True(t, GiftCardStatusActive.IsValid())
	assert.False(t, GiftCardStatus("SUSPENDED").IsValid())
}

func TestTransactionTypeIsCredit(t *testing.T) {
	assert.True(t, TransactionTypeIssued.IsCredit())
	assert.True(t, TransactionTypeRefunded.IsCredit())
	assert.True(t, TransactionTypeBonus.IsCredit())
	assert.False(t, TransactionTypeRedeemed.IsCredit())
	assert.False(t, TransactionTypeExpired.IsCredit())
}

func TestTransactionTypeIsValid(t *testing.T) {
	assert.True(t, TransactionTypeIssued.IsValid())
	assert.False(t, TransactionType("CHARGEBACK").IsValid())
}
