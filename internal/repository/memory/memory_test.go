package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perfumeoud/retailapi/internal/domain"
	"github.com/perfumeoud/retailapi/internal/repository"
	"github.com/perfumeoud/retailapi/pkg/errors"
)

func createCard(t *testing.T, repos *repository.Repositories, balance int64) *domain.GiftCard {
	t.Helper()

	card := &domain.GiftCard{
		Code:          "PO-TEST-" + uuid.NewString()[:4] + "-0000",
		Amount:        decimal.NewFromInt(balance),
		Balance:       decimal.NewFromInt(balance),
		Currency:      "AED",
		Status:        domain.GiftCardStatusActive,
		PurchasedByID: uuid.New(),
		IssuedAt:      time.Now(),
		ExpiresAt:     time.Now().AddDate(2, 0, 0),
	}
	opening := &domain.GiftCardTransaction{
		Type:        domain.TransactionTypeIssued,
		Amount:      decimal.NewFromInt(balance),
		CreatedByID: card.PurchasedByID,
	}
	require.NoError(t, repos.GiftCard.Create(context.Background(), card, opening))
	return card
}

func TestCreateWritesOpeningEntry(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()

	card := createCard(t, repos, 100)

	txns, err := repos.Transaction.ListByGiftCard(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, domain.TransactionTypeIssued, txns[0].Type)
	assert.Equal(t, card.ID, txns[0].GiftCardID)
	assert.True(t, txns[0].Amount.Equal(decimal.NewFromInt(100)))
}

// The balance write and the ledger append land together: a successful
// update carries its entry, a lost conditional update carries nothing.
func TestUpdateBalanceAppendsEntryAtomically(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()

	card := createCard(t, repos, 100)

	txn := &domain.GiftCardTransaction{
		GiftCardID:  card.ID,
		Type:        domain.TransactionTypeRedeemed,
		Amount:      decimal.NewFromInt(-40),
		CreatedByID: card.PurchasedByID,
	}
	err := repos.GiftCard.UpdateBalance(ctx, card.ID,
		domain.GiftCardStatusActive, decimal.NewFromInt(100),
		decimal.NewFromInt(60), domain.GiftCardStatusActive, txn)
	require.NoError(t, err)

	stored, err := repos.GiftCard.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(60)))

	txns, err := repos.Transaction.ListByGiftCard(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	sum := decimal.Zero
	for _, entry := range txns {
		sum = sum.Add(entry.Amount)
	}
	assert.True(t, stored.Balance.Equal(sum))
}

func TestUpdateBalanceConflictWritesNothing(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()

	card := createCard(t, repos, 100)

	txn := &domain.GiftCardTransaction{
		GiftCardID:  card.ID,
		Type:        domain.TransactionTypeRedeemed,
		Amount:      decimal.NewFromInt(-40),
		CreatedByID: card.PurchasedByID,
	}

	// Stale expected balance
	err := repos.GiftCard.UpdateBalance(ctx, card.ID,
		domain.GiftCardStatusActive, decimal.NewFromInt(75),
		decimal.NewFromInt(35), domain.GiftCardStatusActive, txn)
	require.Error(t, err)
	assert.IsType(t, &errors.ErrConflict{}, err)

	// Stale status
	err = repos.GiftCard.UpdateBalance(ctx, card.ID,
		domain.GiftCardStatusUsed, decimal.NewFromInt(100),
		decimal.Zero, domain.GiftCardStatusCancelled, txn)
	require.Error(t, err)
	assert.IsType(t, &errors.ErrConflict{}, err)

	stored, err := repos.GiftCard.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.GiftCardStatusActive, stored.Status)

	txns, err := repos.Transaction.ListByGiftCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestUpdateBalanceUnknownCard(t *testing.T) {
	repos := NewRepositories()

	err := repos.GiftCard.UpdateBalance(context.Background(), uuid.New(),
		domain.GiftCardStatusActive, decimal.NewFromInt(10),
		decimal.Zero, domain.GiftCardStatusUsed, nil)
	require.Error(t, err)
	assert.IsType(t, &errors.ErrNotFound{}, err)
}
