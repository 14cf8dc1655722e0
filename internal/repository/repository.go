package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/perfumeoud/retailapi/internal/domain"
)

// GiftCardRepository persists gift card records
type GiftCardRepository interface {
	// Create persists the card together with its opening ledger entry in
	// one store transaction. The entry's GiftCardID is filled in from the
	// created card.
	Create(ctx context.Context, card *domain.GiftCard, opening *domain.GiftCardTransaction) error

	GetByCode(ctx context.Context, code string) (*domain.GiftCard, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GiftCard, error)
	List(ctx context.Context, filter domain.GiftCardFilter) ([]*domain.GiftCard, error)

	// UpdateBalance atomically sets balance and status, but only if the
	// stored status and balance still match fromStatus and expected.
	// When txn is non-nil it is appended to the ledger in the same store
	// transaction, so balance and ledger can never diverge: either both
	// writes land or neither does. Returns *errors.ErrConflict when the
	// row was modified concurrently, so racing redemptions and sweeps
	// lose cleanly instead of overwriting each other.
	UpdateBalance(ctx context.Context, id uuid.UUID, fromStatus domain.GiftCardStatus, expected, newBalance decimal.Decimal, newStatus domain.GiftCardStatus, txn *domain.GiftCardTransaction) error

	// ListExpired returns ACTIVE cards whose expiry date is before asOf
	ListExpired(ctx context.Context, asOf time.Time) ([]*domain.GiftCard, error)

	// AggregateActive returns the count and outstanding balance of ACTIVE
	// cards issued within the period
	AggregateActive(ctx context.Context, period domain.Period) (domain.Aggregate, error)
}

// TransactionRepository reads the append-only gift card ledger. Entries
// are written only through GiftCardRepository's atomic operations, never
// on their own.
type TransactionRepository interface {
	// ListByGiftCard returns ledger entries ordered newest-first
	ListByGiftCard(ctx context.Context, giftCardID uuid.UUID) ([]*domain.GiftCardTransaction, error)

	// HasType reports whether the card already has an entry of the given
	// type. Guards the expiry sweep against duplicate EXPIRED entries.
	HasType(ctx context.Context, giftCardID uuid.UUID, txnType domain.TransactionType) (bool, error)

	// Aggregate returns the count and signed sum of entries of the given
	// type created within the period
	Aggregate(ctx context.Context, txnType domain.TransactionType, period domain.Period) (domain.Aggregate, error)
}

// StaffRepository persists staff/terminal accounts
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.Staff, error)
}

// Repositories bundles all repositories for injection
type Repositories struct {
	GiftCard    GiftCardRepository
	Transaction TransactionRepository
	Staff       StaffRepository
}
