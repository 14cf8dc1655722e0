package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GiftCard represents a stored-value gift card
type GiftCard struct {
	ID                  uuid.UUID
	Code                string
	Amount              decimal.Decimal // face value at issuance, immutable
	Balance             decimal.Decimal
	Currency            string
	Status              GiftCardStatus
	CustomerID          *uuid.UUID
	PurchasedByID       uuid.UUID
	IssuedAt            time.Time
	ExpiresAt           time.Time
	Notes               *string
	RecipientName       *string
	RecipientNameArabic *string
	Message             *string
	MessageArabic       *string
	QRCode              []byte // rendered PNG of the QR envelope
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// GiftCardTransaction is an immutable ledger entry. Entries are never
// updated or deleted; cancellation and expiry append negative entries.
type GiftCardTransaction struct {
	ID          uuid.UUID
	GiftCardID  uuid.UUID
	Type        TransactionType
	Amount      decimal.Decimal // signed: credits positive, debits negative
	OrderID     *uuid.UUID
	Notes       *string
	CreatedByID uuid.UUID
	CreatedAt   time.Time
}

// Staff represents a staff member or POS terminal allowed to operate on
// gift cards
type Staff struct {
	ID         uuid.UUID
	Name       string
	APIKeyHash string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GiftCardFilter narrows List queries
type GiftCardFilter struct {
	Status     *GiftCardStatus
	CustomerID *uuid.UUID
	Limit      int
	Offset     int
}

// Period bounds aggregate queries for reporting
type Period struct {
	Start time.Time
	End   time.Time
}

// Aggregate is the result of a sum/count query over ledger entries
type Aggregate struct {
	Count int64
	Sum   decimal.Decimal
}
