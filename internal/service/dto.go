package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/perfumeoud/retailapi/internal/domain"
)

// IssueRequest carries the inputs for issuing a new gift card
type IssueRequest struct {
	Amount              decimal.Decimal
	Currency            string
	CustomerID          *uuid.UUID
	PurchasedByID       uuid.UUID
	ExpiresAt           *time.Time
	Notes               *string
	RecipientName       *string
	RecipientNameArabic *string
	Message             *string
	MessageArabic       *string
}

// ValidationResult is the display-oriented outcome of validating a code.
// Err is nil when the card is redeemable; otherwise it carries the typed
// reason while GiftCard, when present, is still returned for display.
type ValidationResult struct {
	Valid            bool
	GiftCard         *domain.GiftCard
	Err              error
	AvailableBalance decimal.Decimal
}

// RedeemRequest carries the inputs for a redemption
type RedeemRequest struct {
	Code        string
	Amount      decimal.Decimal
	OrderID     *uuid.UUID
	Notes       *string
	CreatedByID uuid.UUID
}

// RedeemResult describes a successful redemption
type RedeemResult struct {
	GiftCard         *domain.GiftCard
	RedeemedAmount   decimal.Decimal
	RemainingBalance decimal.Decimal
	TransactionID    uuid.UUID
}

// AddBalanceRequest carries the inputs for a top-up. Type is
// caller-supplied so refunds, promotional bonuses and goodwill credits
// share one code path. AllowReactivation must be set explicitly to revive
// a non-ACTIVE card.
type AddBalanceRequest struct {
	Code              string
	Amount            decimal.Decimal
	Type              domain.TransactionType
	Notes             *string
	CreatedByID       uuid.UUID
	AllowReactivation bool
}

// BalanceResult is the thin balance-check view of a card
type BalanceResult struct {
	Code      string
	Balance   decimal.Decimal
	Currency  string
	Status    domain.GiftCardStatus
	ExpiresAt time.Time
}

// TransactionHistory pairs a card summary with its ledger, newest-first
type TransactionHistory struct {
	GiftCard     *domain.GiftCard
	Transactions []*domain.GiftCardTransaction
}

// ReportBucket is one aggregate line in a gift card report
type ReportBucket struct {
	Count      int64           `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// Report is the period-bounded gift card report
type Report struct {
	Period         domain.Period `json:"period"`
	Issued         ReportBucket  `json:"issued"`
	Redeemed       ReportBucket  `json:"redeemed"`
	Expired        ReportBucket  `json:"expired"`
	Active         ReportBucket  `json:"active"`
	RedemptionRate float64       `json:"redemption_rate"`
}
