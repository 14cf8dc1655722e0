package domain

// GiftCardStatus represents the lifecycle state of a gift card
type GiftCardStatus string

const (
	GiftCardStatusActive    GiftCardStatus = "ACTIVE"
	GiftCardStatusUsed      GiftCardStatus = "USED"
	GiftCardStatusExpired   GiftCardStatus = "EXPIRED"
	GiftCardStatusCancelled GiftCardStatus = "CANCELLED"
)

// IsValid checks if the gift card status is valid
func (s GiftCardStatus) IsValid() bool {
	switch s {
	case GiftCardStatusActive,
		GiftCardStatusUsed,
		GiftCardStatusExpired,
		GiftCardStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further redemption is possible
func (s GiftCardStatus) IsTerminal() bool {
	switch s {
	case GiftCardStatusUsed, GiftCardStatusExpired, GiftCardStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid. All transitions
// are one-way; reactivation via AddBalance is gated explicitly in the
// service layer, not here.
func (s GiftCardStatus) CanTransitionTo(newStatus GiftCardStatus) bool {
	switch s {
	case GiftCardStatusActive:
		return newStatus == GiftCardStatusUsed ||
			newStatus == GiftCardStatusExpired ||
			newStatus == GiftCardStatusCancelled
	case GiftCardStatusUsed, GiftCardStatusExpired, GiftCardStatusCancelled:
		return false // Terminal states
	default:
		return false
	}
}

// TransactionType classifies a ledger entry
type TransactionType string

const (
	TransactionTypeIssued   TransactionType = "ISSUED"
	TransactionTypeRedeemed TransactionType = "REDEEMED"
	TransactionTypeRefunded TransactionType = "REFUNDED"
	TransactionTypeExpired  TransactionType = "EXPIRED"
	TransactionTypeBonus    TransactionType = "BONUS"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIssued,
		TransactionTypeRedeemed,
		TransactionTypeRefunded,
		TransactionTypeExpired,
		TransactionTypeBonus:
		return true
	default:
		return false
	}
}

// IsCredit reports whether entries of this type add value to the card
func (t TransactionType) IsCredit() bool {
	return t == TransactionTypeIssued || t == TransactionTypeRefunded || t == TransactionTypeBonus
}
