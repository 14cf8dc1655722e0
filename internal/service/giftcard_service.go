package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/perfumeoud/retailapi/internal/config"
	"github.com/perfumeoud/retailapi/internal/domain"
	"github.com/perfumeoud/retailapi/internal/giftcode"
	"github.com/perfumeoud/retailapi/internal/qrcode"
	"github.com/perfumeoud/retailapi/internal/repository"
	"github.com/perfumeoud/retailapi/pkg/errors"
)

type giftCardService struct {
	repos  *repository.Repositories
	codes  *giftcode.Generator
	qr     *qrcode.Codec
	cfg    config.GiftCardConfig
	logger *zap.Logger
}

// NewGiftCardService creates a new gift card service
func NewGiftCardService(repos *repository.Repositories, codes *giftcode.Generator, qr *qrcode.Codec, cfg config.GiftCardConfig, logger *zap.Logger) *giftCardService {
	return &giftCardService{
		repos:  repos,
		codes:  codes,
		qr:     qr,
		cfg:    cfg,
		logger: logger,
	}
}

// Issue creates a gift card with balance equal to its face value, renders
// its QR envelope, and appends the opening ISSUED ledger entry.
func (s *giftCardService) Issue(ctx context.Context, req IssueRequest) (*domain.GiftCard, error) {
	if !req.Amount.IsPositive() {
		return nil, &errors.ErrValidation{Message: "amount must be positive"}
	}

	currency := req.Currency
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	code, err := s.codes.Generate()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.AddDate(s.cfg.ExpiryYears, 0, 0)
	if req.ExpiresAt != nil {
		expiresAt = *req.ExpiresAt
	}

	png, err := s.qr.Encode(code, req.Amount, currency, now)
	if err != nil {
		return nil, err
	}

	card := &domain.GiftCard{
		Code:                code,
		Amount:              req.Amount,
		Balance:             req.Amount,
		Currency:            currency,
		Status:              domain.GiftCardStatusActive,
		CustomerID:          req.CustomerID,
		PurchasedByID:       req.PurchasedByID,
		IssuedAt:            now,
		ExpiresAt:           expiresAt,
		Notes:               req.Notes,
		RecipientName:       req.RecipientName,
		RecipientNameArabic: req.RecipientNameArabic,
		Message:             req.Message,
		MessageArabic:       req.MessageArabic,
		QRCode:              png,
	}

	opening := &domain.GiftCardTransaction{
		Type:        domain.TransactionTypeIssued,
		Amount:      req.Amount,
		CreatedByID: req.PurchasedByID,
	}
	if err := s.repos.GiftCard.Create(ctx, card, opening); err != nil {
		return nil, err
	}

	s.logger.Info("Gift card issued",
		zap.String("code", card.Code),
		zap.String("amount", card.Amount.StringFixed(2)),
		zap.String("currency", card.Currency),
	)

	return card, nil
}

// Validate checks whether a code identifies a redeemable card. Expiry and
// zero-balance closure are detected opportunistically here and persisted
// even though the result reports the card as invalid.
func (s *giftCardService) Validate(ctx context.Context, code string) (*ValidationResult, error) {
	card, err := s.validate(ctx, code)
	if err != nil {
		if isStoreError(err) {
			return nil, err
		}
		result := &ValidationResult{Valid: false, GiftCard: card, Err: err}
		if card != nil {
			result.AvailableBalance = card.Balance
		}
		return result, nil
	}

	return &ValidationResult{
		Valid:            true,
		GiftCard:         card,
		AvailableBalance: card.Balance,
	}, nil
}

// validate is the shared redeemability check. It returns the card together
// with a typed error describing why it cannot be redeemed. Lazy state
// transitions triggered here are persisted regardless of the outcome.
func (s *giftCardService) validate(ctx context.Context, code string) (*domain.GiftCard, error) {
	card, err := s.repos.GiftCard.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if card.Status != domain.GiftCardStatusActive {
		return card, &errors.ErrInvalidState{Code: card.Code, Status: string(card.Status)}
	}

	if time.Now().After(card.ExpiresAt) {
		// Lazy expiry: persist the transition as part of the read. Losing
		// the conditional update to a racing validator or sweep means the
		// card is already expired, which is still the answer.
		if err := s.expireCard(ctx, card); err != nil {
			if _, ok := err.(*errors.ErrConflict); !ok {
				return card, err
			}
		}
		return card, &errors.ErrExpired{Code: card.Code}
	}

	if !card.Balance.IsPositive() {
		// Lazy closing: a drained card still marked ACTIVE is moved to
		// USED. Racing validators lose the conditional update and no-op.
		if err := s.repos.GiftCard.UpdateBalance(ctx, card.ID, domain.GiftCardStatusActive, card.Balance, decimal.Zero, domain.GiftCardStatusUsed, nil); err != nil {
			if _, ok := err.(*errors.ErrConflict); !ok {
				return card, err
			}
		}
		card.Balance = decimal.Zero
		card.Status = domain.GiftCardStatusUsed
		return card, &errors.ErrInvalidState{Code: card.Code, Status: string(domain.GiftCardStatusUsed)}
	}

	return card, nil
}

// Redeem deducts amount from the card's balance and appends a REDEEMED
// ledger entry. The balance update is CAS-guarded: if the card changed
// since validation the redemption is rejected, never silently retried.
func (s *giftCardService) Redeem(ctx context.Context, req RedeemRequest) (*RedeemResult, error) {
	if !req.Amount.IsPositive() {
		return nil, &errors.ErrValidation{Message: "redemption amount must be positive"}
	}

	card, err := s.validate(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	if req.Amount.GreaterThan(card.Balance) {
		return nil, &errors.ErrInsufficientBalance{
			Code:      card.Code,
			Requested: req.Amount,
			Available: card.Balance,
		}
	}

	newBalance := card.Balance.Sub(req.Amount)
	newStatus := domain.GiftCardStatusActive
	if !newBalance.IsPositive() {
		newStatus = domain.GiftCardStatusUsed
	}

	txn := &domain.GiftCardTransaction{
		GiftCardID:  card.ID,
		Type:        domain.TransactionTypeRedeemed,
		Amount:      req.Amount.Neg(),
		OrderID:     req.OrderID,
		Notes:       req.Notes,
		CreatedByID: req.CreatedByID,
	}
	if err := s.repos.GiftCard.UpdateBalance(ctx, card.ID, domain.GiftCardStatusActive, card.Balance, newBalance, newStatus, txn); err != nil {
		return nil, err
	}

	card.Balance = newBalance
	card.Status = newStatus

	s.logger.Info("Gift card redeemed",
		zap.String("code", card.Code),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("remaining", newBalance.StringFixed(2)),
	)

	return &RedeemResult{
		GiftCard:         card,
		RedeemedAmount:   req.Amount,
		RemainingBalance: newBalance,
		TransactionID:    txn.ID,
	}, nil
}

// AddBalance credits the card with a caller-supplied transaction type.
// Reviving a non-ACTIVE card requires the explicit AllowReactivation flag.
func (s *giftCardService) AddBalance(ctx context.Context, req AddBalanceRequest) (*domain.GiftCard, error) {
	if !req.Amount.IsPositive() {
		return nil, &errors.ErrValidation{Message: "amount must be positive"}
	}
	if !req.Type.IsValid() || !req.Type.IsCredit() {
		return nil, &errors.ErrValidation{Message: "transaction type must be a credit type"}
	}

	card, err := s.repos.GiftCard.GetByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	if card.Status != domain.GiftCardStatusActive && !req.AllowReactivation {
		return nil, &errors.ErrInvalidState{Code: card.Code, Status: string(card.Status)}
	}

	newBalance := card.Balance.Add(req.Amount)
	txn := &domain.GiftCardTransaction{
		GiftCardID:  card.ID,
		Type:        req.Type,
		Amount:      req.Amount,
		Notes:       req.Notes,
		CreatedByID: req.CreatedByID,
	}
	if err := s.repos.GiftCard.UpdateBalance(ctx, card.ID, card.Status, card.Balance, newBalance, domain.GiftCardStatusActive, txn); err != nil {
		return nil, err
	}

	card.Balance = newBalance
	card.Status = domain.GiftCardStatusActive

	s.logger.Info("Gift card balance added",
		zap.String("code", card.Code),
		zap.String("type", string(req.Type)),
		zap.String("amount", req.Amount.StringFixed(2)),
	)

	return card, nil
}

// CheckBalance is a thin read wrapper over Validate; it propagates the
// validation error for non-redeemable cards.
func (s *giftCardService) CheckBalance(ctx context.Context, code string) (*BalanceResult, error) {
	card, err := s.validate(ctx, code)
	if err != nil {
		return nil, err
	}

	return &BalanceResult{
		Code:      card.Code,
		Balance:   card.Balance,
		Currency:  card.Currency,
		Status:    card.Status,
		ExpiresAt: card.ExpiresAt,
	}, nil
}

// GetTransactionHistory returns the card and its ledger, newest-first
func (s *giftCardService) GetTransactionHistory(ctx context.Context, code string) (*TransactionHistory, error) {
	card, err := s.repos.GiftCard.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	txns, err := s.repos.Transaction.ListByGiftCard(ctx, card.ID)
	if err != nil {
		return nil, err
	}

	return &TransactionHistory{
		GiftCard:     card,
		Transactions: txns,
	}, nil
}

// List returns gift cards matching the filter
func (s *giftCardService) List(ctx context.Context, filter domain.GiftCardFilter) ([]*domain.GiftCard, error) {
	return s.repos.GiftCard.List(ctx, filter)
}

// Cancel sets the card to CANCELLED, zeroes the stored balance, and
// appends a REFUNDED entry for the remaining value so the ledger still
// reconciles to the stored balance.
func (s *giftCardService) Cancel(ctx context.Context, code, reason string, createdByID uuid.UUID) (*domain.GiftCard, error) {
	card, err := s.repos.GiftCard.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if card.Status == domain.GiftCardStatusCancelled {
		return nil, &errors.ErrAlreadyCancelled{Code: card.Code}
	}
	if !card.Status.CanTransitionTo(domain.GiftCardStatusCancelled) {
		return nil, &errors.ErrInvalidState{Code: card.Code, Status: string(card.Status)}
	}

	var txn *domain.GiftCardTransaction
	if card.Balance.IsPositive() {
		txn = &domain.GiftCardTransaction{
			GiftCardID:  card.ID,
			Type:        domain.TransactionTypeRefunded,
			Amount:      card.Balance.Neg(),
			Notes:       &reason,
			CreatedByID: createdByID,
		}
	}

	if err := s.repos.GiftCard.UpdateBalance(ctx, card.ID, card.Status, card.Balance, decimal.Zero, domain.GiftCardStatusCancelled, txn); err != nil {
		return nil, err
	}

	card.Balance = decimal.Zero
	card.Status = domain.GiftCardStatusCancelled

	s.logger.Info("Gift card cancelled",
		zap.String("code", card.Code),
		zap.String("reason", reason),
	)

	return card, nil
}

// ExpireOldGiftCards transitions every ACTIVE card whose expiry date has
// passed. Idempotent: the EXPIRED ledger entry is appended at most once
// per card, and re-running the sweep transitions nothing twice.
func (s *giftCardService) ExpireOldGiftCards(ctx context.Context) (int, error) {
	cards, err := s.repos.GiftCard.ListExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	count := 0
	for _, card := range cards {
		if err := s.expireCard(ctx, card); err != nil {
			if _, ok := err.(*errors.ErrConflict); ok {
				// Lost the race to a validator or another sweep
				continue
			}
			return count, err
		}
		count++
	}

	if count > 0 {
		s.logger.Info("Expired gift cards", zap.Int("count", count))
	}

	return count, nil
}

// expireCard performs the ACTIVE -> EXPIRED transition: one conditional
// update zeroes the balance, flips the status, and appends the -balance
// EXPIRED ledger entry. Only the winner of the conditional update writes
// anything, so concurrent sweeps cannot double-book.
func (s *giftCardService) expireCard(ctx context.Context, card *domain.GiftCard) error {
	hasExpiry, err := s.repos.Transaction.HasType(ctx, card.ID, domain.TransactionTypeExpired)
	if err != nil {
		return err
	}

	var txn *domain.GiftCardTransaction
	if !hasExpiry && card.Balance.IsPositive() {
		txn = &domain.GiftCardTransaction{
			GiftCardID:  card.ID,
			Type:        domain.TransactionTypeExpired,
			Amount:      card.Balance.Neg(),
			CreatedByID: card.PurchasedByID,
		}
	}

	if err := s.repos.GiftCard.UpdateBalance(ctx, card.ID, domain.GiftCardStatusActive, card.Balance, decimal.Zero, domain.GiftCardStatusExpired, txn); err != nil {
		return err
	}

	card.Balance = decimal.Zero
	card.Status = domain.GiftCardStatusExpired
	return nil
}

// isStoreError distinguishes infrastructure failures from the typed
// business errors Validate folds into its result.
func isStoreError(err error) bool {
	switch err.(type) {
	case *errors.ErrNotFound, *errors.ErrInvalidState, *errors.ErrExpired,
		*errors.ErrInsufficientBalance, *errors.ErrAlreadyCancelled,
		*errors.ErrConflict, *errors.ErrValidation:
		return false
	default:
		return true
	}
}
