// Package memory implements the repository interfaces with mutex-guarded
// maps. It backs the service tests and dev mode without a database, with
// the same conditional-update semantics as the postgres implementation.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/perfumeoud/retailapi/internal/domain"
	"github.com/perfumeoud/retailapi/internal/repository"
	"github.com/perfumeoud/retailapi/pkg/errors"
)

type Store struct {
	mu           sync.RWMutex
	cardsByID    map[uuid.UUID]*domain.GiftCard
	cardsByCode  map[string]uuid.UUID
	transactions map[uuid.UUID][]*domain.GiftCardTransaction
	staffByID    map[uuid.UUID]*domain.Staff
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		cardsByID:    map[uuid.UUID]*domain.GiftCard{},
		cardsByCode:  map[string]uuid.UUID{},
		transactions: map[uuid.UUID][]*domain.GiftCardTransaction{},
		staffByID:    map[uuid.UUID]*domain.Staff{},
	}
}

// NewRepositories bundles a single store behind the repository interfaces
func NewRepositories() *repository.Repositories {
	s := NewStore()
	return &repository.Repositories{
		GiftCard:    &giftCardRepo{s},
		Transaction: &transactionRepo{s},
		Staff:       &staffRepo{s},
	}
}

// appendTransaction stores a copy of the ledger entry. The caller must
// hold the store lock.
func (s *Store) appendTransaction(txn *domain.GiftCardTransaction) {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	stored := *txn
	s.transactions[txn.GiftCardID] = append(s.transactions[txn.GiftCardID], &stored)
}

type giftCardRepo struct {
	s *Store
}

func (r *giftCardRepo) Create(ctx context.Context, card *domain.GiftCard, opening *domain.GiftCardTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	if card.UpdatedAt.IsZero() {
		card.UpdatedAt = now
	}

	if _, exists := r.s.cardsByCode[card.Code]; exists {
		return &errors.ErrConflict{Resource: "gift card", ID: card.Code}
	}

	stored := *card
	r.s.cardsByID[card.ID] = &stored
	r.s.cardsByCode[card.Code] = card.ID

	if opening != nil {
		opening.GiftCardID = card.ID
		r.s.appendTransaction(opening)
	}

	return nil
}

func (r *giftCardRepo) GetByCode(ctx context.Context, code string) (*domain.GiftCard, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.cardsByCode[code]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "gift card", ID: code}
	}
	card := *r.s.cardsByID[id]
	return &card, nil
}

func (r *giftCardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.GiftCard, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.cardsByID[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "gift card", ID: id.String()}
	}
	card := *stored
	return &card, nil
}

func (r *giftCardRepo) List(ctx context.Context, filter domain.GiftCardFilter) ([]*domain.GiftCard, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	cards := []*domain.GiftCard{}
	for _, stored := range r.s.cardsByID {
		if filter.Status != nil && stored.Status != *filter.Status {
			continue
		}
		if filter.CustomerID != nil {
			if stored.CustomerID == nil || *stored.CustomerID != *filter.CustomerID {
				continue
			}
		}
		card := *stored
		cards = append(cards, &card)
	}

	sort.Slice(cards, func(i, j int) bool {
		return cards[i].IssuedAt.After(cards[j].IssuedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(cards) {
			return []*domain.GiftCard{}, nil
		}
		cards = cards[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(cards) {
		cards = cards[:filter.Limit]
	}

	return cards, nil
}

// UpdateBalance holds the store lock across the balance write and the
// ledger append, matching the postgres implementation's transaction: the
// two either land together or not at all.
func (r *giftCardRepo) UpdateBalance(ctx context.Context, id uuid.UUID, fromStatus domain.GiftCardStatus, expected, newBalance decimal.Decimal, newStatus domain.GiftCardStatus, txn *domain.GiftCardTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.cardsByID[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "gift card", ID: id.String()}
	}
	if stored.Status != fromStatus || !stored.Balance.Equal(expected) {
		return &errors.ErrConflict{Resource: "gift card", ID: id.String()}
	}

	stored.Balance = newBalance
	stored.Status = newStatus
	stored.UpdatedAt = time.Now()

	if txn != nil {
		r.s.appendTransaction(txn)
	}

	return nil
}

func (r *giftCardRepo) ListExpired(ctx context.Context, asOf time.Time) ([]*domain.GiftCard, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	cards := []*domain.GiftCard{}
	for _, stored := range r.s.cardsByID {
		if stored.Status == domain.GiftCardStatusActive && stored.ExpiresAt.Before(asOf) {
			card := *stored
			cards = append(cards, &card)
		}
	}

	sort.Slice(cards, func(i, j int) bool {
		return cards[i].ExpiresAt.Before(cards[j].ExpiresAt)
	})

	return cards, nil
}

func (r *giftCardRepo) AggregateActive(ctx context.Context, period domain.Period) (domain.Aggregate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	agg := domain.Aggregate{Sum: decimal.Zero}
	for _, stored := range r.s.cardsByID {
		if stored.Status != domain.GiftCardStatusActive {
			continue
		}
		if stored.IssuedAt.Before(period.Start) || !stored.IssuedAt.Before(period.End) {
			continue
		}
		agg.Count++
		agg.Sum = agg.Sum.Add(stored.Balance)
	}

	return agg, nil
}

type transactionRepo struct {
	s *Store
}

func (r *transactionRepo) ListByGiftCard(ctx context.Context, giftCardID uuid.UUID) ([]*domain.GiftCardTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	txns := []*domain.GiftCardTransaction{}
	for _, stored := range r.s.transactions[giftCardID] {
		txn := *stored
		txns = append(txns, &txn)
	}

	// Newest first
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})

	return txns, nil
}

func (r *transactionRepo) HasType(ctx context.Context, giftCardID uuid.UUID, txnType domain.TransactionType) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, stored := range r.s.transactions[giftCardID] {
		if stored.Type == txnType {
			return true, nil
		}
	}
	return false, nil
}

func (r *transactionRepo) Aggregate(ctx context.Context, txnType domain.TransactionType, period domain.Period) (domain.Aggregate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	agg := domain.Aggregate{Sum: decimal.Zero}
	for _, txns := range r.s.transactions {
		for _, stored := range txns {
			if stored.Type != txnType {
				continue
			}
			if stored.CreatedAt.Before(period.Start) || !stored.CreatedAt.Before(period.End) {
				continue
			}
			agg.Count++
			agg.Sum = agg.Sum.Add(stored.Amount)
		}
	}

	return agg, nil
}

type staffRepo struct {
	s *Store
}

func (r *staffRepo) Create(ctx context.Context, staff *domain.Staff) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = now
	}
	if staff.UpdatedAt.IsZero() {
		staff.UpdatedAt = now
	}

	stored := *staff
	r.s.staffByID[staff.ID] = &stored
	return nil
}

func (r *staffRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.staffByID[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "staff", ID: id.String()}
	}
	staff := *stored
	return &staff, nil
}

func (r *staffRepo) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Staff, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, stored := range r.s.staffByID {
		if !stored.IsActive {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(stored.APIKeyHash), []byte(apiKey)); err == nil {
			staff := *stored
			return &staff, nil
		}
	}

	return nil, &errors.ErrUnauthorized{Message: "invalid API key"}
}
