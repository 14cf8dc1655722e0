package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/perfumeoud/retailapi/internal/domain"
	"github.com/perfumeoud/retailapi/pkg/errors"
)

const giftCardColumns = `
	id, code, amount, balance, currency, status, customer_id, purchased_by_id,
	issued_at, expires_at, notes, recipient_name, recipient_name_arabic,
	message, message_arabic, qr_code, created_at, updated_at
`

type giftCardRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewGiftCardRepository creates a new gift card repository
func NewGiftCardRepository(db *sql.DB, logger *zap.Logger) *giftCardRepository {
	return &giftCardRepository{
		db:     db,
		logger: logger,
	}
}

func (r *giftCardRepository) Create(ctx context.Context, card *domain.GiftCard, opening *domain.GiftCardTransaction) error {
	query := `
		INSERT INTO gift_cards (` + giftCardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

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

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, query,
		card.ID,
		card.Code,
		card.Amount,
		card.Balance,
		card.Currency,
		card.Status,
		card.CustomerID,
		card.PurchasedByID,
		card.IssuedAt,
		card.ExpiresAt,
		card.Notes,
		card.RecipientName,
		card.RecipientNameArabic,
		card.Message,
		card.MessageArabic,
		card.QRCode,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create gift card", zap.Error(err))
		return err
	}

	if opening != nil {
		opening.GiftCardID = card.ID
		if err := insertTransaction(ctx, tx, opening); err != nil {
			r.logger.Error("Failed to create opening ledger entry", zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func (r *giftCardRepository) GetByCode(ctx context.Context, code string) (*domain.GiftCard, error) {
	query := `SELECT ` + giftCardColumns + ` FROM gift_cards WHERE code = $1`

	card, err := r.scanOne(r.db.QueryRowContext(ctx, query, code))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "gift card", ID: code}
	}
	if err != nil {
		r.logger.Error("Failed to get gift card by code", zap.Error(err))
		return nil, err
	}

	return card, nil
}

func (r *giftCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GiftCard, error) {
	query := `SELECT ` + giftCardColumns + ` FROM gift_cards WHERE id = $1`

	card, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "gift card", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get gift card by ID", zap.Error(err))
		return nil, err
	}

	return card, nil
}

func (r *giftCardRepository) List(ctx context.Context, filter domain.GiftCardFilter) ([]*domain.GiftCard, error) {
	query := `SELECT ` + giftCardColumns + ` FROM gift_cards WHERE 1=1`
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND status = $1`
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		query += ` AND customer_id = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY issued_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list gift cards", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// UpdateBalance is the CAS-guarded read-modify-write: the update only lands
// when the stored status and balance still match what the caller read, so
// two concurrent redemptions cannot both succeed off the same read. The
// ledger entry, when given, is inserted in the same transaction: a failed
// append rolls the balance back rather than leaving it out of step with
// the ledger sum.
func (r *giftCardRepository) UpdateBalance(ctx context.Context, id uuid.UUID, fromStatus domain.GiftCardStatus, expected, newBalance decimal.Decimal, newStatus domain.GiftCardStatus, txn *domain.GiftCardTransaction) error {
	query := `
		UPDATE gift_cards
		SET balance = $4, status = $5, updated_at = $6
		WHERE id = $1 AND status = $2 AND balance = $3
	`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query, id, fromStatus, expected, newBalance, newStatus, time.Now())
	if err != nil {
		r.logger.Error("Failed to update gift card balance", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrConflict{Resource: "gift card", ID: id.String()}
	}

	if txn != nil {
		if err := insertTransaction(ctx, tx, txn); err != nil {
			r.logger.Error("Failed to append ledger entry", zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func (r *giftCardRepository) ListExpired(ctx context.Context, asOf time.Time) ([]*domain.GiftCard, error) {
	query := `
		SELECT ` + giftCardColumns + `
		FROM gift_cards
		WHERE status = $1 AND expires_at < $2
		ORDER BY expires_at
	`

	rows, err := r.db.QueryContext(ctx, query, domain.GiftCardStatusActive, asOf)
	if err != nil {
		r.logger.Error("Failed to list expired gift cards", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

func (r *giftCardRepository) AggregateActive(ctx context.Context, period domain.Period) (domain.Aggregate, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(balance), 0)
		FROM gift_cards
		WHERE status = $1 AND issued_at >= $2 AND issued_at < $3
	`

	var agg domain.Aggregate
	err := r.db.QueryRowContext(ctx, query, domain.GiftCardStatusActive, period.Start, period.End).
		Scan(&agg.Count, &agg.Sum)
	if err != nil {
		r.logger.Error("Failed to aggregate active gift cards", zap.Error(err))
		return domain.Aggregate{}, err
	}

	return agg, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *giftCardRepository) scanOne(row rowScanner) (*domain.GiftCard, error) {
	var card domain.GiftCard
	var customerID sql.NullString
	var notes, recipientName, recipientNameArabic, message, messageArabic sql.NullString

	err := row.Scan(
		&card.ID,
		&card.Code,
		&card.Amount,
		&card.Balance,
		&card.Currency,
		&card.Status,
		&customerID,
		&card.PurchasedByID,
		&card.IssuedAt,
		&card.ExpiresAt,
		&notes,
		&recipientName,
		&recipientNameArabic,
		&message,
		&messageArabic,
		&card.QRCode,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if customerID.Valid {
		id, err := uuid.Parse(customerID.String)
		if err == nil {
			card.CustomerID = &id
		}
	}
	if notes.Valid {
		card.Notes = &notes.String
	}
	if recipientName.Valid {
		card.RecipientName = &recipientName.String
	}
	if recipientNameArabic.Valid {
		card.RecipientNameArabic = &recipientNameArabic.String
	}
	if message.Valid {
		card.Message = &message.String
	}
	if messageArabic.Valid {
		card.MessageArabic = &messageArabic.String
	}

	return &card, nil
}

func (r *giftCardRepository) scanMany(rows *sql.Rows) ([]*domain.GiftCard, error) {
	cards := []*domain.GiftCard{}
	for rows.Next() {
		card, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}
