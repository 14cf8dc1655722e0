package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perfumeoud/retailapi/internal/domain"
)

type transactionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTransactionRepository creates a new gift card transaction repository
func NewTransactionRepository(db *sql.DB, logger *zap.Logger) *transactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

// execer is satisfied by both *sql.DB and *sql.Tx, so ledger inserts can
// ride inside the gift card repository's transactions
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertTransaction(ctx context.Context, db execer, txn *domain.GiftCardTransaction) error {
	query := `
		INSERT INTO gift_card_transactions
			(id, gift_card_id, type, amount, order_id, notes, created_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	_, err := db.ExecContext(ctx, query,
		txn.ID,
		txn.GiftCardID,
		txn.Type,
		txn.Amount,
		txn.OrderID,
		txn.Notes,
		txn.CreatedByID,
		txn.CreatedAt,
	)
	return err
}

func (r *transactionRepository) ListByGiftCard(ctx context.Context, giftCardID uuid.UUID) ([]*domain.GiftCardTransaction, error) {
	query := `
		SELECT id, gift_card_id, type, amount, order_id, notes, created_by_id, created_at
		FROM gift_card_transactions
		WHERE gift_card_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, giftCardID)
	if err != nil {
		r.logger.Error("Failed to list gift card transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	txns := []*domain.GiftCardTransaction{}
	for rows.Next() {
		var txn domain.GiftCardTransaction
		var orderID, notes sql.NullString

		err := rows.Scan(
			&txn.ID,
			&txn.GiftCardID,
			&txn.Type,
			&txn.Amount,
			&orderID,
			&notes,
			&txn.CreatedByID,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if orderID.Valid {
			id, err := uuid.Parse(orderID.String)
			if err == nil {
				txn.OrderID = &id
			}
		}
		if notes.Valid {
			txn.Notes = &notes.String
		}

		txns = append(txns, &txn)
	}

	return txns, rows.Err()
}

func (r *transactionRepository) HasType(ctx context.Context, giftCardID uuid.UUID, txnType domain.TransactionType) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM gift_card_transactions
			WHERE gift_card_id = $1 AND type = $2
		)
	`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, giftCardID, txnType).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check transaction type", zap.Error(err))
		return false, err
	}

	return exists, nil
}

func (r *transactionRepository) Aggregate(ctx context.Context, txnType domain.TransactionType, period domain.Period) (domain.Aggregate, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM gift_card_transactions
		WHERE type = $1 AND created_at >= $2 AND created_at < $3
	`

	var agg domain.Aggregate
	err := r.db.QueryRowContext(ctx, query, txnType, period.Start, period.End).
		Scan(&agg.Count, &agg.Sum)
	if err != nil {
		r.logger.Error("Failed to aggregate transactions", zap.Error(err))
		return domain.Aggregate{}, err
	}

	return agg, nil
}
