package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/perfumeoud/retailapi/internal/domain"
	"github.com/perfumeoud/retailapi/pkg/errors"
)

type staffRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *sql.DB, logger *zap.Logger) *staffRepository {
	return &staffRepository{
		db:     db,
		logger: logger,
	}
}

func (r *staffRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Staff, error) {
	// Since bcrypt hashes are salted and different each time, we can't do a
	// direct lookup. We iterate through active staff and verify the API key
	// against each hash. For production, consider adding a lookup_hash
	// column (SHA256) for efficient lookup.

	query := `
		SELECT id, name, api_key_hash, is_active, created_at, updated_at
		FROM staff
		WHERE is_active = true
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query staff", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var staff domain.Staff

		err := rows.Scan(
			&staff.ID,
			&staff.Name,
			&staff.APIKeyHash,
			&staff.IsActive,
			&staff.CreatedAt,
			&staff.UpdatedAt,
		)
		if err != nil {
			continue
		}

		// Verify API key against stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(staff.APIKeyHash), []byte(apiKey)); err == nil {
			return &staff, nil
		}
	}

	return nil, &errors.ErrUnauthorized{Message: "invalid API key"}
}

func (r *staffRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	query := `
		SELECT id, name, api_key_hash, is_active, created_at, updated_at
		FROM staff
		WHERE id = $1
	`

	var staff domain.Staff
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&staff.ID,
		&staff.Name,
		&staff.APIKeyHash,
		&staff.IsActive,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "staff", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get staff by ID", zap.Error(err))
		return nil, err
	}

	return &staff, nil
}

func (r *staffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	query := `
		INSERT INTO staff (id, name, api_key_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

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

	_, err := r.db.ExecContext(ctx, query,
		staff.ID,
		staff.Name,
		staff.APIKeyHash,
		staff.IsActive,
		staff.CreatedAt,
		staff.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create staff", zap.Error(err))
		return err
	}

	return nil
}
