package repository

import (
	"context"
	"fmt"

	"sumanshop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// proofRepository implements the ProofRepository interface using PostgreSQL.
type proofRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProofRepository creates a new PostgreSQL-backed payment-proof repository.
func NewProofRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProofRepository {
	return &proofRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "proof").Logger(),
	}
}

// Create inserts a payment-proof record.
func (r *proofRepository) Create(ctx context.Context, p *model.PaymentProof) error {
	query := `
		INSERT INTO payment_proofs (id, user_id, order_id, file_path, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, p.ID, p.UserID, p.OrderID, p.FilePath, p.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", p.OrderID.String()).
			Msg("failed to create payment proof")
		return fmt.Errorf("failed to create payment proof: %w", err)
	}

	r.logger.Debug().
		Str("order_id", p.OrderID.String()).
		Str("file_path", p.FilePath).
		Msg("payment proof created")

	return nil
}

// GetByOrderID retrieves the first proof referencing the given order.
func (r *proofRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.PaymentProof, error) {
	query := `
		SELECT id, user_id, order_id, file_path, created_at
		FROM payment_proofs
		WHERE order_id = $1
		ORDER BY created_at
		LIMIT 1
	`

	var p model.PaymentProof
	err := r.pool.QueryRow(ctx, query, orderID).Scan(&p.ID, &p.UserID, &p.OrderID, &p.FilePath, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query payment proof")
		return nil, fmt.Errorf("failed to query payment proof: %w", err)
	}

	return &p, nil
}
