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

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrders inserts all orders of one checkout batch within the provided transaction.
func (r *orderRepository) CreateOrders(ctx context.Context, tx pgx.Tx, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	query := `
		INSERT INTO orders (id, user_id, product_id, quantity, total_amount, payment_method, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	batch := &pgx.Batch{}
	for _, o := range orders {
		batch.Queue(query,
			o.ID, o.UserID, o.ProductID, o.Quantity, o.TotalAmount,
			o.PaymentMethod, o.Status, o.Notes, o.CreatedAt, o.UpdatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(orders); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", orders[i].ID.String()).
				Str("product_id", orders[i].ProductID).
				Msg("failed to create order")
			return fmt.Errorf("failed to create order: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(orders)).
		Msg("orders created successfully")

	return nil
}

// CreateAttempt records a checkout idempotency key within the provided transaction.
func (r *orderRepository) CreateAttempt(ctx context.Context, tx pgx.Tx, attempt *model.CheckoutAttempt) error {
	query := `
		INSERT INTO checkout_attempts (idempotency_key, user_id, first_order_id, order_count, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(ctx, query,
		attempt.Key, attempt.UserID, attempt.FirstOrderID,
		attempt.OrderCount, attempt.TotalAmount, attempt.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("idempotency_key", attempt.Key).
			Msg("failed to record checkout attempt")
		return fmt.Errorf("failed to record checkout attempt: %w", err)
	}

	return nil
}

// GetAttempt retrieves a previously recorded checkout attempt by its idempotency key.
func (r *orderRepository) GetAttempt(ctx context.Context, key string) (*model.CheckoutAttempt, error) {
	query := `
		SELECT idempotency_key, user_id, first_order_id, order_count, total_amount, created_at
		FROM checkout_attempts
		WHERE idempotency_key = $1
	`

	var a model.CheckoutAttempt
	err := r.pool.QueryRow(ctx, query, key).Scan(
		&a.Key, &a.UserID, &a.FirstOrderID, &a.OrderCount, &a.TotalAmount, &a.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("idempotency_key", key).Msg("failed to query checkout attempt")
		return nil, fmt.Errorf("failed to query checkout attempt: %w", err)
	}

	return &a, nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT id, user_id, product_id, quantity, total_amount, payment_method, status, notes, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var o model.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.TotalAmount,
		&o.PaymentMethod, &o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &o, nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	query := `
		SELECT id, user_id, product_id, quantity, total_amount, payment_method, status, notes, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query user orders")
		return nil, fmt.Errorf("failed to query user orders: %w", err)
	}
	defer rows.Close()

	return r.scanOrders(rows)
}

// List retrieves all orders, newest first, optionally filtered by status.
func (r *orderRepository) List(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	query := `
		SELECT id, user_id, product_id, quantity, total_amount, payment_method, status, notes, created_at, updated_at
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return r.scanOrders(rows)
}

// UpdateStatus transitions an order from the expected current status to a new one.
// The WHERE clause is the data-layer guard: a terminal order no longer
// matches its expected pending status, so the update affects zero rows.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, notes *string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1, notes = COALESCE($2, notes), updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	tag, err := r.pool.Exec(ctx, query, to, notes, id, from)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("failed to update order status")
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("order status update matched no rows")
		return false, nil
	}

	r.logger.Debug().
		Str("order_id", id.String()).
		Str("to", string(to)).
		Msg("order status updated")

	return true, nil
}

// HasConfirmedOrder reports whether the user has at least one confirmed
// order for the given product.
func (r *orderRepository) HasConfirmedOrder(ctx context.Context, userID, productID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM orders
			WHERE user_id = $1 AND product_id = $2 AND status = $3
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, productID, model.StatusConfirmed).Scan(&exists)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to check confirmed orders")
		return false, fmt.Errorf("failed to check confirmed orders: %w", err)
	}

	return exists, nil
}

// scanOrders reads order rows into a slice.
func (r *orderRepository) scanOrders(rows pgx.Rows) ([]model.Order, error) {
	var orders []model.Order
	for rows.Next() {
		var o model.Order
		err := rows.Scan(
			&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.TotalAmount,
			&o.PaymentMethod, &o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
