package repository

import (
	"context"

	"sumanshop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrders inserts all orders of one checkout batch within the
	// provided transaction.
	CreateOrders(ctx context.Context, tx pgx.Tx, orders []model.Order) error

	// CreateAttempt records a checkout idempotency key within the
	// provided transaction. The key is unique.
	CreateAttempt(ctx context.Context, tx pgx.Tx, attempt *model.CheckoutAttempt) error

	// GetAttempt retrieves a previously recorded checkout attempt by its
	// idempotency key. Returns nil when the key was never used.
	GetAttempt(ctx context.Context, key string) (*model.CheckoutAttempt, error)

	// GetByID retrieves an order by its ID. Returns nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)

	// List retrieves all orders, newest first, optionally filtered by
	// status. Used by the admin panel.
	List(ctx context.Context, status *model.OrderStatus) ([]model.Order, error)

	// UpdateStatus transitions an order from the expected current status
	// to a new one, optionally replacing the admin note. Returns false
	// when no row matched, meaning the order was missing or its status
	// had already moved on.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, notes *string) (bool, error)

	// HasConfirmedOrder reports whether the user has at least one
	// confirmed order for the given product.
	HasConfirmedOrder(ctx context.Context, userID, productID string) (bool, error)
}

// ProofRepository defines the interface for payment-proof data access.
type ProofRepository interface {
	// Create inserts a payment-proof record.
	Create(ctx context.Context, p *model.PaymentProof) error

	// GetByOrderID retrieves the first proof referencing the given order.
	// Returns nil when none exists.
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.PaymentProof, error)
}
