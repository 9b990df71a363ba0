package service

import (
	"context"

	"sumanshop/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for the catalogue.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// DownloadURL returns a product's download link for the given user.
	// The link is only visible once the user has at least one confirmed
	// order for that product.
	DownloadURL(ctx context.Context, userID, productID string) (string, error)
}

// CheckoutService defines the order submission workflow.
type CheckoutService interface {
	// Submit validates the session, cart and payment proof, records one
	// order per cart line plus one payment-proof record, clears the cart
	// and reports the outcome.
	Submit(ctx context.Context, sess *model.Session, req *model.CheckoutRequest) (*model.CheckoutResult, error)
}

// OrderService defines order tracking and the admin status workflow.
type OrderService interface {
	// GetByID retrieves an order. Only the owner or an admin may read it.
	GetByID(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves the session user's authoritative orders.
	ListByUser(ctx context.Context, sess *model.Session) ([]model.Order, error)

	// ListLocal retrieves the session user's provisional local-fallback
	// orders. These were never written to the remote store.
	ListLocal(ctx context.Context, sess *model.Session) ([]model.Order, error)

	// List retrieves all orders for the admin panel, optionally filtered
	// by status.
	List(ctx context.Context, sess *model.Session, status *model.OrderStatus) ([]model.Order, error)

	// UpdateStatus transitions an order's status with an optional note.
	// Admin only; only transitions permitted by the state machine are
	// attempted.
	UpdateStatus(ctx context.Context, sess *model.Session, id uuid.UUID, req *model.StatusUpdateRequest) (*model.Order, error)
}
