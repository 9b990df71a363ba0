package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s is an absorbing state.
func (s OrderStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// CanTransition reports whether an order may move from s to next.
// Only pending orders may transition; terminal states are absorbing
// unless allowRevert is set, which permits moving a terminal order
// back to pending.
func (s OrderStatus) CanTransition(next OrderStatus, allowRevert bool) bool {
	if !next.Valid() || s == next {
		return false
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed, StatusCancelled:
		return allowRevert && next == StatusPending
	}
	return false
}

// PaymentMethod identifies how the customer claims to have paid.
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentQRIS         PaymentMethod = "qris"
	PaymentCOD          PaymentMethod = "cod"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentBankTransfer, PaymentQRIS, PaymentCOD:
		return true
	}
	return false
}

// Order represents one line-item purchase.
type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        string          `json:"userId" db:"user_id"`
	ProductID     string          `json:"productId" db:"product_id"`
	Quantity      int             `json:"quantity" db:"quantity"`
	TotalAmount   decimal.Decimal `json:"totalAmount" db:"total_amount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	Status        OrderStatus     `json:"status" db:"status"`
	Notes         *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// PaymentProof records an uploaded payment evidence artifact. One proof
// covers a whole checkout batch and references its first order only.
type PaymentProof struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	OrderID   uuid.UUID `json:"orderId" db:"order_id"`
	FilePath  string    `json:"filePath" db:"file_path"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CheckoutAttempt records an idempotency key for one submission so a
// retried checkout does not create duplicate orders.
type CheckoutAttempt struct {
	Key          string          `json:"key" db:"idempotency_key"`
	UserID       string          `json:"userId" db:"user_id"`
	FirstOrderID uuid.UUID       `json:"firstOrderId" db:"first_order_id"`
	OrderCount   int             `json:"orderCount" db:"order_count"`
	TotalAmount  decimal.Decimal `json:"totalAmount" db:"total_amount"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}

// CheckoutRequest is the payload for submitting a checkout.
type CheckoutRequest struct {
	PaymentMethod  PaymentMethod
	IdempotencyKey string
	ProofFilename  string
	ProofContent   []byte
	ProofMIMEType  string
}

// CheckoutResult reports the outcome of a submission. Authoritative is
// false when the orders only exist in the local fallback store.
type CheckoutResult struct {
	OrderCount     int             `json:"orderCount"`
	FirstOrderID   uuid.UUID       `json:"firstOrderId"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Authoritative  bool            `json:"authoritative"`
	ProofPersisted bool            `json:"proofPersisted"`
}

// StatusUpdateRequest is the admin payload for transitioning an order.
type StatusUpdateRequest struct {
	Status OrderStatus `json:"status"`
	Notes  *string     `json:"notes,omitempty"`
}
