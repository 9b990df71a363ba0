package service

import (
	"context"
	"fmt"

	"sumanshop/internal/kvstore"
	"sumanshop/internal/model"
	"sumanshop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderConfig holds the status workflow switches.
type OrderConfig struct {
	// AllowTerminalRevert permits moving a confirmed or cancelled order
	// back to pending. Off by default; terminal states are absorbing.
	AllowTerminalRevert bool
}

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	store     kvstore.Store
	cfg       OrderConfig
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, store kvstore.Store, cfg OrderConfig, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		store:     store,
		cfg:       cfg,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// GetByID retrieves an order. Only the owner or an admin may read it.
func (s *orderService) GetByID(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.Order, error) {
	if sess == nil || sess.UserID == "" {
		return nil, model.ErrAuthenticationRequired
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if order.UserID != sess.UserID && !sess.Admin() {
		return nil, model.ErrForbidden
	}

	return order, nil
}

// ListByUser retrieves the session user's authoritative orders.
func (s *orderService) ListByUser(ctx context.Context, sess *model.Session) ([]model.Order, error) {
	if sess == nil || sess.UserID == "" {
		return nil, model.ErrAuthenticationRequired
	}

	orders, err := s.orderRepo.ListByUser(ctx, sess.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", sess.UserID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// ListLocal retrieves the session user's provisional local-fallback orders.
func (s *orderService) ListLocal(ctx context.Context, sess *model.Session) ([]model.Order, error) {
	if sess == nil || sess.UserID == "" {
		return nil, model.ErrAuthenticationRequired
	}

	orders, err := readLocalOrders(ctx, s.store, sess.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", sess.UserID).Msg("failed to read local orders")
		return nil, err
	}

	return orders, nil
}

// List retrieves all orders for the admin panel.
func (s *orderService) List(ctx context.Context, sess *model.Session, status *model.OrderStatus) ([]model.Order, error) {
	if !sess.Admin() {
		return nil, model.ErrForbidden
	}
	if status != nil && !status.Valid() {
		return nil, model.ErrInvalidTransition
	}

	orders, err := s.orderRepo.List(ctx, status)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list all orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus transitions an order's status with an optional note.
// The transition table is enforced here and again by the conditional
// update in the repository; a lost race surfaces as a failed update, and
// nothing is optimistically mutated.
func (s *orderService) UpdateStatus(ctx context.Context, sess *model.Session, id uuid.UUID, req *model.StatusUpdateRequest) (*model.Order, error) {
	if !sess.Admin() {
		return nil, model.ErrForbidden
	}
	if req == nil || !req.Status.Valid() {
		return nil, model.ErrInvalidTransition
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to load order for status update")
		return nil, model.ErrStatusUpdateFailed
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !order.Status.CanTransition(req.Status, s.cfg.AllowTerminalRevert) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(order.Status)).
			Str("to", string(req.Status)).
			Msg("rejected status transition")
		return nil, model.ErrInvalidTransition
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, id, order.Status, req.Status, req.Notes)
	if err != nil {
		return nil, model.ErrStatusUpdateFailed
	}
	if !updated {
		// The row moved on between our read and the update.
		return nil, model.ErrStatusUpdateFailed
	}

	order, err = s.orderRepo.GetByID(ctx, id)
	if err != nil || order == nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to reload order after status update")
		return nil, model.ErrStatusUpdateFailed
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("status", string(order.Status)).
		Str("admin_id", sess.UserID).
		Msg("order status updated")

	return order, nil
}
