package service

import (
	"context"
	"fmt"
	"time"

	"sumanshop/internal/cart"
	"sumanshop/internal/kvstore"
	"sumanshop/internal/model"
	"sumanshop/internal/proof"
	"sumanshop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CheckoutConfig holds the workflow switches. One configurable workflow
// replaces the original's parallel checkout variants.
type CheckoutConfig struct {
	// AllowLocalFallback saves the batch into the key-value store when
	// the remote write fails, instead of surfacing a hard failure.
	AllowLocalFallback bool
}

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo repository.OrderRepository
	proofRepo repository.ProofRepository
	carts     cart.Manager
	uploader  proof.Uploader
	store     kvstore.Store
	cfg       CheckoutConfig
	logger    zerolog.Logger
}

// NewCheckoutService creates the order submission workflow. uploader may
// be nil when blob storage is not configured; proofs then degrade to
// synthetic local path references.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	proofRepo repository.ProofRepository,
	carts cart.Manager,
	uploader proof.Uploader,
	store kvstore.Store,
	cfg CheckoutConfig,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo: orderRepo,
		proofRepo: proofRepo,
		carts:     carts,
		uploader:  uploader,
		store:     store,
		cfg:       cfg,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

// Submit runs the order submission workflow: validate preconditions,
// write one order per cart line and one payment-proof record, clear the
// cart, and report the outcome. A single attempt is made against the
// remote store; no retries.
func (s *checkoutService) Submit(ctx context.Context, sess *model.Session, req *model.CheckoutRequest) (*model.CheckoutResult, error) {
	// Preconditions, checked before any write.
	if sess == nil || sess.UserID == "" {
		return nil, model.ErrAuthenticationRequired
	}
	if req == nil {
		return nil, fmt.Errorf("checkout request is nil")
	}
	if !req.PaymentMethod.Valid() {
		return nil, model.ErrInvalidPaymentMethod
	}

	userCart, err := s.carts.Get(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if userCart.Empty() {
		return nil, model.ErrEmptyCart
	}
	if len(req.ProofContent) == 0 {
		return nil, model.ErrPaymentProofRequired
	}

	// Replay: a previously used idempotency key returns the recorded
	// outcome without touching the cart or creating anything.
	if req.IdempotencyKey != "" {
		attempt, err := s.orderRepo.GetAttempt(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
		if attempt != nil {
			existing, err := s.proofRepo.GetByOrderID(ctx, attempt.FirstOrderID)
			if err != nil {
				return nil, fmt.Errorf("failed to check recorded proof: %w", err)
			}
			s.logger.Info().
				Str("user_id", sess.UserID).
				Str("idempotency_key", req.IdempotencyKey).
				Msg("duplicate checkout submission replayed")
			return &model.CheckoutResult{
				OrderCount:     attempt.OrderCount,
				FirstOrderID:   attempt.FirstOrderID,
				TotalAmount:    attempt.TotalAmount,
				Authoritative:  true,
				ProofPersisted: existing != nil,
			}, nil
		}
	}

	// One order per cart line; totals come from the price snapshot
	// captured at add-to-cart time, not the current catalogue price.
	now := time.Now()
	orders := make([]model.Order, len(userCart.Lines))
	batchTotal := decimal.Zero
	for i, line := range userCart.Lines {
		if line.Quantity < 1 {
			return nil, model.ErrInvalidQuantity
		}
		total := line.LineTotal()
		batchTotal = batchTotal.Add(total)
		orders[i] = model.Order{
			ID:            uuid.New(),
			UserID:        sess.UserID,
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			TotalAmount:   total,
			PaymentMethod: req.PaymentMethod,
			Status:        model.StatusPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	}
	firstOrderID := orders[0].ID

	if err := s.persistRemote(ctx, sess.UserID, req, orders, batchTotal); err != nil {
		return s.fallbackLocal(ctx, sess.UserID, orders, batchTotal, err)
	}

	// Proof upload failure is non-fatal: a synthetic path is recorded
	// and the degraded state is surfaced on the result.
	filePath, proofPersisted := s.uploadProof(ctx, sess.UserID, firstOrderID, req)

	// One proof per checkout batch, referencing the first order only.
	p := &model.PaymentProof{
		ID:        uuid.New(),
		UserID:    sess.UserID,
		OrderID:   firstOrderID,
		FilePath:  filePath,
		CreatedAt: time.Now(),
	}
	if err := s.proofRepo.Create(ctx, p); err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", firstOrderID.String()).
			Msg("failed to record payment proof, order stands")
		proofPersisted = false
	}

	if err := s.carts.Clear(ctx, sess.UserID); err != nil {
		// The orders are already durable; a stale cart only risks a
		// duplicate submission, which the idempotency key absorbs.
		s.logger.Warn().Err(err).Str("user_id", sess.UserID).Msg("failed to clear cart after checkout")
	}

	s.logger.Info().
		Str("user_id", sess.UserID).
		Str("first_order_id", firstOrderID.String()).
		Int("order_count", len(orders)).
		Str("total_amount", batchTotal.String()).
		Bool("proof_persisted", proofPersisted).
		Msg("checkout completed")

	return &model.CheckoutResult{
		OrderCount:     len(orders),
		FirstOrderID:   firstOrderID,
		TotalAmount:    batchTotal,
		Authoritative:  true,
		ProofPersisted: proofPersisted,
	}, nil
}

// persistRemote writes the whole batch, and the idempotency record when a
// key was supplied, in one transaction.
func (s *checkoutService) persistRemote(ctx context.Context, userID string, req *model.CheckoutRequest, orders []model.Order, total decimal.Decimal) error {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrders(ctx, tx, orders); err != nil {
		return err
	}

	if req.IdempotencyKey != "" {
		attempt := &model.CheckoutAttempt{
			Key:          req.IdempotencyKey,
			UserID:       userID,
			FirstOrderID: orders[0].ID,
			OrderCount:   len(orders),
			TotalAmount:  total,
			CreatedAt:    time.Now(),
		}
		if err = s.orderRepo.CreateAttempt(ctx, tx, attempt); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit checkout transaction")
		return fmt.Errorf("failed to commit checkout: %w", err)
	}

	return nil
}

// fallbackLocal handles a failed remote write. With fallback enabled the
// batch is saved into the key-value store under a user-scoped key, the
// cart is still cleared, and a degraded (non-authoritative) success is
// reported. The records never reconcile back to the remote store.
func (s *checkoutService) fallbackLocal(ctx context.Context, userID string, orders []model.Order, total decimal.Decimal, cause error) (*model.CheckoutResult, error) {
	if !s.cfg.AllowLocalFallback {
		s.logger.Error().Err(cause).Str("user_id", userID).Msg("remote order write failed")
		return nil, model.ErrRemoteWriteFailed
	}

	s.logger.Warn().
		Err(cause).
		Str("user_id", userID).
		Int("order_count", len(orders)).
		Msg("remote order write failed, saving locally")

	if err := appendLocalOrders(ctx, s.store, userID, orders); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("local fallback write failed")
		return nil, model.ErrRemoteWriteFailed
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to clear cart after local fallback")
	}

	return &model.CheckoutResult{
		OrderCount:     len(orders),
		FirstOrderID:   orders[0].ID,
		TotalAmount:    total,
		Authoritative:  false,
		ProofPersisted: false,
	}, nil
}

// uploadProof stores the proof artifact in blob storage. On any failure
// it degrades to a synthesized local path reference.
func (s *checkoutService) uploadProof(ctx context.Context, userID string, orderID uuid.UUID, req *model.CheckoutRequest) (string, bool) {
	if s.uploader == nil {
		return proof.LocalPath(orderID, req.ProofFilename), false
	}

	key := proof.Key(userID, orderID, req.ProofFilename)
	path, err := s.uploader.Upload(ctx, key, req.ProofMIMEType, req.ProofContent)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", orderID.String()).
			Msg("proof upload failed, recording local path reference")
		return proof.LocalPath(orderID, req.ProofFilename), false
	}

	return path, true
}
