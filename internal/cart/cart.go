package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sumanshop/internal/kvstore"
	"sumanshop/internal/model"

	"github.com/rs/zerolog"
)

// Manager defines cart operations over the key-value store.
type Manager interface {
	// Get returns the user's cart. A missing cart is returned empty, not
	// as an error.
	Get(ctx context.Context, userID string) (*model.Cart, error)

	// AddLine adds a product to the cart, snapshotting its price, name
	// and image at add time. Adding an existing product merges quantity
	// without refreshing the snapshot.
	AddLine(ctx context.Context, userID string, product *model.Product, quantity int) (*model.Cart, error)

	// UpdateQuantity sets the quantity of an existing line. A quantity of
	// zero removes the line.
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error)

	// RemoveLine removes a product from the cart.
	RemoveLine(ctx context.Context, userID, productID string) (*model.Cart, error)

	// Clear empties the cart.
	Clear(ctx context.Context, userID string) error
}

// manager implements Manager.
type manager struct {
	store  kvstore.Store
	logger zerolog.Logger
}

// NewManager creates a cart manager backed by the given store.
func NewManager(store kvstore.Store, logger zerolog.Logger) Manager {
	return &manager{
		store:  store,
		logger: logger.With().Str("component", "cart").Logger(),
	}
}

// Key returns the user-scoped cart key.
func Key(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func (m *manager) Get(ctx context.Context, userID string) (*model.Cart, error) {
	data, err := m.store.Get(ctx, Key(userID))
	if errors.Is(err, kvstore.ErrNotFound) {
		return &model.Cart{UserID: userID}, nil
	}
	if err != nil {
		m.logger.Error().Err(err).Str("user_id", userID).Msg("failed to read cart")
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		m.logger.Error().Err(err).Str("user_id", userID).Msg("failed to decode cart")
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	cart.UserID = userID

	return &cart, nil
}

func (m *manager) AddLine(ctx context.Context, userID string, product *model.Product, quantity int) (*model.Cart, error) {
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	cart, err := m.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == product.ID {
			// Keep the original snapshot; only the quantity grows.
			cart.Lines[i].Quantity += quantity
			merged = true
			break
		}
	}

	if !merged {
		cart.Lines = append(cart.Lines, model.CartLine{
			ProductID: product.ID,
			Quantity:  quantity,
			UnitPrice: product.Price,
			Name:      product.Name,
			ImageURL:  product.ImageURL,
			AddedAt:   time.Now(),
		})
	}

	if err := m.save(ctx, cart); err != nil {
		return nil, err
	}

	m.logger.Debug().
		Str("user_id", userID).
		Str("product_id", product.ID).
		Int("quantity", quantity).
		Bool("merged", merged).
		Msg("cart line added")

	return cart, nil
}

func (m *manager) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error) {
	if quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}
	if quantity == 0 {
		return m.RemoveLine(ctx, userID, productID)
	}

	cart, err := m.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			cart.Lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, model.ErrProductNotFound
	}

	if err := m.save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

func (m *manager) RemoveLine(ctx context.Context, userID, productID string) (*model.Cart, error) {
	cart, err := m.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := cart.Lines[:0]
	for _, l := range cart.Lines {
		if l.ProductID != productID {
			lines = append(lines, l)
		}
	}
	cart.Lines = lines

	if err := m.save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

func (m *manager) Clear(ctx context.Context, userID string) error {
	if err := m.store.Delete(ctx, Key(userID)); err != nil {
		m.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	m.logger.Debug().Str("user_id", userID).Msg("cart cleared")
	return nil
}

func (m *manager) save(ctx context.Context, cart *model.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := m.store.Set(ctx, Key(cart.UserID), data); err != nil {
		m.logger.Error().Err(err).Str("user_id", cart.UserID).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}
