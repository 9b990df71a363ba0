package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sumanshop/internal/kvstore"
	"sumanshop/internal/model"
)

// localOrdersKey returns the user-scoped key under which fallback order
// records are kept in the key-value store.
func localOrdersKey(userID string) string {
	return fmt.Sprintf("local-orders:%s", userID)
}

// readLocalOrders returns the user's provisional fallback orders. A
// missing key means no fallback orders exist.
func readLocalOrders(ctx context.Context, store kvstore.Store, userID string) ([]model.Order, error) {
	data, err := store.Get(ctx, localOrdersKey(userID))
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local orders: %w", err)
	}

	var orders []model.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode local orders: %w", err)
	}
	return orders, nil
}

// appendLocalOrders adds fallback order records under the user's key.
// Existing records are preserved; there is no reconciliation back to the
// remote store.
func appendLocalOrders(ctx context.Context, store kvstore.Store, userID string, orders []model.Order) error {
	existing, err := readLocalOrders(ctx, store, userID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(append(existing, orders...))
	if err != nil {
		return fmt.Errorf("failed to encode local orders: %w", err)
	}

	if err := store.Set(ctx, localOrdersKey(userID), data); err != nil {
		return fmt.Errorf("failed to save local orders: %w", err)
	}
	return nil
}
