package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sumanshop/internal/kvstore"
	"sumanshop/internal/model"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a token does not resolve to a session.
var ErrNotFound = errors.New("session not found")

// Store resolves opaque tokens to authenticated sessions. A single key
// scheme in the key-value store holds all sessions.
type Store interface {
	// Resolve returns the session for the given token.
	Resolve(ctx context.Context, token string) (*model.Session, error)

	// Create persists a session under its token.
	Create(ctx context.Context, sess *model.Session) error

	// Destroy removes a session.
	Destroy(ctx context.Context, token string) error
}

// store implements Store.
type store struct {
	kv     kvstore.Store
	logger zerolog.Logger
}

// NewStore creates a session store backed by the given key-value store.
func NewStore(kv kvstore.Store, logger zerolog.Logger) Store {
	return &store{
		kv:     kv,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

func key(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func (s *store) Resolve(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	data, err := s.kv.Get(ctx, key(token))
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read session")
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.Error().Err(err).Msg("failed to decode session")
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	sess.Token = token

	return &sess, nil
}

func (s *store) Create(ctx context.Context, sess *model.Session) error {
	if sess == nil || sess.Token == "" || sess.UserID == "" {
		return fmt.Errorf("session token and user id are required")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.kv.Set(ctx, key(sess.Token), data); err != nil {
		s.logger.Error().Err(err).Str("user_id", sess.UserID).Msg("failed to save session")
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *store) Destroy(ctx context.Context, token string) error {
	if err := s.kv.Delete(ctx, key(token)); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
