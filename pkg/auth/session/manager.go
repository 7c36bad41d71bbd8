package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/marketa-app/admin-backend/pkg/config"
	redisclient "github.com/marketa-app/admin-backend/pkg/redis"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(tokenID string) string
}

// Manager tracks live sessions in Redis keyed by the JWT jti. A token is
// only honoured while its session entry exists, so logout revokes
// immediately instead of waiting out the JWT expiry.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	HasSession(ctx context.Context, tokenID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.AccessTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("access token ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Create registers a session for the token identifier. The entry expires
// alongside the token itself.
func (m *Manager) Create(ctx context.Context, tokenID string, userID int64) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	return m.store.Set(ctx, m.keyer.SessionKey(tokenID), userID, m.ttl)
}

// HasSession reports whether the token identifier still has a live session.
func (m *Manager) HasSession(ctx context.Context, tokenID string) (bool, error) {
	if strings.TrimSpace(tokenID) == "" {
		return false, fmt.Errorf("token id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.SessionKey(tokenID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke deletes the session tied to the token identifier.
func (m *Manager) Revoke(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(tokenID))
}

// NewTokenID produces a stable identifier used as the JWT jti/Redis key.
func NewTokenID() string {
	return uuid.NewString()
}
