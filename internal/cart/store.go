package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/storefrontlabs/storefront-backend/internal/pricing"
	"github.com/storefrontlabs/storefront-backend/pkg/redis"
)

const (
	cartKeyPart   = "cart"
	couponKeyPart = "coupon"
)

// SessionStore persists per-session cart state.
type SessionStore interface {
	LoadCart(ctx context.Context, sessionID string) (pricing.Cart, error)
	SaveCart(ctx context.Context, sessionID string, cart pricing.Cart) error
	LoadCouponCode(ctx context.Context, sessionID string) (string, error)
	SaveCouponCode(ctx context.Context, sessionID, code string) error
	ClearCouponCode(ctx context.Context, sessionID string) error
}

// RedisStore keeps session carts in Redis under the session key namespace.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a session store on the shared Redis client.
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client}, nil
}

// LoadCart returns the session's cart, or an empty cart when none is stored.
func (s *RedisStore) LoadCart(ctx context.Context, sessionID string) (pricing.Cart, error) {
	raw, err := s.client.Get(ctx, s.client.SessionKey(sessionID, cartKeyPart))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return pricing.Cart{}, nil
		}
		return nil, fmt.Errorf("redis: load cart: %w", err)
	}

	var cart pricing.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return cart, nil
}

// SaveCart stores the cart for the session. Empty carts delete the key so
// abandoned sessions leave nothing behind.
func (s *RedisStore) SaveCart(ctx context.Context, sessionID string, cart pricing.Cart) error {
	key := s.client.SessionKey(sessionID, cartKeyPart)
	if len(cart) == 0 {
		if err := s.client.Del(ctx, key); err != nil {
			return fmt.Errorf("redis: clear cart: %w", err)
		}
		return nil
	}

	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, key, payload, 0); err != nil {
		return fmt.Errorf("redis: save cart: %w", err)
	}
	return nil
}

// LoadCouponCode returns the session's selected coupon code, empty when none.
func (s *RedisStore) LoadCouponCode(ctx context.Context, sessionID string) (string, error) {
	code, err := s.client.Get(ctx, s.client.SessionKey(sessionID, couponKeyPart))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis: load coupon: %w", err)
	}
	return code, nil
}

// SaveCouponCode records the session's selected coupon code.
func (s *RedisStore) SaveCouponCode(ctx context.Context, sessionID, code string) error {
	if err := s.client.Set(ctx, s.client.SessionKey(sessionID, couponKeyPart), code, 0); err != nil {
		return fmt.Errorf("redis: save coupon: %w", err)
	}
	return nil
}

// ClearCouponCode drops the session's coupon selection.
func (s *RedisStore) ClearCouponCode(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.SessionKey(sessionID, couponKeyPart)); err != nil {
		return fmt.Errorf("redis: clear coupon: %w", err)
	}
	return nil
}
