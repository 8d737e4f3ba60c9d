package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore keeps opaque session tokens in redis. Tokens expire server
// side; every successful lookup slides the expiry forward.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

func tokenKey(token string) string {
	return "auth:token:" + token
}

// Issue creates a fresh token for the user.
func (t *TokenStore) Issue(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	err := t.client.Set(ctx, tokenKey(token), strconv.FormatInt(userID, 10), t.ttl).Err()
	if err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Resolve returns the user id behind a token and refreshes its TTL.
func (t *TokenStore) Resolve(ctx context.Context, token string) (int64, error) {
	val, err := t.client.Get(ctx, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrTokenInvalid
		}
		return 0, err
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	if err := t.client.Expire(ctx, tokenKey(token), t.ttl).Err(); err != nil {
		return 0, err
	}
	return userID, nil
}

// Revoke deletes a token.
func (t *TokenStore) Revoke(ctx context.Context, token string) error {
	return t.client.Del(ctx, tokenKey(token)).Err()
}
