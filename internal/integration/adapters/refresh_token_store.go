package adapters

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/contacerta/backend/internal/application/adapter"
)

const refreshTokenKeyPrefix = "refresh_token:"

// redisRefreshTokenStore implements adapter.RefreshTokenStore on Redis.
// Tokens are stored hashed and expire with the token itself.
type redisRefreshTokenStore struct {
	client *redis.Client
}

// NewRedisRefreshTokenStore creates a refresh token store backed by client.
func NewRedisRefreshTokenStore(client *redis.Client) adapter.RefreshTokenStore {
	return &redisRefreshTokenStore{
		client: client,
	}
}

// Save records an active refresh token until expiresAt.
func (s *redisRefreshTokenStore) Save(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired")
	}
	return s.client.Set(ctx, refreshTokenKey(token), userID.String(), ttl).Err()
}

// Revoke deletes the refresh token with a single DEL. Redis runs it
// atomically, so of two concurrent revocations only one sees a deleted key.
func (s *redisRefreshTokenStore) Revoke(ctx context.Context, token string) (bool, error) {
	deleted, err := s.client.Del(ctx, refreshTokenKey(token)).Result()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

func refreshTokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return refreshTokenKeyPrefix + hex.EncodeToString(sum[:])
}
