package adapters_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contacerta/backend/internal/application/adapter"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/integration/adapters"
)

func newRedisStore(t *testing.T) (adapter.RefreshTokenStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return adapters.NewRedisRefreshTokenStore(client), server
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)
	service := adapters.NewTokenService("test-secret", time.Minute, time.Hour, store)
	userID := uuid.New()

	pair, err := service.GenerateTokenPair(ctx, userID, "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := service.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)

	t.Run("token types are not interchangeable", func(t *testing.T) {
		_, err := service.ValidateAccessToken(ctx, pair.RefreshToken)
		assert.Error(t, err)
		_, err = service.ConsumeRefreshToken(ctx, pair.AccessToken)
		assert.Error(t, err)
	})

	claims, err = service.ConsumeRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	t.Run("wrong secret is rejected", func(t *testing.T) {
		other := adapters.NewTokenService("other-secret", time.Minute, time.Hour, store)
		_, err := other.ValidateAccessToken(ctx, pair.AccessToken)
		assert.Error(t, err)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := service.ValidateAccessToken(ctx, "not-a-jwt")
		assert.Error(t, err)
	})
}

func TestTokenService_RevokedRefreshToken(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)
	service := adapters.NewTokenService("test-secret", time.Minute, time.Hour, store)

	pair, err := service.GenerateTokenPair(ctx, uuid.New(), "ana@example.com")
	require.NoError(t, err)

	revoked, err := service.RevokeRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = service.ConsumeRefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domainerror.ErrInvalidToken)

	// Revoking twice is harmless.
	revoked, err = service.RevokeRefreshToken(ctx, pair.RefreshToken)
	assert.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenService_ConsumeRefreshTokenOnce(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t)
	service := adapters.NewTokenService("test-secret", time.Minute, time.Hour, store)

	pair, err := service.GenerateTokenPair(ctx, uuid.New(), "ana@example.com")
	require.NoError(t, err)

	const callers = 8
	var (
		wg       sync.WaitGroup
		consumed atomic.Int32
		rejected atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.ConsumeRefreshToken(ctx, pair.RefreshToken)
			switch {
			case err == nil:
				consumed.Add(1)
			case errors.Is(err, domainerror.ErrInvalidToken):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), consumed.Load())
	assert.Equal(t, int32(callers-1), rejected.Load())
	assert.Empty(t, server.Keys())
}

func TestTokenService_ConsumeRefreshTokenStoreDown(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t)
	service := adapters.NewTokenService("test-secret", time.Minute, time.Hour, store)

	pair, err := service.GenerateTokenPair(ctx, uuid.New(), "ana@example.com")
	require.NoError(t, err)

	server.SetError("ERR store unavailable")
	_, err = service.ConsumeRefreshToken(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainerror.ErrInvalidToken)
}

func TestRedisRefreshTokenStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t)

	require.NoError(t, store.Save(ctx, "token", uuid.New(), time.Now().Add(time.Minute)))

	require.Len(t, server.Keys(), 1)
	assert.True(t, strings.HasPrefix(server.Keys()[0], "refresh_token:"))
	assert.NotEqual(t, "refresh_token:token", server.Keys()[0])

	server.FastForward(2 * time.Minute)

	revoked, err := store.Revoke(ctx, "token")
	require.NoError(t, err)
	assert.False(t, revoked, "an expired token is no longer active")

	assert.Error(t, store.Save(ctx, "stale", uuid.New(), time.Now().Add(-time.Second)))
}

func TestTokenService_ExpiredAccessToken(t *testing.T) {
	store, _ := newRedisStore(t)
	service := adapters.NewTokenService("test-secret", time.Minute, time.Hour, store)

	past := time.Now().Add(-time.Hour)
	claims := adapters.CustomClaims{
		UserID:    uuid.NewString(),
		Email:     "ana@example.com",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past),
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, domainerror.ErrExpiredToken)
}
