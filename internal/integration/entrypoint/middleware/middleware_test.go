package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contacerta/backend/internal/application/adapter"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/integration/entrypoint/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokenService struct {
	claims *adapter.TokenClaims
	err    error
}

func (s *stubTokenService) GenerateTokenPair(context.Context, uuid.UUID, string) (*adapter.TokenPair, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTokenService) ValidateAccessToken(context.Context, string) (*adapter.TokenClaims, error) {
	return s.claims, s.err
}

func (s *stubTokenService) ConsumeRefreshToken(context.Context, string) (*adapter.TokenClaims, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTokenService) RevokeRefreshToken(context.Context, string) (bool, error) {
	return false, nil
}

func newAuthRouter(tokens adapter.TokenService) *gin.Engine {
	router := gin.New()
	router.GET("/me", middleware.NewAuthMiddleware(tokens).Authenticate(), func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, userID.String())
	})
	return router
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		tokens     *stubTokenService
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing header",
			tokens:     &stubTokenService{},
			wantStatus: http.StatusUnauthorized,
			wantBody:   string(domainerror.ErrCodeMissingToken),
		},
		{
			name:       "not a bearer token",
			header:     "Basic abc",
			tokens:     &stubTokenService{},
			wantStatus: http.StatusUnauthorized,
			wantBody:   string(domainerror.ErrCodeInvalidToken),
		},
		{
			name:       "expired token",
			header:     "Bearer expired",
			tokens:     &stubTokenService{err: domainerror.ErrExpiredToken},
			wantStatus: http.StatusUnauthorized,
			wantBody:   string(domainerror.ErrCodeExpiredToken),
		},
		{
			name:       "invalid token",
			header:     "Bearer garbage",
			tokens:     &stubTokenService{err: errors.New("bad signature")},
			wantStatus: http.StatusUnauthorized,
			wantBody:   string(domainerror.ErrCodeInvalidToken),
		},
		{
			name:       "valid token",
			header:     "Bearer good",
			tokens:     &stubTokenService{claims: &adapter.TokenClaims{UserID: userID}},
			wantStatus: http.StatusOK,
			wantBody:   userID.String(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			newAuthRouter(tt.tokens).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := middleware.NewRateLimiterWithConfig(client, "login", 2, time.Minute)
	router := gin.New()
	router.POST("/login", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send().Code)
	assert.Equal(t, http.StatusOK, send().Code)

	blocked := send()
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Contains(t, blocked.Body.String(), string(domainerror.ErrCodeRateLimited))
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	server.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusOK, send().Code)
}

func TestRateLimiter_FailsOpenWithoutRedis(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	server.Close()

	limiter := middleware.NewRateLimiterWithConfig(client, "login", 1, time.Minute)
	router := gin.New()
	router.POST("/login", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
