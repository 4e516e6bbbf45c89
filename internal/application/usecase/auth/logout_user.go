package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/contacerta/backend/internal/application/adapter"
)

const (
	logoutMessage       = "Successfully logged out"
	staleSessionMessage = "Session already ended"
)

// LogoutUserInput carries the refresh token of the session being closed.
type LogoutUserInput struct {
	RefreshToken string
}

// LogoutUserOutput reports whether the session was still open.
type LogoutUserOutput struct {
	Revoked bool
	Message string
}

// LogoutUserUseCase ends a session by revoking its refresh token. Access
// tokens are short-lived and simply run out.
type LogoutUserUseCase struct {
	tokenService adapter.TokenService
}

// NewLogoutUserUseCase creates a new LogoutUserUseCase instance.
func NewLogoutUserUseCase(tokenService adapter.TokenService) *LogoutUserUseCase {
	return &LogoutUserUseCase{
		tokenService: tokenService,
	}
}

// Execute is idempotent: an unknown, expired or already revoked token ends
// in the same state as a live one. Only a failing token store is an error,
// since the session would otherwise stay usable.
func (uc *LogoutUserUseCase) Execute(ctx context.Context, input LogoutUserInput) (*LogoutUserOutput, error) {
	token := strings.TrimSpace(input.RefreshToken)
	if token == "" {
		return &LogoutUserOutput{Message: staleSessionMessage}, nil
	}

	revoked, err := uc.tokenService.RevokeRefreshToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if !revoked {
		slog.Debug("Logout with an inactive refresh token")
		return &LogoutUserOutput{Message: staleSessionMessage}, nil
	}

	return &LogoutUserOutput{Revoked: true, Message: logoutMessage}, nil
}
