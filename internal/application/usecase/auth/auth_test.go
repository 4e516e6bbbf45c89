package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
)

type fakeUserRepository struct {
	users map[string]*entity.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepository) Create(_ context.Context, user *entity.User) error {
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *fakeUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.users[email]
	return ok, nil
}

type fakePasswordService struct{}

func (fakePasswordService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakePasswordService) VerifyPassword(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func (fakePasswordService) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("too short")
	}
	return nil
}

type fakeTokenService struct {
	issued    int
	active    map[string]adapter.TokenClaims
	revokeErr error
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{active: make(map[string]adapter.TokenClaims)}
}

func (s *fakeTokenService) GenerateTokenPair(_ context.Context, userID uuid.UUID, email string) (*adapter.TokenPair, error) {
	s.issued++
	refresh := fmt.Sprintf("refresh-%d", s.issued)
	s.active[refresh] = adapter.TokenClaims{UserID: userID, Email: email}
	return &adapter.TokenPair{AccessToken: fmt.Sprintf("access-%d", s.issued), RefreshToken: refresh}, nil
}

func (s *fakeTokenService) ValidateAccessToken(context.Context, string) (*adapter.TokenClaims, error) {
	return nil, errors.New("not used")
}

func (s *fakeTokenService) ConsumeRefreshToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	claims, ok := s.active[token]
	if !ok {
		return nil, domainerror.ErrInvalidToken
	}
	delete(s.active, token)
	return &claims, nil
}

func (s *fakeTokenService) RevokeRefreshToken(_ context.Context, token string) (bool, error) {
	if s.revokeErr != nil {
		return false, s.revokeErr
	}
	_, ok := s.active[token]
	delete(s.active, token)
	return ok, nil
}

func authErrorCode(t *testing.T, err error) domainerror.AuthErrorCode {
	t.Helper()
	var authErr *domainerror.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	return authErr.Code
}

func TestRegisterUserUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("registers and normalizes email", func(t *testing.T) {
		users := newFakeUserRepository()
		uc := NewRegisterUserUseCase(users, fakePasswordService{}, newFakeTokenService())

		out, err := uc.Execute(ctx, RegisterUserInput{Email: "  Ana@Example.COM ", Name: " Ana ", Password: "supersecret"})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if out.User.Email != "ana@example.com" {
			t.Errorf("Email = %q, want ana@example.com", out.User.Email)
		}
		if out.User.Name != "Ana" {
			t.Errorf("Name = %q, want Ana", out.User.Name)
		}
		if out.User.PasswordHash != "hashed:supersecret" {
			t.Errorf("PasswordHash = %q", out.User.PasswordHash)
		}
		if out.AccessToken == "" || out.RefreshToken == "" {
			t.Error("expected a token pair")
		}
		if _, ok := users.users["ana@example.com"]; !ok {
			t.Error("user was not stored")
		}
	})

	tests := []struct {
		name     string
		input    RegisterUserInput
		wantCode domainerror.AuthErrorCode
	}{
		{"missing name", RegisterUserInput{Email: "a@b.com", Name: " ", Password: "supersecret"}, domainerror.ErrCodeMissingFields},
		{"invalid email", RegisterUserInput{Email: "not-an-email", Name: "Ana", Password: "supersecret"}, domainerror.ErrCodeInvalidEmail},
		{"weak password", RegisterUserInput{Email: "a@b.com", Name: "Ana", Password: "short"}, domainerror.ErrCodeWeakPassword},
		{"duplicate email", RegisterUserInput{Email: "taken@example.com", Name: "Ana", Password: "supersecret"}, domainerror.ErrCodeEmailExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUserRepository()
			users.users["taken@example.com"] = entity.NewUser("taken@example.com", "Bruno", "hashed:x")
			uc := NewRegisterUserUseCase(users, fakePasswordService{}, newFakeTokenService())

			_, err := uc.Execute(ctx, tt.input)
			if code := authErrorCode(t, err); code != tt.wantCode {
				t.Errorf("code = %s, want %s", code, tt.wantCode)
			}
		})
	}
}

func TestLoginUserUseCase(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepository()
	user := entity.NewUser("ana@example.com", "Ana", "hashed:supersecret")
	users.users[user.Email] = user
	uc := NewLoginUserUseCase(users, fakePasswordService{}, newFakeTokenService())

	out, err := uc.Execute(ctx, LoginUserInput{Email: "ANA@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.User.ID != user.ID {
		t.Errorf("User.ID = %s, want %s", out.User.ID, user.ID)
	}

	for name, input := range map[string]LoginUserInput{
		"wrong password": {Email: "ana@example.com", Password: "wrong-password"},
		"unknown email":  {Email: "bruno@example.com", Password: "supersecret"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Execute(ctx, input)
			if !errors.Is(err, domainerror.ErrInvalidCredentials) {
				t.Errorf("error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestRefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	tokens := newFakeTokenService()
	pair, _ := tokens.GenerateTokenPair(ctx, uuid.New(), "ana@example.com")

	refresh := NewRefreshTokenUseCase(tokens)
	out, err := refresh.Execute(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.RefreshToken == pair.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	_, err = refresh.Execute(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
	if code := authErrorCode(t, err); code != domainerror.ErrCodeInvalidToken {
		t.Errorf("reusing a rotated token: code = %s, want %s", code, domainerror.ErrCodeInvalidToken)
	}

	logout := NewLogoutUserUseCase(tokens)
	first, err := logout.Execute(ctx, LogoutUserInput{RefreshToken: out.RefreshToken})
	if err != nil {
		t.Fatalf("logout error = %v", err)
	}
	if !first.Revoked {
		t.Error("logout of a live session should report a revocation")
	}
	if _, ok := tokens.active[out.RefreshToken]; ok {
		t.Error("logout did not revoke the refresh token")
	}

	again, err := logout.Execute(ctx, LogoutUserInput{RefreshToken: out.RefreshToken})
	if err != nil {
		t.Fatalf("second logout error = %v", err)
	}
	if again.Revoked {
		t.Error("second logout should find the session already ended")
	}

	blank, err := logout.Execute(ctx, LogoutUserInput{RefreshToken: "   "})
	if err != nil || blank.Revoked {
		t.Errorf("blank token: output = %+v, err = %v", blank, err)
	}
}

func TestLogoutUserUseCase_StoreFailure(t *testing.T) {
	ctx := context.Background()
	tokens := newFakeTokenService()
	pair, _ := tokens.GenerateTokenPair(ctx, uuid.New(), "ana@example.com")
	tokens.revokeErr = errors.New("connection refused")

	_, err := NewLogoutUserUseCase(tokens).Execute(ctx, LogoutUserInput{RefreshToken: pair.RefreshToken})
	if err == nil {
		t.Fatal("logout should fail when the token cannot be revoked")
	}
	if !errors.Is(err, tokens.revokeErr) {
		t.Errorf("error = %v, want it to wrap the store failure", err)
	}
}
