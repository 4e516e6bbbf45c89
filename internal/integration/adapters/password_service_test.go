package adapters_test

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/integration/adapters"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	service := adapters.NewPasswordService(bcrypt.MinCost, 8)

	hash, err := service.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("HashPassword() returned the plain text password")
	}
	if cost, err := bcrypt.Cost([]byte(hash)); err != nil || cost != bcrypt.MinCost {
		t.Errorf("hash cost = %d (%v), want %d", cost, err, bcrypt.MinCost)
	}

	if err := service.VerifyPassword(hash, "correct horse"); err != nil {
		t.Errorf("VerifyPassword() with the right password error = %v", err)
	}
	if err := service.VerifyPassword(hash, "wrong horse"); err == nil {
		t.Error("VerifyPassword() with the wrong password should fail")
	}
}

func TestPasswordService_CostFallsBackToDefault(t *testing.T) {
	service := adapters.NewPasswordService(bcrypt.MaxCost+1, 0)

	hash, err := service.HashPassword("long enough")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if cost, _ := bcrypt.Cost([]byte(hash)); cost != 12 {
		t.Errorf("hash cost = %d, want 12", cost)
	}
	if err := service.ValidatePasswordStrength("1234567"); err == nil {
		t.Error("a zero minimum length should fall back to eight characters")
	}
}

func TestPasswordService_ValidatePasswordStrength(t *testing.T) {
	service := adapters.NewPasswordService(bcrypt.MinCost, 10)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "too short", password: "short", wantErr: true},
		{name: "one below minimum", password: "123456789", wantErr: true},
		{name: "exactly minimum", password: "1234567890"},
		{name: "accented characters count once", password: "açúcarçãoé"},
		{name: "beyond bcrypt input limit", password: strings.Repeat("a", 73), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidatePasswordStrength(tt.password)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("ValidatePasswordStrength() error = %v", err)
				}
				return
			}

			var authErr *domainerror.AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("expected AuthError, got %v", err)
			}
			if authErr.Code != domainerror.ErrCodeWeakPassword {
				t.Errorf("code = %s, want %s", authErr.Code, domainerror.ErrCodeWeakPassword)
			}
			if !errors.Is(err, domainerror.ErrWeakPassword) {
				t.Error("error should wrap ErrWeakPassword")
			}
		})
	}
}
