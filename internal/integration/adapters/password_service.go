package adapters

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/contacerta/backend/internal/application/adapter"
	domainerror "github.com/contacerta/backend/internal/domain/error"
)

const (
	defaultBcryptCost        = 12
	defaultMinPasswordLength = 8

	// bcrypt ignores everything past the first 72 bytes.
	maxPasswordBytes = 72
)

// bcryptPasswordService hashes account passwords with bcrypt.
type bcryptPasswordService struct {
	cost      int
	minLength int
}

// NewPasswordService returns a bcrypt password service. A cost outside
// bcrypt's accepted range or a minimum length below one falls back to the
// defaults (cost 12, eight characters).
func NewPasswordService(cost, minLength int) adapter.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultBcryptCost
	}
	if minLength < 1 {
		minLength = defaultMinPasswordLength
	}
	return &bcryptPasswordService{
		cost:      cost,
		minLength: minLength,
	}
}

func (s *bcryptPasswordService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *bcryptPasswordService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePasswordStrength counts characters, not bytes, so accented
// passwords are measured the way users type them.
func (s *bcryptPasswordService) ValidatePasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < s.minLength {
		return domainerror.NewAuthError(
			domainerror.ErrCodeWeakPassword,
			fmt.Sprintf("password must be at least %d characters long", s.minLength),
			domainerror.ErrWeakPassword,
		)
	}
	if len(password) > maxPasswordBytes {
		return domainerror.NewAuthError(
			domainerror.ErrCodeWeakPassword,
			fmt.Sprintf("password must be at most %d bytes long", maxPasswordBytes),
			domainerror.ErrWeakPassword,
		)
	}
	return nil
}
