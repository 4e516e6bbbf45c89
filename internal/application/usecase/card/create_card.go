// Package card contains card-related use cases.
package card

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
)

// MaxBankNameLength is the maximum allowed length for bank names.
const MaxBankNameLength = 100

var lastFourDigitsRegex = regexp.MustCompile(`^[0-9]{4}$`)

// CreateCardInput represents the input for card creation.
type CreateCardInput struct {
	OwnerID        uuid.UUID
	Bank           string
	LastFourDigits string
	TotalLimit     decimal.Decimal
}

// CreateCardOutput represents the output of card creation.
type CreateCardOutput struct {
	Card *entity.Card
}

// CreateCardUseCase handles card creation logic.
type CreateCardUseCase struct {
	cardRepo adapter.CardRepository
}

// NewCreateCardUseCase creates a new CreateCardUseCase instance.
func NewCreateCardUseCase(cardRepo adapter.CardRepository) *CreateCardUseCase {
	return &CreateCardUseCase{
		cardRepo: cardRepo,
	}
}

// Execute creates a card with its whole limit available.
func (uc *CreateCardUseCase) Execute(ctx context.Context, input CreateCardInput) (*CreateCardOutput, error) {
	bank := strings.TrimSpace(input.Bank)
	if err := validateDetails(bank, input.LastFourDigits); err != nil {
		return nil, err
	}
	if err := validateLimit(input.TotalLimit); err != nil {
		return nil, err
	}

	card := entity.NewCard(input.OwnerID, bank, input.LastFourDigits, input.TotalLimit.Round(2))
	if err := uc.cardRepo.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	return &CreateCardOutput{
		Card: card,
	}, nil
}

func validateDetails(bank, lastFourDigits string) error {
	if bank == "" || len(bank) > MaxBankNameLength {
		return domainerror.NewCardError(
			domainerror.ErrCodeMissingCardFields,
			fmt.Sprintf("bank must have between 1 and %d characters", MaxBankNameLength),
			domainerror.ErrInvalidCardDetails,
		)
	}
	if !lastFourDigitsRegex.MatchString(lastFourDigits) {
		return domainerror.NewCardError(
			domainerror.ErrCodeMissingCardFields,
			"last four digits must be exactly 4 digits",
			domainerror.ErrInvalidCardDetails,
		)
	}
	return nil
}

func validateLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return domainerror.NewCardError(
			domainerror.ErrCodeInvalidCardLimit,
			"total limit must not be negative",
			domainerror.ErrInvalidCardLimit,
		)
	}
	return nil
}

// findOwnedCard loads a card and checks it belongs to ownerID.
func findOwnedCard(ctx context.Context, find func(context.Context, uuid.UUID) (*entity.Card, error), cardID, ownerID uuid.UUID) (*entity.Card, error) {
	card, err := find(ctx, cardID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCardNotFound) {
			return nil, domainerror.NewCardError(
				domainerror.ErrCodeCardNotFound,
				"card not found",
				domainerror.ErrCardNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find card: %w", err)
	}

	if card.OwnerID != ownerID {
		return nil, domainerror.NewCardError(
			domainerror.ErrCodeNotAuthorizedCard,
			"not authorized to access this card",
			domainerror.ErrNotAuthorizedToModifyCard,
		)
	}
	return card, nil
}
