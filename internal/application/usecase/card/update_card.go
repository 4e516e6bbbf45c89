package card

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/application/allocation"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
)

// UpdateCardInput represents the input for card update.
type UpdateCardInput struct {
	CardID         uuid.UUID
	OwnerID        uuid.UUID
	Bank           *string          // Optional
	LastFourDigits *string          // Optional
	TotalLimit     *decimal.Decimal // Optional
}

// UpdateCardOutput represents the output of card update.
type UpdateCardOutput struct {
	Card *entity.Card
}

// UpdateCardUseCase handles card update logic.
type UpdateCardUseCase struct {
	uow    adapter.UnitOfWork
	ledger *allocation.Ledger
}

// NewUpdateCardUseCase creates a new UpdateCardUseCase instance.
func NewUpdateCardUseCase(uow adapter.UnitOfWork, ledger *allocation.Ledger) *UpdateCardUseCase {
	return &UpdateCardUseCase{
		uow:    uow,
		ledger: ledger,
	}
}

// Execute updates the card details. A new total limit moves the remaining
// limit by the same amount, so the part already reserved by expenses is kept.
func (uc *UpdateCardUseCase) Execute(ctx context.Context, input UpdateCardInput) (*UpdateCardOutput, error) {
	if input.TotalLimit != nil {
		if err := validateLimit(*input.TotalLimit); err != nil {
			return nil, err
		}
	}

	var updated *entity.Card
	err := uc.uow.Do(ctx, func(repos adapter.Repositories) error {
		// The row stays locked until commit so a purchase cannot move the
		// limits between reading TotalLimit and applying the delta.
		card, err := findOwnedCard(ctx, repos.Cards().FindByIDForUpdate, input.CardID, input.OwnerID)
		if err != nil {
			return err
		}

		if input.Bank != nil {
			card.Bank = strings.TrimSpace(*input.Bank)
		}
		if input.LastFourDigits != nil {
			card.LastFourDigits = *input.LastFourDigits
		}
		if err := validateDetails(card.Bank, card.LastFourDigits); err != nil {
			return err
		}
		if err := repos.Cards().UpdateDetails(ctx, card); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}

		if input.TotalLimit != nil {
			delta := input.TotalLimit.Round(2).Sub(card.TotalLimit)
			if err := uc.ledger.AdjustTotal(ctx, repos.Cards(), card.ID, delta); err != nil {
				return err
			}
		}

		updated, err = repos.Cards().FindByID(ctx, card.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrInsufficientLimit) {
			return nil, domainerror.NewCardError(
				domainerror.ErrCodeInsufficientLimit,
				"total limit is lower than the amount already in use",
				domainerror.ErrInsufficientLimit,
			)
		}
		return nil, err
	}

	return &UpdateCardOutput{
		Card: updated,
	}, nil
}
