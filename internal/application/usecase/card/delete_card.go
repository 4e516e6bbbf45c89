package card

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/adapter"
	domainerror "github.com/contacerta/backend/internal/domain/error"
)

// DeleteCardInput represents the input for card deletion.
type DeleteCardInput struct {
	CardID  uuid.UUID
	OwnerID uuid.UUID
}

// DeleteCardOutput represents the output of card deletion.
type DeleteCardOutput struct {
	Success bool
}

// DeleteCardUseCase handles card deletion logic.
type DeleteCardUseCase struct {
	uow adapter.UnitOfWork
}

// NewDeleteCardUseCase creates a new DeleteCardUseCase instance.
func NewDeleteCardUseCase(uow adapter.UnitOfWork) *DeleteCardUseCase {
	return &DeleteCardUseCase{
		uow: uow,
	}
}

// Execute deletes a card and its invoices. Cards still referenced by
// expenses cannot be deleted.
func (uc *DeleteCardUseCase) Execute(ctx context.Context, input DeleteCardInput) (*DeleteCardOutput, error) {
	err := uc.uow.Do(ctx, func(repos adapter.Repositories) error {
		if _, err := findOwnedCard(ctx, repos.Cards().FindByIDForUpdate, input.CardID, input.OwnerID); err != nil {
			return err
		}

		inUse, err := repos.Expenses().CountByCard(ctx, input.CardID)
		if err != nil {
			return fmt.Errorf("failed to count card expenses: %w", err)
		}
		if inUse > 0 {
			return domainerror.NewCardError(
				domainerror.ErrCodeCardInUse,
				fmt.Sprintf("card is used by %d expenses", inUse),
				domainerror.ErrCardInUse,
			)
		}

		if err := repos.Invoices().DeleteByCard(ctx, input.CardID); err != nil {
			return fmt.Errorf("failed to delete card invoices: %w", err)
		}
		if err := repos.Cards().Delete(ctx, input.CardID); err != nil {
			return fmt.Errorf("failed to delete card: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Card deleted", "cardID", input.CardID)
	return &DeleteCardOutput{
		Success: true,
	}, nil
}
