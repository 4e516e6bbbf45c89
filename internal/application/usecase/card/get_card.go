package card

import (
	"context"

	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
)

// GetCardInput represents the input for fetching a card.
type GetCardInput struct {
	CardID  uuid.UUID
	OwnerID uuid.UUID
}

// GetCardUseCase handles retrieving a single card.
type GetCardUseCase struct {
	cardRepo adapter.CardRepository
}

// NewGetCardUseCase creates a new GetCardUseCase instance.
func NewGetCardUseCase(cardRepo adapter.CardRepository) *GetCardUseCase {
	return &GetCardUseCase{
		cardRepo: cardRepo,
	}
}

// Execute returns the card.
func (uc *GetCardUseCase) Execute(ctx context.Context, input GetCardInput) (*entity.Card, error) {
	return findOwnedCard(ctx, uc.cardRepo.FindByID, input.CardID, input.OwnerID)
}
