// Package invoice contains invoice query use cases.
package invoice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
)

// ListCardInvoicesInput represents the input for listing a card's invoices.
type ListCardInvoicesInput struct {
	CardID  uuid.UUID
	OwnerID uuid.UUID
}

// ListCardInvoicesOutput represents the output of listing invoices.
type ListCardInvoicesOutput struct {
	Card     *entity.Card
	Invoices []*entity.Invoice
}

// ListCardInvoicesUseCase lists the invoices of a card ordered by due date.
type ListCardInvoicesUseCase struct {
	cardRepo    adapter.CardRepository
	invoiceRepo adapter.InvoiceRepository
}

// NewListCardInvoicesUseCase creates a new ListCardInvoicesUseCase instance.
func NewListCardInvoicesUseCase(
	cardRepo adapter.CardRepository,
	invoiceRepo adapter.InvoiceRepository,
) *ListCardInvoicesUseCase {
	return &ListCardInvoicesUseCase{
		cardRepo:    cardRepo,
		invoiceRepo: invoiceRepo,
	}
}

// Execute performs the invoice listing.
func (uc *ListCardInvoicesUseCase) Execute(ctx context.Context, input ListCardInvoicesInput) (*ListCardInvoicesOutput, error) {
	card, err := findOwnedCard(ctx, uc.cardRepo, input.CardID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	invoices, err := uc.invoiceRepo.FindByCard(ctx, card.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return &ListCardInvoicesOutput{
		Card:     card,
		Invoices: invoices,
	}, nil
}

func findOwnedCard(ctx context.Context, cards adapter.CardRepository, cardID, ownerID uuid.UUID) (*entity.Card, error) {
	card, err := cards.FindByID(ctx, cardID)
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

	// Invoices of other users' cards are reported as missing
	if card.OwnerID != ownerID {
		return nil, domainerror.NewCardError(
			domainerror.ErrCodeCardNotFound,
			"card not found",
			domainerror.ErrCardNotFound,
		)
	}
	return card, nil
}
