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

// GetInvoiceInput represents the input for fetching an invoice.
type GetInvoiceInput struct {
	InvoiceID uuid.UUID
	OwnerID   uuid.UUID
}

// GetInvoiceUseCase returns an invoice with its attached installments.
type GetInvoiceUseCase struct {
	cardRepo        adapter.CardRepository
	invoiceRepo     adapter.InvoiceRepository
	installmentRepo adapter.InstallmentRepository
}

// NewGetInvoiceUseCase creates a new GetInvoiceUseCase instance.
func NewGetInvoiceUseCase(
	cardRepo adapter.CardRepository,
	invoiceRepo adapter.InvoiceRepository,
	installmentRepo adapter.InstallmentRepository,
) *GetInvoiceUseCase {
	return &GetInvoiceUseCase{
		cardRepo:        cardRepo,
		invoiceRepo:     invoiceRepo,
		installmentRepo: installmentRepo,
	}
}

// Execute performs the invoice lookup.
func (uc *GetInvoiceUseCase) Execute(ctx context.Context, input GetInvoiceInput) (*entity.InvoiceWithInstallments, error) {
	invoice, err := uc.invoiceRepo.FindByID(ctx, input.InvoiceID)
	if err != nil {
		if errors.Is(err, domainerror.ErrInvoiceNotFound) {
			return nil, domainerror.NewExpenseError(
				domainerror.ErrCodeInvoiceNotFound,
				"invoice not found",
				domainerror.ErrInvoiceNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}

	if _, err := findOwnedCard(ctx, uc.cardRepo, invoice.CardID, input.OwnerID); err != nil {
		if errors.Is(err, domainerror.ErrCardNotFound) {
			return nil, domainerror.NewExpenseError(
				domainerror.ErrCodeInvoiceNotFound,
				"invoice not found",
				domainerror.ErrInvoiceNotFound,
			)
		}
		return nil, err
	}

	installments, err := uc.installmentRepo.FindByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice installments: %w", err)
	}

	return &entity.InvoiceWithInstallments{
		Invoice:      invoice,
		Installments: installments,
	}, nil
}
