package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/domain/entity"
)

// InvoiceRepository defines the interface for invoice persistence operations.
type InvoiceRepository interface {
	// Create inserts a new invoice. It returns domainerror.ErrInvoiceConflict when an
	// invoice for the same card and reference month already exists; the failed insert
	// must not abort the surrounding transaction.
	Create(ctx context.Context, invoice *entity.Invoice) error

	// FindByID retrieves an invoice by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)

	// FindByCardAndMonth retrieves the invoice of a card for a reference month.
	FindByCardAndMonth(ctx context.Context, cardID uuid.UUID, referenceMonth time.Time) (*entity.Invoice, error)

	// FindByCard retrieves a card's invoices ordered by due date.
	FindByCard(ctx context.Context, cardID uuid.UUID) ([]*entity.Invoice, error)

	// AddToTotal atomically adds delta (possibly negative) to the invoice total.
	AddToTotal(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	// Delete removes an invoice.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByCard removes all invoices of a card.
	DeleteByCard(ctx context.Context, cardID uuid.UUID) error
}
