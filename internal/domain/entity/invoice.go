package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the monthly aggregate of a card's due installments.
// There is at most one invoice per (CardID, ReferenceMonth).
type Invoice struct {
	ID             uuid.UUID
	CardID         uuid.UUID
	ReferenceMonth time.Time // First day of the billing-cycle month, UTC
	DueDate        time.Time
	TotalAmount    decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewInvoice creates an empty invoice for a card and reference month.
func NewInvoice(cardID uuid.UUID, referenceMonth, dueDate time.Time) *Invoice {
	now := time.Now().UTC()

	return &Invoice{
		ID:             uuid.New(),
		CardID:         cardID,
		ReferenceMonth: referenceMonth,
		DueDate:        dueDate,
		TotalAmount:    decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// InvoiceWithInstallments is an invoice with its attached installments.
type InvoiceWithInstallments struct {
	Invoice      *Invoice
	Installments []*Installment
}
