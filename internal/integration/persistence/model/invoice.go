package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/domain/entity"
	"github.com/contacerta/backend/internal/domain/valueobject"
)

// InvoiceModel represents the invoices table in the database.
// (card_id, reference_month) is unique: one invoice per card and billing cycle.
type InvoiceModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CardID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_card_month"`
	ReferenceMonth string          `gorm:"type:varchar(7);not null;uniqueIndex:idx_invoice_card_month"` // YYYY-MM
	DueDate        time.Time       `gorm:"type:date;not null;index"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`

	Card *CardModel `gorm:"foreignKey:CardID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the InvoiceModel.
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToEntity converts an InvoiceModel to a domain Invoice entity.
func (m *InvoiceModel) ToEntity() *entity.Invoice {
	// Stored cycles are always written by FormatBillingCycle
	referenceMonth, _ := valueobject.ParseBillingCycle(m.ReferenceMonth)

	return &entity.Invoice{
		ID:             m.ID,
		CardID:         m.CardID,
		ReferenceMonth: referenceMonth,
		DueDate:        m.DueDate.UTC(),
		TotalAmount:    m.TotalAmount.Round(2),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// InvoiceFromEntity creates an InvoiceModel from a domain Invoice entity.
func InvoiceFromEntity(invoice *entity.Invoice) *InvoiceModel {
	return &InvoiceModel{
		ID:             invoice.ID,
		CardID:         invoice.CardID,
		ReferenceMonth: valueobject.FormatBillingCycle(invoice.ReferenceMonth),
		DueDate:        invoice.DueDate,
		TotalAmount:    invoice.TotalAmount,
		CreatedAt:      invoice.CreatedAt,
		UpdatedAt:      invoice.UpdatedAt,
	}
}
