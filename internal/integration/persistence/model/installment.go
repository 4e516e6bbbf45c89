package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/domain/entity"
)

// InstallmentModel represents the installments table in the database.
type InstallmentModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ExpenseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DueDate   time.Time       `gorm:"type:date;not null"`
	Number    int             `gorm:"not null"`
	Total     int             `gorm:"not null"`
	Paid      bool            `gorm:"default:false"`
	InvoiceID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt time.Time       `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Expense *ExpenseModel `gorm:"foreignKey:ExpenseID;references:ID;constraint:OnDelete:CASCADE"`
	Invoice *InvoiceModel `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:SET NULL"`
}

// TableName returns the table name for the InstallmentModel.
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToEntity converts an InstallmentModel to a domain Installment entity.
func (m *InstallmentModel) ToEntity() *entity.Installment {
	return &entity.Installment{
		ID:        m.ID,
		ExpenseID: m.ExpenseID,
		Amount:    m.Amount.Round(2),
		DueDate:   m.DueDate.UTC(),
		Number:    m.Number,
		Total:     m.Total,
		Paid:      m.Paid,
		InvoiceID: m.InvoiceID,
		CreatedAt: m.CreatedAt,
	}
}

// InstallmentFromEntity creates an InstallmentModel from a domain Installment entity.
func InstallmentFromEntity(installment *entity.Installment) *InstallmentModel {
	return &InstallmentModel{
		ID:        installment.ID,
		ExpenseID: installment.ExpenseID,
		Amount:    installment.Amount,
		DueDate:   installment.DueDate,
		Number:    installment.Number,
		Total:     installment.Total,
		Paid:      installment.Paid,
		InvoiceID: installment.InvoiceID,
		CreatedAt: installment.CreatedAt,
	}
}
