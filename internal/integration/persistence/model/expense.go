package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/domain/entity"
)

// ExpenseModel represents the expenses table in the database.
type ExpenseModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Description      string          `gorm:"type:varchar(255);not null"`
	Date             time.Time       `gorm:"type:date;not null;index"`
	PaymentMethod    string          `gorm:"type:varchar(10);not null"`
	InstallmentCount int             `gorm:"not null;default:1"`
	CategoryID       *uuid.UUID      `gorm:"type:uuid;index"`
	CardID           *uuid.UUID      `gorm:"type:uuid;index"`
	SplitGroupID     *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Card     *CardModel     `gorm:"foreignKey:CardID;references:ID"`
	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the ExpenseModel.
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToEntity converts an ExpenseModel to a domain Expense entity.
func (m *ExpenseModel) ToEntity() *entity.Expense {
	return &entity.Expense{
		ID:               m.ID,
		OwnerID:          m.OwnerID,
		Amount:           m.Amount.Round(2),
		Description:      m.Description,
		Date:             m.Date.UTC(),
		PaymentMethod:    entity.PaymentMethod(m.PaymentMethod),
		InstallmentCount: m.InstallmentCount,
		CategoryID:       m.CategoryID,
		CardID:           m.CardID,
		SplitGroupID:     m.SplitGroupID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// ExpenseFromEntity creates an ExpenseModel from a domain Expense entity.
func ExpenseFromEntity(expense *entity.Expense) *ExpenseModel {
	return &ExpenseModel{
		ID:               expense.ID,
		OwnerID:          expense.OwnerID,
		Amount:           expense.Amount,
		Description:      expense.Description,
		Date:             expense.Date,
		PaymentMethod:    string(expense.PaymentMethod),
		InstallmentCount: expense.InstallmentCount,
		CategoryID:       expense.CategoryID,
		CardID:           expense.CardID,
		SplitGroupID:     expense.SplitGroupID,
		CreatedAt:        expense.CreatedAt,
		UpdatedAt:        expense.UpdatedAt,
	}
}
