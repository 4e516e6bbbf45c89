package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/domain/entity"
)

// CardModel represents the cards table in the database.
type CardModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Bank           string          `gorm:"type:varchar(100);not null"`
	LastFourDigits string          `gorm:"type:varchar(4);not null"`
	TotalLimit     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	RemainingLimit decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for the CardModel.
func (CardModel) TableName() string {
	return "cards"
}

// ToEntity converts a CardModel to a domain Card entity.
func (m *CardModel) ToEntity() *entity.Card {
	return &entity.Card{
		ID:             m.ID,
		OwnerID:        m.OwnerID,
		Bank:           m.Bank,
		LastFourDigits: m.LastFourDigits,
		TotalLimit:     m.TotalLimit.Round(2),
		RemainingLimit: m.RemainingLimit.Round(2),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// CardFromEntity creates a CardModel from a domain Card entity.
func CardFromEntity(card *entity.Card) *CardModel {
	return &CardModel{
		ID:             card.ID,
		OwnerID:        card.OwnerID,
		Bank:           card.Bank,
		LastFourDigits: card.LastFourDigits,
		TotalLimit:     card.TotalLimit,
		RemainingLimit: card.RemainingLimit,
		CreatedAt:      card.CreatedAt,
		UpdatedAt:      card.UpdatedAt,
	}
}
