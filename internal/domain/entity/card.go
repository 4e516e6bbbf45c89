package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Card is a credit/debit instrument with a total and a remaining limit.
type Card struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Bank           string
	LastFourDigits string
	TotalLimit     decimal.Decimal
	RemainingLimit decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewCard creates a new card with its whole limit available.
func NewCard(ownerID uuid.UUID, bank, lastFourDigits string, totalLimit decimal.Decimal) *Card {
	now := time.Now().UTC()

	return &Card{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Bank:           bank,
		LastFourDigits: lastFourDigits,
		TotalLimit:     totalLimit,
		RemainingLimit: totalLimit,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// UsedLimit returns the part of the limit reserved by outstanding purchases.
func (c *Card) UsedLimit() decimal.Decimal {
	return c.TotalLimit.Sub(c.RemainingLimit)
}
