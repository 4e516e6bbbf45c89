package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/domain/entity"
)

// CreateCardRequest represents the request body for card creation.
type CreateCardRequest struct {
	Bank           string          `json:"bank" binding:"required,max=100"`
	LastFourDigits string          `json:"last_four_digits" binding:"required,len=4,numeric"`
	TotalLimit     decimal.Decimal `json:"total_limit"`
}

// UpdateCardRequest represents the request body for card update.
type UpdateCardRequest struct {
	Bank           *string          `json:"bank,omitempty" binding:"omitempty,min=1,max=100"`
	LastFourDigits *string          `json:"last_four_digits,omitempty" binding:"omitempty,len=4,numeric"`
	TotalLimit     *decimal.Decimal `json:"total_limit,omitempty"`
}

// CardResponse represents a card in API responses.
type CardResponse struct {
	ID             string          `json:"id"`
	Bank           string          `json:"bank"`
	LastFourDigits string          `json:"last_four_digits"`
	TotalLimit     decimal.Decimal `json:"total_limit"`
	RemainingLimit decimal.Decimal `json:"remaining_limit"`
	UsedLimit      decimal.Decimal `json:"used_limit"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CardListResponse represents the response for listing cards.
type CardListResponse struct {
	Cards []CardResponse `json:"cards"`
}

// ToCardResponse converts a domain Card entity to a CardResponse DTO.
func ToCardResponse(card *entity.Card) CardResponse {
	return CardResponse{
		ID:             card.ID.String(),
		Bank:           card.Bank,
		LastFourDigits: card.LastFourDigits,
		TotalLimit:     card.TotalLimit,
		RemainingLimit: card.RemainingLimit,
		UsedLimit:      card.UsedLimit(),
		CreatedAt:      card.CreatedAt,
		UpdatedAt:      card.UpdatedAt,
	}
}

// ToCardListResponse converts a list of cards to CardListResponse.
func ToCardListResponse(cards []*entity.Card) CardListResponse {
	responses := make([]CardResponse, len(cards))
	for i, card := range cards {
		responses[i] = ToCardResponse(card)
	}
	return CardListResponse{Cards: responses}
}
