package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/domain/entity"
)

// LimitAdjustment is a relative change applied to a card's limits.
type LimitAdjustment struct {
	Total     decimal.Decimal
	Remaining decimal.Decimal
}

// CardRepository defines the interface for card persistence operations.
type CardRepository interface {
	// Create creates a new card in the database.
	Create(ctx context.Context, card *entity.Card) error

	// FindByID retrieves a card by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Card, error)

	// FindByIDForUpdate retrieves a card and locks its row until the
	// surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Card, error)

	// FindByOwner retrieves all cards of a user.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Card, error)

	// UpdateDetails updates the descriptive fields of a card (bank, last digits).
	// Limits are never written by this method.
	UpdateDetails(ctx context.Context, card *entity.Card) error

	// AdjustLimits applies a relative adjustment to the card limits in a single
	// conditional update. Unless allowNegative is set, an adjustment that would
	// leave the remaining limit below zero fails with domainerror.ErrInsufficientLimit.
	AdjustLimits(ctx context.Context, id uuid.UUID, adjustment LimitAdjustment, allowNegative bool) error

	// Delete removes a card from the database.
	Delete(ctx context.Context, id uuid.UUID) error
}
