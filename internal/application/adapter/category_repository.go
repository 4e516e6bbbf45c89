package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/domain/entity"
)

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create creates a new category in the database.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindByOwner retrieves all categories for a given owner.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Category, error)

	// Update updates an existing category.
	Update(ctx context.Context, category *entity.Category) error

	// ExistsByNameAndOwner checks if a category with the given name exists for the owner.
	ExistsByNameAndOwner(ctx context.Context, name string, ownerID uuid.UUID) (bool, error)

	// Delete removes a category from the database and clears it from expenses.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetExpenseStats retrieves expense statistics for categories within a date range.
	GetExpenseStats(ctx context.Context, categoryIDs []uuid.UUID, startDate, endDate time.Time) (map[uuid.UUID]*CategoryStats, error)
}

// CategoryStats represents expense statistics for a category.
type CategoryStats struct {
	ExpenseCount int
	PeriodTotal  decimal.Decimal
}
