package category

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/application/adapter"
)

// ListCategoriesInput represents the input for listing categories.
type ListCategoriesInput struct {
	OwnerID   uuid.UUID
	StartDate *time.Time // Optional start date for statistics
	EndDate   *time.Time // Optional end date for statistics
}

// ListCategoriesOutput represents the output of listing categories.
type ListCategoriesOutput struct {
	Categories []*CategoryOutput
}

// CategoryOutput represents a single category in the output.
type CategoryOutput struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	Description  string
	Color        string
	ExpenseCount int
	PeriodTotal  decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListCategoriesUseCase handles listing categories logic.
type ListCategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase instance.
func NewListCategoriesUseCase(categoryRepo adapter.CategoryRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category listing.
func (uc *ListCategoriesUseCase) Execute(ctx context.Context, input ListCategoriesInput) (*ListCategoriesOutput, error) {
	categories, err := uc.categoryRepo.FindByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	// Expense statistics only when a date range is provided
	var stats map[uuid.UUID]*adapter.CategoryStats
	if input.StartDate != nil && input.EndDate != nil && len(categories) > 0 {
		categoryIDs := make([]uuid.UUID, len(categories))
		for i, cat := range categories {
			categoryIDs[i] = cat.ID
		}
		stats, err = uc.categoryRepo.GetExpenseStats(ctx, categoryIDs, *input.StartDate, *input.EndDate)
		if err != nil {
			slog.Warn("Failed to load category stats", "ownerID", input.OwnerID, "error", err)
			stats = nil
		}
	}

	output := &ListCategoriesOutput{
		Categories: make([]*CategoryOutput, len(categories)),
	}

	for i, cat := range categories {
		categoryOutput := &CategoryOutput{
			ID:          cat.ID,
			OwnerID:     cat.OwnerID,
			Name:        cat.Name,
			Description: cat.Description,
			Color:       cat.Color,
			PeriodTotal: decimal.Zero,
			CreatedAt:   cat.CreatedAt,
			UpdatedAt:   cat.UpdatedAt,
		}

		if catStats, ok := stats[cat.ID]; ok {
			categoryOutput.ExpenseCount = catStats.ExpenseCount
			categoryOutput.PeriodTotal = catStats.PeriodTotal
		}

		output.Categories[i] = categoryOutput
	}

	return output, nil
}
