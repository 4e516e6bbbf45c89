package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/application/usecase/category"
	"github.com/contacerta/backend/internal/domain/entity"
)

// CreateCategoryRequest represents the request body for category creation.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=50"`
	Description string `json:"description,omitempty" binding:"max=255"`
	Color       string `json:"color,omitempty"`
}

// UpdateCategoryRequest represents the request body for category update.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=50"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=255"`
	Color       *string `json:"color,omitempty"`
}

// CategoryResponse represents a single category in API responses.
type CategoryResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Color        string          `json:"color"`
	OwnerID      string          `json:"owner_id"`
	ExpenseCount int             `json:"expense_count"`
	PeriodTotal  decimal.Decimal `json:"period_total"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CategoryListResponse represents the response for listing categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToCategoryResponse converts a domain Category entity to a CategoryResponse DTO.
func ToCategoryResponse(cat *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:           cat.ID.String(),
		Name:         cat.Name,
		Description:  cat.Description,
		Color:        cat.Color,
		OwnerID:      cat.OwnerID.String(),
		ExpenseCount: 0,
		PeriodTotal:  decimal.Zero,
		CreatedAt:    cat.CreatedAt,
		UpdatedAt:    cat.UpdatedAt,
	}
}

// ToCategoryResponseWithStats converts a CategoryOutput to a CategoryResponse DTO.
func ToCategoryResponseWithStats(output *category.CategoryOutput) CategoryResponse {
	return CategoryResponse{
		ID:           output.ID.String(),
		Name:         output.Name,
		Description:  output.Description,
		Color:        output.Color,
		OwnerID:      output.OwnerID.String(),
		ExpenseCount: output.ExpenseCount,
		PeriodTotal:  output.PeriodTotal,
		CreatedAt:    output.CreatedAt,
		UpdatedAt:    output.UpdatedAt,
	}
}

// ToCategoryListResponse converts a list of CategoryOutput to CategoryListResponse.
func ToCategoryListResponse(outputs []*category.CategoryOutput) CategoryListResponse {
	categories := make([]CategoryResponse, len(outputs))
	for i, output := range outputs {
		categories[i] = ToCategoryResponseWithStats(output)
	}
	return CategoryListResponse{
		Categories: categories,
	}
}
