package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
)

// GetExpenseInput represents the input for fetching one expense.
type GetExpenseInput struct {
	ExpenseID uuid.UUID
	OwnerID   uuid.UUID
}

// GetExpenseUseCase handles retrieving an expense with its installments.
type GetExpenseUseCase struct {
	expenseRepo     adapter.ExpenseRepository
	installmentRepo adapter.InstallmentRepository
}

// NewGetExpenseUseCase creates a new GetExpenseUseCase instance.
func NewGetExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	installmentRepo adapter.InstallmentRepository,
) *GetExpenseUseCase {
	return &GetExpenseUseCase{
		expenseRepo:     expenseRepo,
		installmentRepo: installmentRepo,
	}
}

// Execute returns the expense aggregate.
func (uc *GetExpenseUseCase) Execute(ctx context.Context, input GetExpenseInput) (*entity.ExpenseAggregate, error) {
	expense, err := loadOwnedExpense(ctx, uc.expenseRepo, input.ExpenseID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	installments, err := uc.installmentRepo.FindByExpense(ctx, expense.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load installments: %w", err)
	}

	return entity.NewExpenseAggregate(expense, installments), nil
}
