package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
)

// ListExpensesInput represents the input for listing expenses.
type ListExpensesInput struct {
	OwnerID   uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	CardID    *uuid.UUID
}

// ListExpensesOutput represents the output of listing expenses.
type ListExpensesOutput struct {
	Expenses []*entity.ExpenseAggregate
}

// ListExpensesUseCase handles listing an owner's expenses.
type ListExpensesUseCase struct {
	expenseRepo     adapter.ExpenseRepository
	installmentRepo adapter.InstallmentRepository
}

// NewListExpensesUseCase creates a new ListExpensesUseCase instance.
func NewListExpensesUseCase(
	expenseRepo adapter.ExpenseRepository,
	installmentRepo adapter.InstallmentRepository,
) *ListExpensesUseCase {
	return &ListExpensesUseCase{
		expenseRepo:     expenseRepo,
		installmentRepo: installmentRepo,
	}
}

// Execute lists expenses newest first, each with its installments.
func (uc *ListExpensesUseCase) Execute(ctx context.Context, input ListExpensesInput) (*ListExpensesOutput, error) {
	expenses, err := uc.expenseRepo.FindByFilter(ctx, entity.ExpenseFilter{
		OwnerID:   input.OwnerID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		CardID:    input.CardID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	ids := make([]uuid.UUID, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
	}

	byExpense := make(map[uuid.UUID][]*entity.Installment, len(expenses))
	if len(ids) > 0 {
		installments, err := uc.installmentRepo.FindByExpenses(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load installments: %w", err)
		}
		for _, inst := range installments {
			byExpense[inst.ExpenseID] = append(byExpense[inst.ExpenseID], inst)
		}
	}

	output := &ListExpensesOutput{Expenses: make([]*entity.ExpenseAggregate, len(expenses))}
	for i, e := range expenses {
		output.Expenses[i] = entity.NewExpenseAggregate(e, byExpense[e.ID])
	}
	return output, nil
}
