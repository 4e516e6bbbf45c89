package expense

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
)

// DeleteExpenseInput represents the input for expense deletion.
type DeleteExpenseInput struct {
	ExpenseID uuid.UUID
	OwnerID   uuid.UUID
}

// DeleteExpenseUseCase handles expense deletion logic.
type DeleteExpenseUseCase struct {
	uow         adapter.UnitOfWork
	coordinator *Coordinator
	events      adapter.EventPublisher
}

// NewDeleteExpenseUseCase creates a new DeleteExpenseUseCase instance.
func NewDeleteExpenseUseCase(
	uow adapter.UnitOfWork,
	coordinator *Coordinator,
	events adapter.EventPublisher,
) *DeleteExpenseUseCase {
	return &DeleteExpenseUseCase{
		uow:         uow,
		coordinator: coordinator,
		events:      events,
	}
}

// Execute removes the expense and fully reverses its effects. It returns
// the aggregate as it was before deletion.
func (uc *DeleteExpenseUseCase) Execute(ctx context.Context, input DeleteExpenseInput) (*entity.ExpenseAggregate, error) {
	var removed *entity.ExpenseAggregate
	err := uc.uow.Do(ctx, func(repos adapter.Repositories) error {
		expense, err := loadOwnedExpense(ctx, repos.Expenses(), input.ExpenseID, input.OwnerID)
		if err != nil {
			return err
		}

		removed, err = uc.coordinator.Remove(ctx, repos, expense)
		return err
	})
	if err != nil {
		return nil, classify("delete", err)
	}

	slog.Info("Expense deleted", "expenseID", input.ExpenseID)
	publish(ctx, uc.events, adapter.ExpenseEventDeleted, removed.Expense)

	return removed, nil
}
