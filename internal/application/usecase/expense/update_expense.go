package expense

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
)

// UpdateExpenseInput represents the input for expense update. The expense
// is fully replaced by Expense; its identity and owner do not change.
type UpdateExpenseInput struct {
	ExpenseID uuid.UUID
	Expense   ExpenseInput
}

// UpdateExpenseUseCase handles expense update logic.
type UpdateExpenseUseCase struct {
	uow         adapter.UnitOfWork
	coordinator *Coordinator
	events      adapter.EventPublisher
}

// NewUpdateExpenseUseCase creates a new UpdateExpenseUseCase instance.
func NewUpdateExpenseUseCase(
	uow adapter.UnitOfWork,
	coordinator *Coordinator,
	events adapter.EventPublisher,
) *UpdateExpenseUseCase {
	return &UpdateExpenseUseCase{
		uow:         uow,
		coordinator: coordinator,
		events:      events,
	}
}

// Execute reverses the current installments, invoice contributions and card
// reservation of the expense and allocates the new state in their place.
func (uc *UpdateExpenseUseCase) Execute(ctx context.Context, input UpdateExpenseInput) (*entity.ExpenseAggregate, error) {
	newState := input.Expense.Normalize()
	if err := newState.Validate(); err != nil {
		return nil, err
	}

	var aggregate *entity.ExpenseAggregate
	err := uc.uow.Do(ctx, func(repos adapter.Repositories) error {
		before, err := loadOwnedExpense(ctx, repos.Expenses(), input.ExpenseID, newState.OwnerID)
		if err != nil {
			return err
		}

		after := *before
		newState.apply(&after)
		after.UpdatedAt = time.Now().UTC()

		aggregate, err = uc.coordinator.Replace(ctx, repos, before, &after)
		return err
	})
	if err != nil {
		return nil, classify("update", err)
	}

	slog.Info("Expense updated",
		"expenseID", aggregate.Expense.ID,
		"installments", len(aggregate.Installments),
		"invoices", len(aggregate.LinkedInvoiceIDs),
	)
	publish(ctx, uc.events, adapter.ExpenseEventUpdated, aggregate.Expense)

	return aggregate, nil
}
