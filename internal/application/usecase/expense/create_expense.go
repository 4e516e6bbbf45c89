package expense

import (
	"context"
	"log/slog"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
)

// CreateExpenseUseCase handles expense creation.
type CreateExpenseUseCase struct {
	uow         adapter.UnitOfWork
	coordinator *Coordinator
	events      adapter.EventPublisher
}

// NewCreateExpenseUseCase creates a new CreateExpenseUseCase instance.
func NewCreateExpenseUseCase(
	uow adapter.UnitOfWork,
	coordinator *Coordinator,
	events adapter.EventPublisher,
) *CreateExpenseUseCase {
	return &CreateExpenseUseCase{
		uow:         uow,
		coordinator: coordinator,
		events:      events,
	}
}

// Execute validates the input and creates the expense, its installments,
// invoice links and card reservation in one unit of work.
func (uc *CreateExpenseUseCase) Execute(ctx context.Context, input ExpenseInput) (*entity.ExpenseAggregate, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	expense := entity.NewExpense(
		input.OwnerID,
		input.Amount,
		input.Description,
		input.Date,
		input.PaymentMethod,
		input.InstallmentCount,
		input.CategoryID,
		input.CardID,
	)

	var aggregate *entity.ExpenseAggregate
	err := uc.uow.Do(ctx, func(repos adapter.Repositories) error {
		var err error
		aggregate, err = uc.coordinator.Create(ctx, repos, expense)
		return err
	})
	if err != nil {
		return nil, classify("create", err)
	}

	slog.Info("Expense created",
		"expenseID", expense.ID,
		"paymentMethod", expense.PaymentMethod,
		"installments", len(aggregate.Installments),
		"invoices", len(aggregate.LinkedInvoiceIDs),
	)
	publish(ctx, uc.events, adapter.ExpenseEventCreated, expense)

	return aggregate, nil
}
