package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/domain/entity"
)

// ExpenseRepository defines the interface for expense persistence operations.
type ExpenseRepository interface {
	// Create creates a new expense in the database.
	Create(ctx context.Context, expense *entity.Expense) error

	// FindByID retrieves an expense by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error)

	// FindByFilter retrieves expenses matching the filter, newest first.
	FindByFilter(ctx context.Context, filter entity.ExpenseFilter) ([]*entity.Expense, error)

	// Update updates an existing expense in the database.
	Update(ctx context.Context, expense *entity.Expense) error

	// Delete removes an expense from the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByCard counts the expenses referencing a card.
	CountByCard(ctx context.Context, cardID uuid.UUID) (int64, error)
}

// InstallmentRepository defines the interface for installment persistence operations.
type InstallmentRepository interface {
	// CreateBatch creates the installments of one expense.
	CreateBatch(ctx context.Context, installments []*entity.Installment) error

	// FindByID retrieves an installment by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Installment, error)

	// FindByExpense retrieves an expense's installments ordered by number.
	FindByExpense(ctx context.Context, expenseID uuid.UUID) ([]*entity.Installment, error)

	// FindByExpenses retrieves the installments of several expenses.
	FindByExpenses(ctx context.Context, expenseIDs []uuid.UUID) ([]*entity.Installment, error)

	// FindByInvoice retrieves the installments attached to an invoice ordered by due date.
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*entity.Installment, error)

	// SetInvoice attaches an installment to an invoice, or detaches it when invoiceID is nil.
	SetInvoice(ctx context.Context, installmentID uuid.UUID, invoiceID *uuid.UUID) error

	// SetPaid records whether an installment has been paid.
	SetPaid(ctx context.Context, installmentID uuid.UUID, paid bool) error

	// CountByInvoice counts the installments attached to an invoice.
	CountByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error)

	// DeleteByExpense removes all installments of an expense.
	DeleteByExpense(ctx context.Context, expenseID uuid.UUID) error
}
