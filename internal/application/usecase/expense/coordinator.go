package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/application/allocation"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/domain/valueobject"
)

// Coordinator runs the allocation engine steps of the expense lifecycle.
// Every method works on transaction-scoped repositories and must be called
// from inside adapter.UnitOfWork.Do.
type Coordinator struct {
	scheduler  *allocation.Scheduler
	ledger     *allocation.Ledger
	aggregator *allocation.Aggregator
}

// NewCoordinator creates a coordinator for the given billing policy.
func NewCoordinator(policy valueobject.BillingPolicy) *Coordinator {
	return &Coordinator{
		scheduler:  allocation.NewScheduler(policy),
		ledger:     allocation.NewLedger(policy),
		aggregator: allocation.NewAggregator(policy),
	}
}

// Create persists a new expense with its installments, reserves the card
// limit and attaches the installments to their invoices.
func (c *Coordinator) Create(ctx context.Context, repos adapter.Repositories, expense *entity.Expense) (*entity.ExpenseAggregate, error) {
	if err := c.resolveReferences(ctx, repos, expense); err != nil {
		return nil, err
	}

	if err := repos.Expenses().Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	installments, err := c.schedule(ctx, repos, expense)
	if err != nil {
		return nil, err
	}

	if expense.ChargesCard() {
		if err := c.ledger.Debit(ctx, repos.Cards(), *expense.CardID, expense.Amount); err != nil {
			return nil, err
		}
	}

	if err := c.attachAll(ctx, repos, expense, installments); err != nil {
		return nil, err
	}

	return entity.NewExpenseAggregate(expense, installments), nil
}

// Replace detaches the current installments of before, writes after under
// the same identity and allocates it again. The card limit moves by the net
// difference between the two states.
func (c *Coordinator) Replace(ctx context.Context, repos adapter.Repositories, before, after *entity.Expense) (*entity.ExpenseAggregate, error) {
	if err := c.resolveReferences(ctx, repos, after); err != nil {
		return nil, err
	}

	if err := c.release(ctx, repos, before); err != nil {
		return nil, err
	}

	if err := repos.Expenses().Update(ctx, after); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	installments, err := c.schedule(ctx, repos, after)
	if err != nil {
		return nil, err
	}

	if err := c.ledger.Rebalance(ctx, repos.Cards(), before, after); err != nil {
		return nil, err
	}

	if err := c.attachAll(ctx, repos, after, installments); err != nil {
		return nil, err
	}

	return entity.NewExpenseAggregate(after, installments), nil
}

// Remove detaches and deletes the installments, deletes the expense and
// releases its card reservation. The returned aggregate describes the
// expense as it was before removal.
func (c *Coordinator) Remove(ctx context.Context, repos adapter.Repositories, expense *entity.Expense) (*entity.ExpenseAggregate, error) {
	installments, err := repos.Installments().FindByExpense(ctx, expense.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load installments: %w", err)
	}
	// Detach clears InvoiceID on the installments it is given, so the
	// returned aggregate keeps its own copies.
	removed := entity.NewExpenseAggregate(expense, copyInstallments(installments))

	if err := c.detachAll(ctx, repos, installments); err != nil {
		return nil, err
	}
	if err := repos.Installments().DeleteByExpense(ctx, expense.ID); err != nil {
		return nil, fmt.Errorf("failed to delete installments: %w", err)
	}
	if err := repos.Expenses().Delete(ctx, expense.ID); err != nil {
		return nil, fmt.Errorf("failed to delete expense: %w", err)
	}

	if expense.ChargesCard() {
		if err := c.ledger.Credit(ctx, repos.Cards(), *expense.CardID, expense.Amount); err != nil {
			return nil, err
		}
	}

	return removed, nil
}

func (c *Coordinator) schedule(ctx context.Context, repos adapter.Repositories, expense *entity.Expense) ([]*entity.Installment, error) {
	installments, err := c.scheduler.Schedule(allocation.ScheduleInput{
		ExpenseID:        expense.ID,
		Amount:           expense.Amount,
		InstallmentCount: expense.InstallmentCount,
		Date:             expense.Date,
		PaymentMethod:    expense.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	if err := repos.Installments().CreateBatch(ctx, installments); err != nil {
		return nil, fmt.Errorf("failed to create installments: %w", err)
	}
	return installments, nil
}

func (c *Coordinator) attachAll(ctx context.Context, repos adapter.Repositories, expense *entity.Expense, installments []*entity.Installment) error {
	if !expense.ChargesCard() {
		return nil
	}
	for _, inst := range installments {
		if _, err := c.aggregator.Attach(ctx, repos, inst, *expense.CardID); err != nil {
			return err
		}
	}
	return nil
}

func copyInstallments(installments []*entity.Installment) []*entity.Installment {
	copies := make([]*entity.Installment, len(installments))
	for i, inst := range installments {
		c := *inst
		if inst.InvoiceID != nil {
			id := *inst.InvoiceID
			c.InvoiceID = &id
		}
		copies[i] = &c
	}
	return copies
}

func (c *Coordinator) detachAll(ctx context.Context, repos adapter.Repositories, installments []*entity.Installment) error {
	for _, inst := range installments {
		if err := c.aggregator.Detach(ctx, repos, inst); err != nil {
			return err
		}
	}
	return nil
}

// release reverses the invoice contributions of an expense and deletes its
// installments. The ledger is left to the caller.
func (c *Coordinator) release(ctx context.Context, repos adapter.Repositories, expense *entity.Expense) error {
	installments, err := repos.Installments().FindByExpense(ctx, expense.ID)
	if err != nil {
		return fmt.Errorf("failed to load installments: %w", err)
	}
	if err := c.detachAll(ctx, repos, installments); err != nil {
		return err
	}
	if err := repos.Installments().DeleteByExpense(ctx, expense.ID); err != nil {
		return fmt.Errorf("failed to delete installments: %w", err)
	}
	return nil
}

// resolveReferences checks that the card and category exist and belong to
// the expense owner. Foreign ones are reported as not found.
func (c *Coordinator) resolveReferences(ctx context.Context, repos adapter.Repositories, expense *entity.Expense) error {
	if expense.CardID != nil {
		card, err := repos.Cards().FindByID(ctx, *expense.CardID)
		if err != nil && !errors.Is(err, domainerror.ErrCardNotFound) {
			return fmt.Errorf("failed to find card: %w", err)
		}
		if err != nil || card.OwnerID != expense.OwnerID {
			return domainerror.NewExpenseError(
				domainerror.ErrCodeExpenseCardMissing,
				"card not found",
				domainerror.ErrCardNotFound,
			)
		}
	}

	if expense.CategoryID != nil {
		category, err := repos.Categories().FindByID(ctx, *expense.CategoryID)
		if err != nil && !errors.Is(err, domainerror.ErrCategoryNotFound) {
			return fmt.Errorf("failed to find category: %w", err)
		}
		if err != nil || category.OwnerID != expense.OwnerID {
			return domainerror.NewExpenseError(
				domainerror.ErrCodeExpenseCategory,
				"category not found",
				domainerror.ErrCategoryNotFound,
			)
		}
	}

	return nil
}

func loadOwnedExpense(ctx context.Context, expenses adapter.ExpenseRepository, expenseID, ownerID uuid.UUID) (*entity.Expense, error) {
	expense, err := expenses.FindByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, domainerror.ErrExpenseNotFound) {
			return nil, domainerror.NewExpenseError(
				domainerror.ErrCodeExpenseNotFound,
				"expense not found",
				domainerror.ErrExpenseNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}

	if expense.OwnerID != ownerID {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeNotAuthorizedExpense,
			"not authorized to access this expense",
			domainerror.ErrNotAuthorizedToModifyExpense,
		)
	}
	return expense, nil
}

// classify turns an error returned from a unit of work into the error
// surfaced to callers. Domain errors pass through with a code; anything
// else is a storage failure and becomes a single opaque TransactionFailure.
func classify(operation string, err error) error {
	var (
		expenseErr  *domainerror.ExpenseError
		cardErr     *domainerror.CardError
		categoryErr *domainerror.CategoryError
	)
	switch {
	case errors.As(err, &expenseErr), errors.As(err, &cardErr), errors.As(err, &categoryErr):
		return err
	case errors.Is(err, domainerror.ErrInsufficientLimit):
		return domainerror.NewCardError(
			domainerror.ErrCodeInsufficientLimit,
			"card limit is not enough for this expense",
			domainerror.ErrInsufficientLimit,
		)
	case errors.Is(err, domainerror.ErrCardNotFound):
		return domainerror.NewExpenseError(domainerror.ErrCodeExpenseCardMissing, "card not found", domainerror.ErrCardNotFound)
	case errors.Is(err, domainerror.ErrExpenseNotFound):
		return domainerror.NewExpenseError(domainerror.ErrCodeExpenseNotFound, "expense not found", domainerror.ErrExpenseNotFound)
	case errors.Is(err, domainerror.ErrInvoiceNotFound):
		return domainerror.NewExpenseError(domainerror.ErrCodeInvoiceNotFound, "invoice not found", domainerror.ErrInvoiceNotFound)
	}

	slog.Error("Expense unit of work rolled back", "operation", operation, "error", err)
	return domainerror.NewExpenseError(
		domainerror.ErrCodeTransactionFailed,
		fmt.Sprintf("failed to %s expense", operation),
		fmt.Errorf("%w: %w", domainerror.ErrTransactionFailed, err),
	)
}

// publish emits a lifecycle event after commit. Failures are logged only.
func publish(ctx context.Context, events adapter.EventPublisher, eventType adapter.ExpenseEventType, expense *entity.Expense) {
	if events == nil {
		return
	}
	event := adapter.ExpenseEvent{
		Type:             eventType,
		ExpenseID:        expense.ID,
		OwnerID:          expense.OwnerID,
		Amount:           expense.Amount,
		PaymentMethod:    string(expense.PaymentMethod),
		InstallmentCount: expense.InstallmentCount,
		CardID:           expense.CardID,
		OccurredAt:       time.Now().UTC(),
	}
	if err := events.PublishExpenseEvent(ctx, event); err != nil {
		slog.Warn("Failed to publish expense event",
			"type", eventType,
			"expenseID", expense.ID,
			"error", err,
		)
	}
}
