// Package expense contains the expense lifecycle use cases.
package expense

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/domain/valueobject"
)

// MaxDescriptionLength is the maximum allowed length for expense descriptions.
const MaxDescriptionLength = 255

// ExpenseInput is the typed expense payload accepted by the create and
// update use cases.
type ExpenseInput struct {
	OwnerID          uuid.UUID
	Amount           decimal.Decimal
	Description      string
	Date             time.Time
	PaymentMethod    entity.PaymentMethod
	InstallmentCount int
	CategoryID       *uuid.UUID
	CardID           *uuid.UUID
}

// Normalize returns a copy with the amount rounded to cents, the date
// truncated to UTC midnight and the card dropped for methods that never
// use one.
func (in ExpenseInput) Normalize() ExpenseInput {
	out := in
	out.Amount = in.Amount.Round(2)
	if !in.Date.IsZero() {
		y, m, d := in.Date.Date()
		out.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	if !in.PaymentMethod.RequiresCard() {
		out.CardID = nil
	}
	return out
}

// Validate checks the input. It runs before any write.
func (in ExpenseInput) Validate() error {
	if in.OwnerID == uuid.Nil {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeMissingExpenseFields,
			"owner is required",
			domainerror.ErrNotAuthorizedToModifyExpense,
		)
	}

	if !in.Amount.IsPositive() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidExpenseAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidExpenseAmount,
		)
	}

	if in.Date.IsZero() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidExpenseDate,
			"date is required",
			domainerror.ErrInvalidExpenseDate,
		)
	}

	if len(in.Description) > MaxDescriptionLength {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}

	if !in.PaymentMethod.IsValid() {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidPaymentMethod,
			"payment method must be one of CASH, PIX, DEBIT, CREDIT",
			domainerror.ErrInvalidPaymentMethod,
		)
	}

	if in.InstallmentCount < 1 || in.InstallmentCount > valueobject.MaxInstallmentCount {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidInstallmentCount,
			fmt.Sprintf("installment count must be between 1 and %d", valueobject.MaxInstallmentCount),
			domainerror.ErrInvalidInstallmentCount,
		)
	}

	if in.InstallmentCount > 1 && in.PaymentMethod != entity.PaymentMethodCredit {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInstallmentsRequireCredit,
			"only credit expenses can have more than one installment",
			domainerror.ErrInstallmentsRequireCredit,
		)
	}

	if in.PaymentMethod.RequiresCard() && in.CardID == nil {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeCardRequired,
			"card is required for credit and debit expenses",
			domainerror.ErrCardRequired,
		)
	}

	return nil
}

// apply copies the input onto an expense entity.
func (in ExpenseInput) apply(expense *entity.Expense) {
	expense.OwnerID = in.OwnerID
	expense.Amount = in.Amount
	expense.Description = in.Description
	expense.Date = in.Date
	expense.PaymentMethod = in.PaymentMethod
	expense.InstallmentCount = in.InstallmentCount
	expense.CategoryID = in.CategoryID
	expense.CardID = in.CardID
}
