// Package allocation implements the installment and invoice allocation engine:
// splitting an expense into installments, reserving card limit and grouping
// installments into monthly card invoices.
package allocation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/domain/valueobject"
)

// minorUnitPlaces is the number of decimal places of the currency minor unit.
const minorUnitPlaces = 2

// ScheduleInput holds the expense parameters the scheduler needs.
type ScheduleInput struct {
	ExpenseID        uuid.UUID
	Amount           decimal.Decimal
	InstallmentCount int
	Date             time.Time
	PaymentMethod    entity.PaymentMethod
}

// Scheduler splits an expense into dated installments.
type Scheduler struct {
	billingDay int
}

// NewScheduler creates a scheduler using the policy's billing day.
func NewScheduler(policy valueobject.BillingPolicy) *Scheduler {
	return &Scheduler{billingDay: policy.BillingDay}
}

// Schedule returns the ordered installments of an expense.
//
// Non-credit expenses are settled at once: a single paid installment due on
// the expense date. Credit expenses get InstallmentCount unpaid installments,
// the i-th due on the billing day i months after the purchase. The last
// installment absorbs the rounding remainder so the amounts add up to the
// expense amount exactly.
func (s *Scheduler) Schedule(input ScheduleInput) ([]*entity.Installment, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidExpenseAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidExpenseAmount,
		)
	}
	if input.InstallmentCount < 1 || input.InstallmentCount > valueobject.MaxInstallmentCount {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidInstallmentCount,
			fmt.Sprintf("installment count must be between 1 and %d", valueobject.MaxInstallmentCount),
			domainerror.ErrInvalidInstallmentCount,
		)
	}

	count := input.InstallmentCount
	if input.PaymentMethod.SettlesImmediately() {
		count = 1
	}

	amounts, err := SplitAmount(input.Amount, count)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	installments := make([]*entity.Installment, count)
	for i := 0; i < count; i++ {
		number := i + 1
		inst := &entity.Installment{
			ID:        uuid.New(),
			ExpenseID: input.ExpenseID,
			Amount:    amounts[i],
			Number:    number,
			Total:     count,
			CreatedAt: now,
		}

		if input.PaymentMethod.SettlesImmediately() {
			inst.DueDate = input.Date
			inst.Paid = true
		} else {
			inst.DueDate = valueobject.InstallmentDueDate(input.Date, number, s.billingDay)
		}

		installments[i] = inst
	}

	return installments, nil
}

// SplitAmount divides total into parts shares rounded to the minor unit.
// The last share is total minus the sum of the others, so the shares always
// add up to total exactly. It fails with ErrAmountTooSmallForInstallments
// when that rule leaves a share at zero or below, e.g. 0.01 in 2 parts or
// 1.00 in 40 parts (0.03 each leaves -0.17 for the last).
func SplitAmount(total decimal.Decimal, parts int) ([]decimal.Decimal, error) {
	if parts < 1 {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidInstallmentCount,
			"cannot split into less than one part",
			domainerror.ErrInvalidInstallmentCount,
		)
	}

	share := total.Div(decimal.NewFromInt(int64(parts))).Round(minorUnitPlaces)
	shares := make([]decimal.Decimal, parts)
	allocated := decimal.Zero
	for i := 0; i < parts-1; i++ {
		shares[i] = share
		allocated = allocated.Add(share)
	}
	shares[parts-1] = total.Sub(allocated)

	if !share.IsPositive() || !shares[parts-1].IsPositive() {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeAmountTooSmall,
			fmt.Sprintf("%s cannot be split into %d parts of at least one cent", total.StringFixed(minorUnitPlaces), parts),
			domainerror.ErrAmountTooSmallForInstallments,
		)
	}

	return shares, nil
}
