package expense

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
)

// MarkInstallmentPaidInput represents the input for settling or reopening an installment.
type MarkInstallmentPaidInput struct {
	InstallmentID uuid.UUID
	OwnerID       uuid.UUID
	Paid          bool
}

// MarkInstallmentPaidUseCase records payment of a single installment.
// The card's remaining limit is left untouched: an installment counts against
// the limit until its expense is deleted, whether it was paid or not.
type MarkInstallmentPaidUseCase struct {
	expenseRepo     adapter.ExpenseRepository
	installmentRepo adapter.InstallmentRepository
}

// NewMarkInstallmentPaidUseCase creates a new MarkInstallmentPaidUseCase instance.
func NewMarkInstallmentPaidUseCase(
	expenseRepo adapter.ExpenseRepository,
	installmentRepo adapter.InstallmentRepository,
) *MarkInstallmentPaidUseCase {
	return &MarkInstallmentPaidUseCase{
		expenseRepo:     expenseRepo,
		installmentRepo: installmentRepo,
	}
}

// Execute sets the paid flag and returns the updated installment.
func (uc *MarkInstallmentPaidUseCase) Execute(ctx context.Context, input MarkInstallmentPaidInput) (*entity.Installment, error) {
	installment, err := uc.installmentRepo.FindByID(ctx, input.InstallmentID)
	if err != nil {
		if errors.Is(err, domainerror.ErrInstallmentNotFound) {
			return nil, installmentNotFound()
		}
		return nil, fmt.Errorf("failed to find installment: %w", err)
	}

	if _, err := loadOwnedExpense(ctx, uc.expenseRepo, installment.ExpenseID, input.OwnerID); err != nil {
		return nil, err
	}

	if installment.Paid == input.Paid {
		return installment, nil
	}

	if err := uc.installmentRepo.SetPaid(ctx, installment.ID, input.Paid); err != nil {
		if errors.Is(err, domainerror.ErrInstallmentNotFound) {
			return nil, installmentNotFound()
		}
		return nil, fmt.Errorf("failed to update installment: %w", err)
	}

	installment.Paid = input.Paid
	return installment, nil
}

func installmentNotFound() error {
	return domainerror.NewExpenseError(
		domainerror.ErrCodeInstallmentMissing,
		"installment not found",
		domainerror.ErrInstallmentNotFound,
	)
}
