package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/integration/persistence/model"
)

// installmentRepository implements the adapter.InstallmentRepository interface.
type installmentRepository struct {
	db *gorm.DB
}

// NewInstallmentRepository creates a new installment repository instance.
func NewInstallmentRepository(db *gorm.DB) adapter.InstallmentRepository {
	return &installmentRepository{
		db: db,
	}
}

// CreateBatch inserts all installments of an expense.
func (r *installmentRepository) CreateBatch(ctx context.Context, installments []*entity.Installment) error {
	if len(installments) == 0 {
		return nil
	}

	models := make([]*model.InstallmentModel, len(installments))
	for i, inst := range installments {
		models[i] = model.InstallmentFromEntity(inst)
	}

	result := r.db.WithContext(ctx).Omit("Expense", "Invoice").Create(&models)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves an installment by its ID.
func (r *installmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Installment, error) {
	var installmentModel model.InstallmentModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&installmentModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrInstallmentNotFound
		}
		return nil, result.Error
	}
	return installmentModel.ToEntity(), nil
}

// FindByExpense retrieves the installments of an expense ordered by number.
func (r *installmentRepository) FindByExpense(ctx context.Context, expenseID uuid.UUID) ([]*entity.Installment, error) {
	return r.find(r.db.WithContext(ctx).
		Where("expense_id = ?", expenseID).
		Order("number ASC"))
}

// FindByExpenses retrieves the installments of several expenses.
func (r *installmentRepository) FindByExpenses(ctx context.Context, expenseIDs []uuid.UUID) ([]*entity.Installment, error) {
	if len(expenseIDs) == 0 {
		return []*entity.Installment{}, nil
	}
	return r.find(r.db.WithContext(ctx).
		Where("expense_id IN ?", expenseIDs).
		Order("expense_id ASC, number ASC"))
}

// FindByInvoice retrieves the installments linked to an invoice.
func (r *installmentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*entity.Installment, error) {
	return r.find(r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("due_date ASC, expense_id ASC, number ASC"))
}

func (r *installmentRepository) find(query *gorm.DB) ([]*entity.Installment, error) {
	var installmentModels []model.InstallmentModel
	if err := query.Find(&installmentModels).Error; err != nil {
		return nil, err
	}

	installments := make([]*entity.Installment, len(installmentModels))
	for i, im := range installmentModels {
		installments[i] = im.ToEntity()
	}
	return installments, nil
}

// SetInvoice links an installment to an invoice, or unlinks it when invoiceID is nil.
func (r *installmentRepository) SetInvoice(ctx context.Context, installmentID uuid.UUID, invoiceID *uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.InstallmentModel{}).
		Where("id = ?", installmentID).
		Update("invoice_id", invoiceID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrExpenseNotFound
	}
	return nil
}

// SetPaid updates the paid flag of an installment.
func (r *installmentRepository) SetPaid(ctx context.Context, installmentID uuid.UUID, paid bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.InstallmentModel{}).
		Where("id = ?", installmentID).
		Update("paid", paid)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrInstallmentNotFound
	}
	return nil
}

// CountByInvoice counts the installments linked to an invoice.
func (r *installmentRepository) CountByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.InstallmentModel{}).Where("invoice_id = ?", invoiceID).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// DeleteByExpense removes every installment of an expense.
func (r *installmentRepository) DeleteByExpense(ctx context.Context, expenseID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.InstallmentModel{}, "expense_id = ?", expenseID)
	if result.Error != nil {
		return result.Error
	}
	return nil
}
