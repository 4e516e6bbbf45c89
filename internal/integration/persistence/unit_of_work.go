package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/contacerta/backend/internal/application/adapter"
)

// repositories binds every repository to the same gorm handle.
type repositories struct {
	db *gorm.DB
}

// NewRepositories returns repositories that run on db, which may be a transaction.
func NewRepositories(db *gorm.DB) adapter.Repositories {
	return &repositories{db: db}
}

func (r *repositories) Expenses() adapter.ExpenseRepository {
	return NewExpenseRepository(r.db)
}

func (r *repositories) Installments() adapter.InstallmentRepository {
	return NewInstallmentRepository(r.db)
}

func (r *repositories) Invoices() adapter.InvoiceRepository {
	return NewInvoiceRepository(r.db)
}

func (r *repositories) Cards() adapter.CardRepository {
	return NewCardRepository(r.db)
}

func (r *repositories) Categories() adapter.CategoryRepository {
	return NewCategoryRepository(r.db)
}

// unitOfWork implements adapter.UnitOfWork on top of gorm transactions.
type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a unit of work backed by db.
func NewUnitOfWork(db *gorm.DB) adapter.UnitOfWork {
	return &unitOfWork{db: db}
}

// Do runs fn in a single database transaction. The transaction commits when
// fn returns nil and rolls back on error or panic.
func (u *unitOfWork) Do(ctx context.Context, fn func(repos adapter.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
