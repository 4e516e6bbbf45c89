package adapter

import "context"

// Repositories groups the repositories taking part in an expense unit of work.
// Inside UnitOfWork.Do every repository shares the same transaction.
type Repositories interface {
	Expenses() ExpenseRepository
	Installments() InstallmentRepository
	Invoices() InvoiceRepository
	Cards() CardRepository
	Categories() CategoryRepository
}

// UnitOfWork runs a function atomically against the shared store.
// If fn returns an error (or panics) every write made through repos is rolled back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}
