package allocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/application/allocation"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/domain/valueobject"
	"github.com/contacerta/backend/internal/integration/persistence/memory"
)

func scheduleCredit(t *testing.T, store *memory.Store, amount string, count int, purchase time.Time) []*entity.Installment {
	t.Helper()
	scheduler := allocation.NewScheduler(valueobject.DefaultBillingPolicy())
	installments, err := scheduler.Schedule(allocation.ScheduleInput{
		ExpenseID:        uuid.New(),
		Amount:           decimal.RequireFromString(amount),
		InstallmentCount: count,
		Date:             purchase,
		PaymentMethod:    entity.PaymentMethodCredit,
	})
	require.NoError(t, err)
	require.NoError(t, store.Installments().CreateBatch(context.Background(), installments))
	return installments
}

func TestAggregator_Attach_SharesMonthlyInvoice(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	card := newCard(t, store, "5000")
	aggregator := allocation.NewAggregator(valueobject.DefaultBillingPolicy())

	first := scheduleCredit(t, store, "300", 3, date(2024, time.November, 10))
	second := scheduleCredit(t, store, "50", 1, date(2024, time.November, 28))

	for _, inst := range append(first, second...) {
		_, err := aggregator.Attach(ctx, store, inst, card.ID)
		require.NoError(t, err)
		require.NotNil(t, inst.InvoiceID)
	}

	invoices, err := store.Invoices().FindByCard(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 3)

	december := invoices[0]
	assert.Equal(t, date(2024, time.November, 1), december.ReferenceMonth)
	assert.Equal(t, date(2024, time.December, 6), december.DueDate)
	assert.True(t, december.TotalAmount.Equal(decimal.NewFromInt(150)), "got %s", december.TotalAmount)
	assert.Equal(t, december.ID, *first[0].InvoiceID)
	assert.Equal(t, december.ID, *second[0].InvoiceID)

	assert.Equal(t, date(2024, time.December, 1), invoices[1].ReferenceMonth)
	assert.True(t, invoices[1].TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, date(2025, time.January, 1), invoices[2].ReferenceMonth)

	attached, err := store.Installments().FindByInvoice(ctx, december.ID)
	require.NoError(t, err)
	assert.Len(t, attached, 2)
	assert.True(t, entity.SumInstallments(attached).Equal(december.TotalAmount))
}

func TestAggregator_Attach_RetriesAfterConcurrentInsert(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	card := newCard(t, store, "5000")
	aggregator := allocation.NewAggregator(valueobject.DefaultBillingPolicy())
	inst := scheduleCredit(t, store, "80", 1, date(2024, time.June, 2))[0]

	store.RaceInvoiceCreation(1)
	invoice, err := aggregator.Attach(ctx, store, inst, card.ID)
	require.NoError(t, err)

	invoices, err := store.Invoices().FindByCard(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, invoices[0].ID, invoice.ID)
	assert.True(t, invoices[0].TotalAmount.Equal(decimal.NewFromInt(80)))
}

type conflictingInvoices struct {
	adapter.InvoiceRepository
}

func (conflictingInvoices) FindByCardAndMonth(context.Context, uuid.UUID, time.Time) (*entity.Invoice, error) {
	return nil, domainerror.ErrInvoiceNotFound
}

func (conflictingInvoices) Create(context.Context, *entity.Invoice) error {
	return domainerror.ErrInvoiceConflict
}

type reposWithInvoices struct {
	adapter.Repositories
	invoices adapter.InvoiceRepository
}

func (r reposWithInvoices) Invoices() adapter.InvoiceRepository { return r.invoices }

func TestAggregator_Attach_GivesUpAfterRepeatedConflicts(t *testing.T) {
	store := memory.NewStore()
	aggregator := allocation.NewAggregator(valueobject.DefaultBillingPolicy())
	inst := scheduleCredit(t, store, "80", 1, date(2024, time.June, 2))[0]

	repos := reposWithInvoices{Repositories: store, invoices: conflictingInvoices{store.Invoices()}}
	_, err := aggregator.Attach(context.Background(), repos, inst, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerror.ErrInvoiceConflict)

	var expenseErr *domainerror.ExpenseError
	require.ErrorAs(t, err, &expenseErr)
	assert.Equal(t, domainerror.ErrCodeInvoiceConflict, expenseErr.Code)
	assert.Nil(t, inst.InvoiceID)
}

func TestAggregator_Detach(t *testing.T) {
	ctx := context.Background()

	for _, prune := range []bool{false, true} {
		name := "keeps empty invoice"
		if prune {
			name = "prunes empty invoice"
		}
		t.Run(name, func(t *testing.T) {
			store := memory.NewStore()
			card := newCard(t, store, "5000")
			policy := valueobject.DefaultBillingPolicy()
			policy.PruneEmptyInvoices = prune
			aggregator := allocation.NewAggregator(policy)

			insts := scheduleCredit(t, store, "40", 2, date(2024, time.January, 5))
			_, err := aggregator.Attach(ctx, store, insts[0], card.ID)
			require.NoError(t, err)
			invoiceID := *insts[0].InvoiceID

			require.NoError(t, aggregator.Detach(ctx, store, insts[0]))
			assert.Nil(t, insts[0].InvoiceID)

			invoice, err := store.Invoices().FindByID(ctx, invoiceID)
			if prune {
				assert.ErrorIs(t, err, domainerror.ErrInvoiceNotFound)
				return
			}
			require.NoError(t, err)
			assert.True(t, invoice.TotalAmount.IsZero())

			// Unattached installments are ignored.
			require.NoError(t, aggregator.Detach(ctx, store, insts[1]))
		})
	}
}
