package allocation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/domain/valueobject"
)

// maxAttachAttempts bounds the fetch-or-insert loop when invoice creation races.
const maxAttachAttempts = 3

// Aggregator maps installments to the invoice of their card and reference month.
type Aggregator struct {
	billingDay int
	prune      bool
}

// NewAggregator creates an aggregator for the given policy.
func NewAggregator(policy valueobject.BillingPolicy) *Aggregator {
	return &Aggregator{
		billingDay: policy.BillingDay,
		prune:      policy.PruneEmptyInvoices,
	}
}

// Attach adds the installment to the card's invoice for the month preceding
// its due date, creating the invoice on first use. The invoice total is
// incremented in a single update.
func (a *Aggregator) Attach(
	ctx context.Context,
	repos adapter.Repositories,
	installment *entity.Installment,
	cardID uuid.UUID,
) (*entity.Invoice, error) {
	referenceMonth := valueobject.ReferenceMonth(installment.DueDate)

	invoice, err := a.findOrCreate(ctx, repos.Invoices(), cardID, referenceMonth)
	if err != nil {
		return nil, err
	}

	if err := repos.Invoices().AddToTotal(ctx, invoice.ID, installment.Amount); err != nil {
		return nil, err
	}
	if err := repos.Installments().SetInvoice(ctx, installment.ID, &invoice.ID); err != nil {
		return nil, err
	}

	invoice.TotalAmount = invoice.TotalAmount.Add(installment.Amount)
	invoiceID := invoice.ID
	installment.InvoiceID = &invoiceID

	return invoice, nil
}

// Detach removes the installment from its invoice and decrements the total.
// Installments without an invoice are left alone. When pruning is enabled
// an invoice left without installments is deleted.
func (a *Aggregator) Detach(ctx context.Context, repos adapter.Repositories, installment *entity.Installment) error {
	if installment.InvoiceID == nil {
		return nil
	}
	invoiceID := *installment.InvoiceID

	if err := repos.Invoices().AddToTotal(ctx, invoiceID, installment.Amount.Neg()); err != nil {
		return err
	}
	if err := repos.Installments().SetInvoice(ctx, installment.ID, nil); err != nil {
		return err
	}
	installment.InvoiceID = nil

	if !a.prune {
		return nil
	}

	remaining, err := repos.Installments().CountByInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		slog.Debug("Pruning empty invoice", "invoiceID", invoiceID)
		return repos.Invoices().Delete(ctx, invoiceID)
	}
	return nil
}

// findOrCreate returns the invoice for (cardID, referenceMonth). A unique
// violation on insert means another unit of work created it first, so the
// invoice is fetched again instead of being inserted twice.
func (a *Aggregator) findOrCreate(
	ctx context.Context,
	invoices adapter.InvoiceRepository,
	cardID uuid.UUID,
	referenceMonth time.Time,
) (*entity.Invoice, error) {
	for attempt := 1; attempt <= maxAttachAttempts; attempt++ {
		invoice, err := invoices.FindByCardAndMonth(ctx, cardID, referenceMonth)
		if err == nil {
			return invoice, nil
		}
		if !errors.Is(err, domainerror.ErrInvoiceNotFound) {
			return nil, err
		}

		invoice = entity.NewInvoice(cardID, referenceMonth, valueobject.InvoiceDueDate(referenceMonth, a.billingDay))
		err = invoices.Create(ctx, invoice)
		if err == nil {
			return invoice, nil
		}
		if !errors.Is(err, domainerror.ErrInvoiceConflict) {
			return nil, err
		}

		slog.Debug("Invoice created concurrently, fetching again",
			"cardID", cardID,
			"referenceMonth", valueobject.FormatBillingCycle(referenceMonth),
			"attempt", attempt,
		)
	}

	return nil, domainerror.NewExpenseError(
		domainerror.ErrCodeInvoiceConflict,
		"could not resolve invoice for card and reference month",
		domainerror.ErrInvoiceConflict,
	)
}
