// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how an expense was paid.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodPix    PaymentMethod = "PIX"
	PaymentMethodDebit  PaymentMethod = "DEBIT"
	PaymentMethodCredit PaymentMethod = "CREDIT"
)

// IsValid reports whether the payment method is a known value.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodPix, PaymentMethodDebit, PaymentMethodCredit:
		return true
	}
	return false
}

// RequiresCard reports whether expenses paid this way must reference a card.
func (m PaymentMethod) RequiresCard() bool {
	return m == PaymentMethodCredit || m == PaymentMethodDebit
}

// SettlesImmediately reports whether the expense is paid at purchase time.
func (m PaymentMethod) SettlesImmediately() bool {
	return m != PaymentMethodCredit
}

// Expense represents a single logged financial transaction.
type Expense struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Amount           decimal.Decimal
	Description      string
	Date             time.Time
	PaymentMethod    PaymentMethod
	InstallmentCount int
	CategoryID       *uuid.UUID // Optional
	CardID           *uuid.UUID // Required for CREDIT and DEBIT
	SplitGroupID     *uuid.UUID // Set when the expense is a share of a split purchase
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewExpense creates a new Expense entity.
func NewExpense(
	ownerID uuid.UUID,
	amount decimal.Decimal,
	description string,
	date time.Time,
	method PaymentMethod,
	installmentCount int,
	categoryID *uuid.UUID,
	cardID *uuid.UUID,
) *Expense {
	now := time.Now().UTC()

	return &Expense{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		Amount:           amount,
		Description:      description,
		Date:             date,
		PaymentMethod:    method,
		InstallmentCount: installmentCount,
		CategoryID:       categoryID,
		CardID:           cardID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ChargesCard reports whether the expense reserves credit on a card.
func (e *Expense) ChargesCard() bool {
	return e.PaymentMethod == PaymentMethodCredit && e.CardID != nil
}

// ExpenseAggregate is an expense together with its installments and the
// invoices those installments are attached to.
type ExpenseAggregate struct {
	Expense          *Expense
	Installments     []*Installment
	LinkedInvoiceIDs []uuid.UUID
}

// NewExpenseAggregate builds an aggregate, collecting the distinct invoice
// ids in installment order.
func NewExpenseAggregate(expense *Expense, installments []*Installment) *ExpenseAggregate {
	seen := make(map[uuid.UUID]struct{})
	invoiceIDs := make([]uuid.UUID, 0, len(installments))
	for _, inst := range installments {
		if inst.InvoiceID == nil {
			continue
		}
		if _, ok := seen[*inst.InvoiceID]; ok {
			continue
		}
		seen[*inst.InvoiceID] = struct{}{}
		invoiceIDs = append(invoiceIDs, *inst.InvoiceID)
	}

	return &ExpenseAggregate{
		Expense:          expense,
		Installments:     installments,
		LinkedInvoiceIDs: invoiceIDs,
	}
}

// ExpenseFilter defines filter options for listing expenses.
type ExpenseFilter struct {
	OwnerID   uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	CardID    *uuid.UUID
}
