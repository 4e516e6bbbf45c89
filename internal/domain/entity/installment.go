package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment is one scheduled portion of an expense's amount.
type Installment struct {
	ID        uuid.UUID
	ExpenseID uuid.UUID
	Amount    decimal.Decimal
	DueDate   time.Time
	Number    int // 1..Total
	Total     int
	Paid      bool
	InvoiceID *uuid.UUID
	CreatedAt time.Time
}

// SumInstallments returns the total amount of the given installments.
func SumInstallments(installments []*Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range installments {
		total = total.Add(inst.Amount)
	}
	return total
}
