package valueobject

import (
	"fmt"
	"time"
)

// MonthStart returns midnight UTC of the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// InstallmentDueDate returns the due date of the installment number-th
// (1-indexed) of a credit purchase made on purchaseDate: the billing day
// of the month number months after the purchase.
func InstallmentDueDate(purchaseDate time.Time, number, billingDay int) time.Time {
	return time.Date(purchaseDate.Year(), purchaseDate.Month()+time.Month(number), billingDay, 0, 0, 0, 0, time.UTC)
}

// ReferenceMonth returns the billing-cycle month an installment due on
// dueDate belongs to: the first day of the month preceding the due date.
func ReferenceMonth(dueDate time.Time) time.Time {
	return time.Date(dueDate.Year(), dueDate.Month()-1, 1, 0, 0, 0, 0, time.UTC)
}

// InvoiceDueDate returns the due date of the invoice closing in
// referenceMonth: the billing day of the following month.
func InvoiceDueDate(referenceMonth time.Time, billingDay int) time.Time {
	return time.Date(referenceMonth.Year(), referenceMonth.Month()+1, billingDay, 0, 0, 0, 0, time.UTC)
}

// FormatBillingCycle formats a reference month as YYYY-MM.
func FormatBillingCycle(referenceMonth time.Time) string {
	return fmt.Sprintf("%04d-%02d", referenceMonth.Year(), int(referenceMonth.Month()))
}

// FormatBillingCycleDisplay formats a reference month for display (e.g., "Nov/2024").
func FormatBillingCycleDisplay(referenceMonth time.Time) string {
	monthNames := []string{
		"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
		"Jul", "Ago", "Set", "Out", "Nov", "Dez",
	}
	return fmt.Sprintf("%s/%04d", monthNames[referenceMonth.Month()-1], referenceMonth.Year())
}

// ParseBillingCycle parses a YYYY-MM billing cycle into its reference month.
func ParseBillingCycle(cycle string) (time.Time, error) {
	t, err := time.Parse("2006-01", cycle)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid billing cycle %q: %w", cycle, err)
	}
	return MonthStart(t), nil
}
