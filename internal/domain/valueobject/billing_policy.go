// Package valueobject contains domain value objects for the ContaCerta system.
package valueobject

import "fmt"

// LimitPolicy decides what happens when a debit would drive a card's
// remaining limit below zero.
type LimitPolicy string

const (
	// LimitPolicyReject fails the debit with ErrInsufficientLimit.
	LimitPolicyReject LimitPolicy = "reject"
	// LimitPolicyAllow lets the remaining limit go negative.
	LimitPolicyAllow LimitPolicy = "allow"
)

const (
	// DefaultBillingDay is the day of month installments and invoices fall due.
	DefaultBillingDay = 6
	// MaxBillingDay keeps the billing day valid in every month.
	MaxBillingDay = 28
	// MaxInstallmentCount caps how many monthly installments one credit
	// purchase may be split into.
	MaxInstallmentCount = 48
)

// BillingPolicy contains the tunables of the allocation engine.
type BillingPolicy struct {
	// Day of month on which credit installments and invoices are due (1..28).
	BillingDay int

	// Negative remaining limit handling.
	LimitPolicy LimitPolicy

	// Delete invoices left without installments instead of keeping
	// them as zero-total history.
	PruneEmptyInvoices bool
}

// DefaultBillingPolicy returns the default billing policy.
func DefaultBillingPolicy() BillingPolicy {
	return BillingPolicy{
		BillingDay:         DefaultBillingDay,
		LimitPolicy:        LimitPolicyReject,
		PruneEmptyInvoices: false,
	}
}

// Validate checks the policy values.
func (p BillingPolicy) Validate() error {
	if p.BillingDay < 1 || p.BillingDay > MaxBillingDay {
		return fmt.Errorf("billing day must be between 1 and %d, got %d", MaxBillingDay, p.BillingDay)
	}
	if !p.LimitPolicy.IsValid() {
		return fmt.Errorf("unknown limit policy %q", p.LimitPolicy)
	}
	return nil
}

// IsValid reports whether the limit policy is a known value.
func (l LimitPolicy) IsValid() bool {
	return l == LimitPolicyReject || l == LimitPolicyAllow
}

// AllowsNegative reports whether a remaining limit may drop below zero.
func (l LimitPolicy) AllowsNegative() bool {
	return l == LimitPolicyAllow
}
