package allocation

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
	"github.com/contacerta/backend/internal/domain/valueobject"
)

// Ledger applies and reverses the remaining-limit effect of credit expenses.
// A credit expense reserves its whole amount once, regardless of how many
// installments it is split into.
type Ledger struct {
	policy valueobject.LimitPolicy
}

// NewLedger creates a ledger enforcing the policy's negative-limit rule.
func NewLedger(policy valueobject.BillingPolicy) *Ledger {
	return &Ledger{policy: policy.LimitPolicy}
}

// Debit reserves amount on the card's remaining limit.
func (l *Ledger) Debit(ctx context.Context, cards adapter.CardRepository, cardID uuid.UUID, amount decimal.Decimal) error {
	return l.apply(ctx, cards, cardID, amount.Neg())
}

// Credit releases amount back to the card's remaining limit.
func (l *Ledger) Credit(ctx context.Context, cards adapter.CardRepository, cardID uuid.UUID, amount decimal.Decimal) error {
	return l.apply(ctx, cards, cardID, amount)
}

// Rebalance moves a card's reservation from the before state of an expense
// to its after state. Changes on the same card are netted into a single
// update, so no intermediate limit is ever written.
func (l *Ledger) Rebalance(ctx context.Context, cards adapter.CardRepository, before, after *entity.Expense) error {
	deltas := make(map[uuid.UUID]decimal.Decimal)
	if before != nil && before.ChargesCard() {
		deltas[*before.CardID] = deltas[*before.CardID].Add(before.Amount)
	}
	if after != nil && after.ChargesCard() {
		deltas[*after.CardID] = deltas[*after.CardID].Sub(after.Amount)
	}

	// Fixed order keeps concurrent rebalances from deadlocking on row locks.
	cardIDs := make([]uuid.UUID, 0, len(deltas))
	for id := range deltas {
		cardIDs = append(cardIDs, id)
	}
	sort.Slice(cardIDs, func(i, j int) bool {
		return cardIDs[i].String() < cardIDs[j].String()
	})

	for _, id := range cardIDs {
		if err := l.apply(ctx, cards, id, deltas[id]); err != nil {
			return err
		}
	}
	return nil
}

// AdjustTotal changes a card's total limit and moves the remaining limit by
// the same amount, keeping the reserved part untouched.
func (l *Ledger) AdjustTotal(ctx context.Context, cards adapter.CardRepository, cardID uuid.UUID, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	adjustment := adapter.LimitAdjustment{Total: delta, Remaining: delta}
	return cards.AdjustLimits(ctx, cardID, adjustment, l.policy.AllowsNegative())
}

func (l *Ledger) apply(ctx context.Context, cards adapter.CardRepository, cardID uuid.UUID, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	adjustment := adapter.LimitAdjustment{Total: decimal.Zero, Remaining: delta}
	return cards.AdjustLimits(ctx, cardID, adjustment, l.policy.AllowsNegative())
}
