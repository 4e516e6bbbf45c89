package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseEventType identifies an expense lifecycle event.
type ExpenseEventType string

const (
	ExpenseEventCreated ExpenseEventType = "expense.created"
	ExpenseEventUpdated ExpenseEventType = "expense.updated"
	ExpenseEventDeleted ExpenseEventType = "expense.deleted"
)

// ExpenseEvent is published after an expense unit of work commits.
type ExpenseEvent struct {
	Type             ExpenseEventType `json:"type"`
	ExpenseID        uuid.UUID        `json:"expense_id"`
	OwnerID          uuid.UUID        `json:"owner_id"`
	Amount           decimal.Decimal  `json:"amount"`
	PaymentMethod    string           `json:"payment_method"`
	InstallmentCount int              `json:"installment_count"`
	CardID           *uuid.UUID       `json:"card_id,omitempty"`
	OccurredAt       time.Time        `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing expense events.
type EventPublisher interface {
	// PublishExpenseEvent publishes an event. Implementations must not block for long.
	PublishExpenseEvent(ctx context.Context, event ExpenseEvent) error
}
