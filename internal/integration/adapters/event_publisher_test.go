package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contacerta/backend/internal/application/adapter"
)

type fakeWriter struct {
	messages    []kafka.Message
	err         error
	hadDeadline bool
	closed      bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, w.hadDeadline = ctx.Deadline()
	w.messages = append(w.messages, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaEventPublisher_PublishExpenseEvent(t *testing.T) {
	writer := &fakeWriter{}
	publisher := newKafkaEventPublisher(writer, time.Second)

	cardID := uuid.New()
	event := adapter.ExpenseEvent{
		Type:             adapter.ExpenseEventCreated,
		ExpenseID:        uuid.New(),
		OwnerID:          uuid.New(),
		Amount:           decimal.RequireFromString("1000.00"),
		PaymentMethod:    "CREDIT",
		InstallmentCount: 3,
		CardID:           &cardID,
		OccurredAt:       time.Date(2024, time.November, 15, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, publisher.PublishExpenseEvent(context.Background(), event))
	require.Len(t, writer.messages, 1)
	assert.True(t, writer.hadDeadline)

	msg := writer.messages[0]
	assert.Equal(t, event.OwnerID.String(), string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "expense.created", string(msg.Headers[0].Value))

	var decoded adapter.ExpenseEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ExpenseID, decoded.ExpenseID)
	assert.True(t, event.Amount.Equal(decoded.Amount))
	assert.Equal(t, 3, decoded.InstallmentCount)

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestKafkaEventPublisher_WriteFailure(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker unavailable")}
	publisher := newKafkaEventPublisher(writer, 0)

	err := publisher.PublishExpenseEvent(context.Background(), adapter.ExpenseEvent{Type: adapter.ExpenseEventDeleted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expense.deleted")
	assert.False(t, writer.hadDeadline)
}

func TestNoopEventPublisher(t *testing.T) {
	assert.NoError(t, NoopEventPublisher{}.PublishExpenseEvent(context.Background(), adapter.ExpenseEvent{}))
}
