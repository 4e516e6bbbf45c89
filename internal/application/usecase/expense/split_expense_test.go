package expense_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contacerta/backend/internal/application/usecase/expense"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/domain/valueobject"
)

type stubUsers map[uuid.UUID]*entity.User

func (s stubUsers) Create(_ context.Context, user *entity.User) error {
	s[user.ID] = user
	return nil
}

func (s stubUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, domainerror.ErrUserNotFound
}

func (s stubUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range s {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (s stubUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return err == nil, nil
}

func newSplitUseCase(f *fixture, users stubUsers) *expense.SplitExpenseUseCase {
	coordinator := expense.NewCoordinator(valueobject.DefaultBillingPolicy())
	return expense.NewSplitExpenseUseCase(f.store, users, coordinator, f.events)
}

func TestSplitExpense(t *testing.T) {
	f := newFixture(t, valueobject.DefaultBillingPolicy())
	ana := entity.NewUser("ana@example.com", "Ana", "hash")
	bruno := entity.NewUser("bruno@example.com", "Bruno", "hash")
	users := stubUsers{ana.ID: ana, bruno.ID: bruno}
	split := newSplitUseCase(f, users)

	category := entity.NewCategory(f.ownerID, "Viagem", "", entity.DefaultCategoryColor)
	require.NoError(t, f.store.Categories().Create(f.ctx, category))

	purchase := f.creditInput("100", 2)
	purchase.CategoryID = &category.ID

	out, err := split.Execute(f.ctx, expense.SplitExpenseInput{
		Purchase:       purchase,
		ParticipantIDs: []uuid.UUID{ana.ID, bruno.ID},
	})
	require.NoError(t, err)
	require.Len(t, out.Expenses, 3)

	payer := out.Expenses[0]
	assert.Equal(t, f.ownerID, payer.Expense.OwnerID)
	assert.True(t, payer.Expense.Amount.Equal(amountOf("33.33")))
	assert.Equal(t, entity.PaymentMethodCredit, payer.Expense.PaymentMethod)
	assert.Equal(t, category.ID, *payer.Expense.CategoryID)
	assert.Len(t, payer.Installments, 2)
	assert.Len(t, payer.LinkedInvoiceIDs, 2)
	assert.True(t, f.remaining(t).Equal(amountOf("4966.67")))

	wantShares := map[uuid.UUID]string{ana.ID: "33.33", bruno.ID: "33.34"}
	for _, share := range out.Expenses[1:] {
		assert.True(t, share.Expense.Amount.Equal(amountOf(wantShares[share.Expense.OwnerID])))
		assert.Equal(t, entity.PaymentMethodCash, share.Expense.PaymentMethod)
		assert.Nil(t, share.Expense.CardID)
		assert.Nil(t, share.Expense.CategoryID)
		require.Len(t, share.Installments, 1)
		assert.True(t, share.Installments[0].Paid)
	}

	for _, e := range out.Expenses {
		require.NotNil(t, e.Expense.SplitGroupID)
		assert.Equal(t, out.SplitGroupID, *e.Expense.SplitGroupID)
	}
	assert.Len(t, f.events.events, 3)
}

func TestSplitExpense_InvalidParticipants(t *testing.T) {
	f := newFixture(t, valueobject.DefaultBillingPolicy())
	ana := entity.NewUser("ana@example.com", "Ana", "hash")
	split := newSplitUseCase(f, stubUsers{ana.ID: ana})

	tests := []struct {
		name         string
		participants []uuid.UUID
		wantErr      error
	}{
		{name: "no participants", participants: nil, wantErr: domainerror.ErrInvalidSplit},
		{name: "payer listed", participants: []uuid.UUID{f.ownerID}, wantErr: domainerror.ErrInvalidSplit},
		{name: "duplicated", participants: []uuid.UUID{ana.ID, ana.ID}, wantErr: domainerror.ErrInvalidSplit},
		{name: "unknown user", participants: []uuid.UUID{ana.ID, uuid.New()}, wantErr: domainerror.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := split.Execute(f.ctx, expense.SplitExpenseInput{
				Purchase:       f.creditInput("100", 1),
				ParticipantIDs: tt.participants,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Zero(t, f.expenseCount(t))
	assert.True(t, f.remaining(t).Equal(amountOf("5000")))
}

func TestSplitExpense_RollsBackAllShares(t *testing.T) {
	f := newFixture(t, valueobject.DefaultBillingPolicy())
	ana := entity.NewUser("ana@example.com", "Ana", "hash")
	split := newSplitUseCase(f, stubUsers{ana.ID: ana})

	_, err := split.Execute(f.ctx, expense.SplitExpenseInput{
		Purchase:       f.creditInput("20000", 1),
		ParticipantIDs: []uuid.UUID{ana.ID},
	})
	assert.ErrorIs(t, err, domainerror.ErrInsufficientLimit)
	assert.Zero(t, f.expenseCount(t))
	assert.True(t, f.remaining(t).Equal(amountOf("5000")))
}
