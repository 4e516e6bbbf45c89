package card_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/application/allocation"
	"github.com/contacerta/backend/internal/application/usecase/card"
	"github.com/contacerta/backend/internal/application/usecase/expense"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/domain/valueobject"
	"github.com/contacerta/backend/internal/integration/persistence/memory"
)

func TestCreateCardUseCase(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := card.NewCreateCardUseCase(store.Cards())
	ownerID := uuid.New()

	t.Run("creates card with full remaining limit", func(t *testing.T) {
		out, err := uc.Execute(ctx, card.CreateCardInput{
			OwnerID:        ownerID,
			Bank:           " Nubank ",
			LastFourDigits: "1234",
			TotalLimit:     decimal.RequireFromString("2500.50"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Card.Bank != "Nubank" {
			t.Errorf("expected trimmed bank, got %q", out.Card.Bank)
		}
		if !out.Card.RemainingLimit.Equal(out.Card.TotalLimit) {
			t.Errorf("expected remaining %s to equal total %s", out.Card.RemainingLimit, out.Card.TotalLimit)
		}
	})

	tests := []struct {
		name    string
		input   card.CreateCardInput
		wantErr error
	}{
		{
			name:    "missing bank",
			input:   card.CreateCardInput{OwnerID: ownerID, LastFourDigits: "1234", TotalLimit: decimal.NewFromInt(10)},
			wantErr: domainerror.ErrInvalidCardDetails,
		},
		{
			name:    "bad last digits",
			input:   card.CreateCardInput{OwnerID: ownerID, Bank: "Inter", LastFourDigits: "12a4", TotalLimit: decimal.NewFromInt(10)},
			wantErr: domainerror.ErrInvalidCardDetails,
		},
		{
			name:    "negative limit",
			input:   card.CreateCardInput{OwnerID: ownerID, Bank: "Inter", LastFourDigits: "1234", TotalLimit: decimal.NewFromInt(-1)},
			wantErr: domainerror.ErrInvalidCardLimit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUpdateCardUseCase_TotalLimit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	policy := valueobject.DefaultBillingPolicy()
	ownerID := uuid.New()

	created, err := card.NewCreateCardUseCase(store.Cards()).Execute(ctx, card.CreateCardInput{
		OwnerID: ownerID, Bank: "Itaú", LastFourDigits: "9876", TotalLimit: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cardID := created.Card.ID

	_, err = expense.NewCreateExpenseUseCase(store, expense.NewCoordinator(policy), nil).Execute(ctx, expense.ExpenseInput{
		OwnerID:          ownerID,
		Amount:           decimal.NewFromInt(600),
		Description:      "TV",
		Date:             time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC),
		PaymentMethod:    entity.PaymentMethodCredit,
		InstallmentCount: 6,
		CardID:           &cardID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	uc := card.NewUpdateCardUseCase(store, allocation.NewLedger(policy))

	t.Run("raising the limit keeps the used part", func(t *testing.T) {
		newLimit := decimal.NewFromInt(1500)
		bank := "Itaú Personnalité"
		out, err := uc.Execute(ctx, card.UpdateCardInput{CardID: cardID, OwnerID: ownerID, TotalLimit: &newLimit, Bank: &bank})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Card.RemainingLimit.Equal(decimal.NewFromInt(900)) {
			t.Errorf("expected remaining 900, got %s", out.Card.RemainingLimit)
		}
		if !out.Card.UsedLimit().Equal(decimal.NewFromInt(600)) {
			t.Errorf("expected used 600, got %s", out.Card.UsedLimit())
		}
		if out.Card.Bank != bank {
			t.Errorf("expected bank %q, got %q", bank, out.Card.Bank)
		}
	})

	t.Run("limit below used amount is rejected atomically", func(t *testing.T) {
		newLimit := decimal.NewFromInt(500)
		digits := "1111"
		_, err := uc.Execute(ctx, card.UpdateCardInput{CardID: cardID, OwnerID: ownerID, TotalLimit: &newLimit, LastFourDigits: &digits})
		if !errors.Is(err, domainerror.ErrInsufficientLimit) {
			t.Fatalf("expected ErrInsufficientLimit, got %v", err)
		}
		stored, _ := store.Cards().FindByID(ctx, cardID)
		if stored.LastFourDigits != "9876" {
			t.Errorf("expected details to be rolled back, got %q", stored.LastFourDigits)
		}
		if !stored.TotalLimit.Equal(decimal.NewFromInt(1500)) {
			t.Errorf("expected total 1500, got %s", stored.TotalLimit)
		}
	})

	t.Run("other owners are rejected", func(t *testing.T) {
		bank := "x"
		_, err := uc.Execute(ctx, card.UpdateCardInput{CardID: cardID, OwnerID: uuid.New(), Bank: &bank})
		if !errors.Is(err, domainerror.ErrNotAuthorizedToModifyCard) {
			t.Errorf("expected ErrNotAuthorizedToModifyCard, got %v", err)
		}
	})

	t.Run("card in use cannot be deleted", func(t *testing.T) {
		_, err := card.NewDeleteCardUseCase(store).Execute(ctx, card.DeleteCardInput{CardID: cardID, OwnerID: ownerID})
		if !errors.Is(err, domainerror.ErrCardInUse) {
			t.Errorf("expected ErrCardInUse, got %v", err)
		}
	})
}

func TestDeleteCardUseCase(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ownerID := uuid.New()

	created, err := card.NewCreateCardUseCase(store.Cards()).Execute(ctx, card.CreateCardInput{
		OwnerID: ownerID, Bank: "C6", LastFourDigits: "0001", TotalLimit: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	leftover := entity.NewInvoice(created.Card.ID, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, time.June, 6, 0, 0, 0, 0, time.UTC))
	if err := store.Invoices().Create(ctx, leftover); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := card.NewDeleteCardUseCase(store).Execute(ctx, card.DeleteCardInput{CardID: created.Card.ID, OwnerID: ownerID})
	if err != nil || !out.Success {
		t.Fatalf("expected success, got %v", err)
	}

	if _, err := store.Cards().FindByID(ctx, created.Card.ID); !errors.Is(err, domainerror.ErrCardNotFound) {
		t.Errorf("expected card to be deleted, got %v", err)
	}
	if _, err := store.Invoices().FindByID(ctx, leftover.ID); !errors.Is(err, domainerror.ErrInvoiceNotFound) {
		t.Errorf("expected invoices to be deleted, got %v", err)
	}

	list, err := card.NewListCardsUseCase(store.Cards()).Execute(ctx, card.ListCardsInput{OwnerID: ownerID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Cards) != 0 {
		t.Errorf("expected no cards, got %d", len(list.Cards))
	}
}
