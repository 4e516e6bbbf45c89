package category_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/application/usecase/category"
	"github.com/contacerta/backend/internal/application/usecase/expense"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/domain/valueobject"
	"github.com/contacerta/backend/internal/integration/persistence/memory"
)

func TestCategoryUseCases(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ownerID := uuid.New()

	create := category.NewCreateCategoryUseCase(store.Categories())
	update := category.NewUpdateCategoryUseCase(store.Categories())
	list := category.NewListCategoriesUseCase(store.Categories())
	del := category.NewDeleteCategoryUseCase(store.Categories())

	created, err := create.Execute(ctx, category.CreateCategoryInput{OwnerID: ownerID, Name: "Mercado"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Category.Color != entity.DefaultCategoryColor {
		t.Errorf("expected default color, got %s", created.Category.Color)
	}

	t.Run("duplicate name", func(t *testing.T) {
		_, err := create.Execute(ctx, category.CreateCategoryInput{OwnerID: ownerID, Name: "Mercado"})
		if !errors.Is(err, domainerror.ErrCategoryNameExists) {
			t.Errorf("expected ErrCategoryNameExists, got %v", err)
		}
	})

	t.Run("invalid color", func(t *testing.T) {
		_, err := create.Execute(ctx, category.CreateCategoryInput{OwnerID: ownerID, Name: "Lazer", Color: "blue"})
		if !errors.Is(err, domainerror.ErrInvalidColorFormat) {
			t.Errorf("expected ErrInvalidColorFormat, got %v", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		name := "Supermercado"
		color := "#10B981"
		out, err := update.Execute(ctx, category.UpdateCategoryInput{
			CategoryID: created.Category.ID, OwnerID: ownerID, Name: &name, Color: &color,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Category.Name != name || out.Category.Color != color {
			t.Errorf("unexpected category %+v", out.Category)
		}

		_, err = update.Execute(ctx, category.UpdateCategoryInput{CategoryID: created.Category.ID, OwnerID: uuid.New(), Name: &name})
		if !errors.Is(err, domainerror.ErrNotAuthorizedToModifyCategory) {
			t.Errorf("expected ErrNotAuthorizedToModifyCategory, got %v", err)
		}
	})

	t.Run("list with stats", func(t *testing.T) {
		categoryID := created.Category.ID
		_, err := expense.NewCreateExpenseUseCase(store, expense.NewCoordinator(valueobject.DefaultBillingPolicy()), nil).
			Execute(ctx, expense.ExpenseInput{
				OwnerID:          ownerID,
				Amount:           decimal.RequireFromString("42.50"),
				Description:      "Feira",
				Date:             time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC),
				PaymentMethod:    entity.PaymentMethodPix,
				InstallmentCount: 1,
				CategoryID:       &categoryID,
			})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, time.July, 31, 0, 0, 0, 0, time.UTC)
		out, err := list.Execute(ctx, category.ListCategoriesInput{OwnerID: ownerID, StartDate: &start, EndDate: &end})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Categories) != 1 {
			t.Fatalf("expected 1 category, got %d", len(out.Categories))
		}
		if out.Categories[0].ExpenseCount != 1 || !out.Categories[0].PeriodTotal.Equal(decimal.RequireFromString("42.50")) {
			t.Errorf("unexpected stats: %d / %s", out.Categories[0].ExpenseCount, out.Categories[0].PeriodTotal)
		}
	})

	t.Run("delete uncategorizes expenses", func(t *testing.T) {
		out, err := del.Execute(ctx, category.DeleteCategoryInput{CategoryID: created.Category.ID, OwnerID: ownerID})
		if err != nil || !out.Success {
			t.Fatalf("expected success, got %v", err)
		}

		expenses, err := store.Expenses().FindByFilter(ctx, entity.ExpenseFilter{OwnerID: ownerID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, e := range expenses {
			if e.CategoryID != nil {
				t.Errorf("expected expense %s to be uncategorized", e.ID)
			}
		}

		_, err = del.Execute(ctx, category.DeleteCategoryInput{CategoryID: created.Category.ID, OwnerID: ownerID})
		if !errors.Is(err, domainerror.ErrCategoryNotFound) {
			t.Errorf("expected ErrCategoryNotFound, got %v", err)
		}
	})
}
