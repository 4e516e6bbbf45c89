package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/application/usecase/card"
	"github.com/contacerta/backend/internal/application/usecase/category"
	"github.com/contacerta/backend/internal/application/usecase/expense"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/domain/valueobject"
	"github.com/contacerta/backend/internal/integration/adapters"
	"github.com/contacerta/backend/internal/integration/persistence"
)

type seedAccount struct {
	Email       string
	Password    string
	FriendEmail string
}

type cardLimit struct {
	Name      string
	Total     decimal.Decimal
	Remaining decimal.Decimal
}

type seedSummary struct {
	AlreadySeeded bool
	Cards         int
	Categories    int
	Expenses      int
	Limits        []cardLimit
}

// seeder writes demo data through the application use cases.
type seeder struct {
	users      adapter.UserRepository
	cards      adapter.CardRepository
	passwords  adapter.PasswordService
	createCard *card.CreateCardUseCase
	createCat  *category.CreateCategoryUseCase
	createExp  *expense.CreateExpenseUseCase
	splitExp   *expense.SplitExpenseUseCase
	now        func() time.Time
}

func newSeeder(db *gorm.DB, policy valueobject.BillingPolicy, passwords adapter.PasswordService) *seeder {
	users := persistence.NewUserRepository(db)
	cards := persistence.NewCardRepository(db)
	uow := persistence.NewUnitOfWork(db)
	coordinator := expense.NewCoordinator(policy)
	events := adapters.NoopEventPublisher{}

	return &seeder{
		users:      users,
		cards:      cards,
		passwords:  passwords,
		createCard: card.NewCreateCardUseCase(cards),
		createCat:  category.NewCreateCategoryUseCase(persistence.NewCategoryRepository(db)),
		createExp:  expense.NewCreateExpenseUseCase(uow, coordinator, events),
		splitExp:   expense.NewSplitExpenseUseCase(uow, users, coordinator, events),
		now:        time.Now,
	}
}

type seedCategory struct {
	name, description, color string
}

var seedCategories = []seedCategory{
	{"Alimentação", "Gastos com alimentação", "#E4572E"},
	{"Lazer", "Gastos com entretenimento", "#17BEBB"},
	{"Transporte", "Gastos com transporte", "#FFC914"},
	{"Moradia", "Gastos com casa", "#76B041"},
}

type seedCard struct {
	bank, lastFour string
	limit          int64
}

var seedCards = []seedCard{
	{"Nubank", "1234", 8000},
	{"Itaú", "5678", 6000},
}

type seedExpense struct {
	description  string
	amount       string
	day          int
	method       entity.PaymentMethod
	installments int
	card         int    // index into seedCards, -1 for none
	category     string // "" for none
}

var seedExpenses = []seedExpense{
	{"Supermercado", "350.75", 2, entity.PaymentMethodPix, 1, -1, "Alimentação"},
	{"Aluguel", "1800.00", 5, entity.PaymentMethodPix, 1, -1, "Moradia"},
	{"Cinema", "60.00", 7, entity.PaymentMethodDebit, 1, 0, "Lazer"},
	{"Notebook", "4500.00", 8, entity.PaymentMethodCredit, 10, 0, ""},
	{"Uber", "32.90", 12, entity.PaymentMethodCredit, 1, 1, "Transporte"},
	{"Geladeira", "3200.00", 15, entity.PaymentMethodCredit, 8, 1, "Moradia"},
	{"Padaria", "18.40", 20, entity.PaymentMethodCash, 1, -1, "Alimentação"},
}

// Run creates the demo data. It is a no-op when the demo user exists.
func (s *seeder) Run(ctx context.Context, account seedAccount) (*seedSummary, error) {
	exists, err := s.users.ExistsByEmail(ctx, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check demo user: %w", err)
	}
	if exists {
		return &seedSummary{AlreadySeeded: true}, nil
	}

	owner, err := s.ensureUser(ctx, account.Email, "Lucas Dias", account.Password)
	if err != nil {
		return nil, err
	}
	friend, err := s.ensureUser(ctx, account.FriendEmail, "Maria", account.Password)
	if err != nil {
		return nil, err
	}

	summary := &seedSummary{}

	categoryIDs := make(map[string]uuid.UUID, len(seedCategories))
	for _, c := range seedCategories {
		out, err := s.createCat.Execute(ctx, category.CreateCategoryInput{
			OwnerID:     owner.ID,
			Name:        c.name,
			Description: c.description,
			Color:       c.color,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create category %s: %w", c.name, err)
		}
		categoryIDs[c.name] = out.Category.ID
		summary.Categories++
	}

	cardIDs := make([]uuid.UUID, len(seedCards))
	for i, c := range seedCards {
		out, err := s.createCard.Execute(ctx, card.CreateCardInput{
			OwnerID:        owner.ID,
			Bank:           c.bank,
			LastFourDigits: c.lastFour,
			TotalLimit:     decimal.NewFromInt(c.limit),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create card %s: %w", c.bank, err)
		}
		cardIDs[i] = out.Card.ID
		summary.Cards++
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	for _, e := range seedExpenses {
		input := expense.ExpenseInput{
			OwnerID:          owner.ID,
			Amount:           decimal.RequireFromString(e.amount),
			Description:      e.description,
			Date:             monthStart.AddDate(0, 0, e.day-1),
			PaymentMethod:    e.method,
			InstallmentCount: e.installments,
		}
		if e.card >= 0 {
			input.CardID = &cardIDs[e.card]
		}
		if e.category != "" {
			id := categoryIDs[e.category]
			input.CategoryID = &id
		}

		if _, err := s.createExp.Execute(ctx, input); err != nil {
			return nil, fmt.Errorf("failed to create expense %s: %w", e.description, err)
		}
		summary.Expenses++
	}

	dinnerCategory := categoryIDs["Alimentação"]
	split, err := s.splitExp.Execute(ctx, expense.SplitExpenseInput{
		Purchase: expense.ExpenseInput{
			OwnerID:          owner.ID,
			Amount:           decimal.RequireFromString("240.00"),
			Description:      "Jantar",
			Date:             monthStart.AddDate(0, 0, 21),
			PaymentMethod:    entity.PaymentMethodCredit,
			InstallmentCount: 1,
			CardID:           &cardIDs[0],
			CategoryID:       &dinnerCategory,
		},
		ParticipantIDs: []uuid.UUID{friend.ID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to split dinner: %w", err)
	}
	summary.Expenses += len(split.Expenses)

	cards, err := s.cards.FindByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	for _, c := range cards {
		summary.Limits = append(summary.Limits, cardLimit{
			Name:      fmt.Sprintf("%s (%s)", c.Bank, c.LastFourDigits),
			Total:     c.TotalLimit,
			Remaining: c.RemainingLimit,
		})
	}

	return summary, nil
}

// ensureUser returns the user with email, creating it when missing.
func (s *seeder) ensureUser(ctx context.Context, email, name, password string) (*entity.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domainerror.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user %s: %w", email, err)
	}

	hash, err := s.passwords.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user = entity.NewUser(email, name, hash)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", email, err)
	}
	return user, nil
}
