// Package dependency provides dependency injection for the application.
package dependency

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/contacerta/backend/config"
	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/application/allocation"
	"github.com/contacerta/backend/internal/application/usecase/auth"
	"github.com/contacerta/backend/internal/application/usecase/card"
	"github.com/contacerta/backend/internal/application/usecase/category"
	"github.com/contacerta/backend/internal/application/usecase/expense"
	"github.com/contacerta/backend/internal/application/usecase/invoice"
	"github.com/contacerta/backend/internal/infra/cache"
	"github.com/contacerta/backend/internal/infra/db"
	"github.com/contacerta/backend/internal/infra/server/router"
	"github.com/contacerta/backend/internal/integration/adapters"
	"github.com/contacerta/backend/internal/integration/entrypoint/controller"
	"github.com/contacerta/backend/internal/integration/entrypoint/middleware"
	"github.com/contacerta/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *db.Database
	Redis  *redis.Client
	Events adapter.EventPublisher
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, database *db.Database, redisClient *redis.Client) *Injector {
	gormDB := database.DB()
	policy := cfg.Billing.Policy()

	// Create repositories
	userRepo := persistence.NewUserRepository(gormDB)
	categoryRepo := persistence.NewCategoryRepository(gormDB)
	cardRepo := persistence.NewCardRepository(gormDB)
	expenseRepo := persistence.NewExpenseRepository(gormDB)
	installmentRepo := persistence.NewInstallmentRepository(gormDB)
	invoiceRepo := persistence.NewInvoiceRepository(gormDB)
	uow := persistence.NewUnitOfWork(gormDB)

	// Create adapters/services
	passwordService := adapters.NewPasswordService(cfg.Password.BcryptCost, cfg.Password.MinLength)
	refreshTokens := adapters.NewRedisRefreshTokenStore(redisClient)
	tokenService := adapters.NewTokenService(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		refreshTokens,
	)
	events := newEventPublisher(&cfg.Events)

	// Create allocation engine
	ledger := allocation.NewLedger(policy)
	coordinator := expense.NewCoordinator(policy)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo)

	// Create card and invoice use cases
	listCardsUseCase := card.NewListCardsUseCase(cardRepo)
	createCardUseCase := card.NewCreateCardUseCase(cardRepo)
	getCardUseCase := card.NewGetCardUseCase(cardRepo)
	updateCardUseCase := card.NewUpdateCardUseCase(uow, ledger)
	deleteCardUseCase := card.NewDeleteCardUseCase(uow)
	listCardInvoicesUseCase := invoice.NewListCardInvoicesUseCase(cardRepo, invoiceRepo)
	getInvoiceUseCase := invoice.NewGetInvoiceUseCase(cardRepo, invoiceRepo, installmentRepo)

	// Create expense use cases
	listExpensesUseCase := expense.NewListExpensesUseCase(expenseRepo, installmentRepo)
	createExpenseUseCase := expense.NewCreateExpenseUseCase(uow, coordinator, events)
	getExpenseUseCase := expense.NewGetExpenseUseCase(expenseRepo, installmentRepo)
	updateExpenseUseCase := expense.NewUpdateExpenseUseCase(uow, coordinator, events)
	deleteExpenseUseCase := expense.NewDeleteExpenseUseCase(uow, coordinator, events)
	splitExpenseUseCase := expense.NewSplitExpenseUseCase(uow, userRepo, coordinator, events)
	markInstallmentPaidUseCase := expense.NewMarkInstallmentPaidUseCase(expenseRepo, installmentRepo)

	// Create controllers
	healthController := controller.NewHealthController(database.HealthCheck, cache.HealthCheck(redisClient))

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
	)

	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		createCategoryUseCase,
		updateCategoryUseCase,
		deleteCategoryUseCase,
	)

	cardController := controller.NewCardController(
		listCardsUseCase,
		createCardUseCase,
		getCardUseCase,
		updateCardUseCase,
		deleteCardUseCase,
		listCardInvoicesUseCase,
	)

	invoiceController := controller.NewInvoiceController(getInvoiceUseCase)

	expenseController := controller.NewExpenseController(
		listExpensesUseCase,
		createExpenseUseCase,
		getExpenseUseCase,
		updateExpenseUseCase,
		deleteExpenseUseCase,
		splitExpenseUseCase,
	)

	installmentController := controller.NewInstallmentController(getExpenseUseCase, markInstallmentPaidUseCase)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var loginRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(redisClient, "login", 1000, 1*time.Minute)
	} else {
		loginRateLimiter = middleware.NewRateLimiter(redisClient, "login")
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		authController,
		categoryController,
		cardController,
		invoiceController,
		expenseController,
		installmentController,
		loginRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config: cfg,
		DB:     database,
		Redis:  redisClient,
		Events: events,
		Router: r,
	}
}

// Close releases the event publisher. The database and Redis connections
// belong to the caller.
func (i *Injector) Close() error {
	if closer, ok := i.Events.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// newEventPublisher returns the Kafka publisher when brokers are configured.
func newEventPublisher(cfg *config.EventsConfig) adapter.EventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		slog.Info("Expense events disabled, no Kafka brokers configured")
		return adapters.NoopEventPublisher{}
	}

	slog.Info("Publishing expense events to Kafka",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.Topic,
	)
	return adapters.NewKafkaEventPublisher(cfg.KafkaBrokers, cfg.Topic, cfg.WriteTimeout)
}
