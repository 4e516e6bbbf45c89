// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/contacerta/backend/internal/integration/entrypoint/controller"
	"github.com/contacerta/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	authController        *controller.AuthController
	categoryController    *controller.CategoryController
	cardController        *controller.CardController
	invoiceController     *controller.InvoiceController
	expenseController     *controller.ExpenseController
	installmentController *controller.InstallmentController
	loginRateLimiter      *middleware.RateLimiter
	authMiddleware        *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	categoryController *controller.CategoryController,
	cardController *controller.CardController,
	invoiceController *controller.InvoiceController,
	expenseController *controller.ExpenseController,
	installmentController *controller.InstallmentController,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:      healthController,
		authController:        authController,
		categoryController:    categoryController,
		cardController:        cardController,
		invoiceController:     invoiceController,
		expenseController:     expenseController,
		installmentController: installmentController,
		loginRateLimiter:      loginRateLimiter,
		authMiddleware:        authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group
	v1 := r.engine.Group("/api/v1")
	{
		// Auth routes (only setup if auth controller is available)
		if r.authController != nil && r.loginRateLimiter != nil {
			auth := v1.Group("/auth")
			{
				auth.POST("/register", r.authController.Register)
				auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
				auth.POST("/refresh", r.authController.RefreshToken)
				auth.POST("/logout", r.authController.Logout)
			}
		}

		if r.authMiddleware == nil {
			return
		}

		// Card routes (require authentication)
		if r.cardController != nil {
			cards := v1.Group("/cards")
			cards.Use(r.authMiddleware.Authenticate())
			{
				cards.GET("", r.cardController.List)
				cards.POST("", r.cardController.Create)
				cards.GET("/:id", r.cardController.Get)
				cards.PATCH("/:id", r.cardController.Update)
				cards.DELETE("/:id", r.cardController.Delete)
				cards.GET("/:id/invoices", r.cardController.ListInvoices)
			}
		}

		// Invoice routes (require authentication)
		if r.invoiceController != nil {
			invoices := v1.Group("/invoices")
			invoices.Use(r.authMiddleware.Authenticate())
			{
				invoices.GET("/:id", r.invoiceController.Get)
			}
		}

		// Category routes (require authentication)
		if r.categoryController != nil {
			categories := v1.Group("/categories")
			categories.Use(r.authMiddleware.Authenticate())
			{
				categories.GET("", r.categoryController.List)
				categories.POST("", r.categoryController.Create)
				categories.PATCH("/:id", r.categoryController.Update)
				categories.DELETE("/:id", r.categoryController.Delete)
			}
		}

		// Expense routes (require authentication)
		if r.expenseController != nil {
			expenses := v1.Group("/expenses")
			expenses.Use(r.authMiddleware.Authenticate())
			{
				expenses.GET("", r.expenseController.List)
				expenses.POST("", r.expenseController.Create)
				expenses.POST("/split", r.expenseController.Split)
				expenses.GET("/:id", r.expenseController.Get)
				expenses.PUT("/:id", r.expenseController.Update)
				expenses.DELETE("/:id", r.expenseController.Delete)
				if r.installmentController != nil {
					expenses.GET("/:id/installments", r.installmentController.ListByExpense)
				}
			}
		}

		// Installment routes (require authentication)
		if r.installmentController != nil {
			installments := v1.Group("/installments")
			installments.Use(r.authMiddleware.Authenticate())
			{
				installments.PATCH("/:id", r.installmentController.MarkPaid)
			}
		}
	}
}
