package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/usecase/expense"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/integration/entrypoint/dto"
	"github.com/contacerta/backend/internal/integration/entrypoint/middleware"
)

// InstallmentController handles installment endpoints.
type InstallmentController struct {
	getExpenseUseCase *expense.GetExpenseUseCase
	markPaidUseCase   *expense.MarkInstallmentPaidUseCase
}

// NewInstallmentController creates a new installment controller instance.
func NewInstallmentController(
	getExpenseUseCase *expense.GetExpenseUseCase,
	markPaidUseCase *expense.MarkInstallmentPaidUseCase,
) *InstallmentController {
	return &InstallmentController{
		getExpenseUseCase: getExpenseUseCase,
		markPaidUseCase:   markPaidUseCase,
	}
}

// ListByExpense handles GET /expenses/:id/installments requests.
func (c *InstallmentController) ListByExpense(ctx *gin.Context) {
	userID, expenseID, ok := parseOwnedID(ctx, "Invalid expense ID format")
	if !ok {
		return
	}

	result, err := c.getExpenseUseCase.Execute(ctx.Request.Context(), expense.GetExpenseInput{
		ExpenseID: expenseID,
		OwnerID:   userID,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInstallmentListResponse(result))
}

// MarkPaid handles PATCH /installments/:id requests.
// Only the paid flag can change; amounts and due dates follow the expense.
func (c *InstallmentController) MarkPaid(ctx *gin.Context) {
	userID, installmentID, ok := parseOwnedID(ctx, "Invalid installment ID format")
	if !ok {
		return
	}

	var req dto.MarkInstallmentPaidRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingExpenseFields),
			Details: err.Error(),
		})
		return
	}

	result, err := c.markPaidUseCase.Execute(ctx.Request.Context(), expense.MarkInstallmentPaidInput{
		InstallmentID: installmentID,
		OwnerID:       userID,
		Paid:          *req.Paid,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInstallmentResponse(result))
}

// parseOwnedID extracts the authenticated user and the :id path parameter.
func parseOwnedID(ctx *gin.Context, invalidMessage string) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: invalidMessage})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}
