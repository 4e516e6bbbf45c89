package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/usecase/expense"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/integration/entrypoint/dto"
	"github.com/contacerta/backend/internal/integration/entrypoint/middleware"
)

// ExpenseController handles expense endpoints.
type ExpenseController struct {
	listUseCase   *expense.ListExpensesUseCase
	createUseCase *expense.CreateExpenseUseCase
	getUseCase    *expense.GetExpenseUseCase
	updateUseCase *expense.UpdateExpenseUseCase
	deleteUseCase *expense.DeleteExpenseUseCase
	splitUseCase  *expense.SplitExpenseUseCase
}

// NewExpenseController creates a new expense controller instance.
func NewExpenseController(
	listUseCase *expense.ListExpensesUseCase,
	createUseCase *expense.CreateExpenseUseCase,
	getUseCase *expense.GetExpenseUseCase,
	updateUseCase *expense.UpdateExpenseUseCase,
	deleteUseCase *expense.DeleteExpenseUseCase,
	splitUseCase *expense.SplitExpenseUseCase,
) *ExpenseController {
	return &ExpenseController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		splitUseCase:  splitUseCase,
	}
}

// List handles GET /expenses requests.
// Optional query parameters: startDate, endDate (YYYY-MM-DD) and cardId.
func (c *ExpenseController) List(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	input := expense.ListExpensesInput{OwnerID: userID}

	if startDateStr := ctx.Query("startDate"); startDateStr != "" {
		startDate, err := dto.ParseDate(startDateStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		input.StartDate = &startDate
	}
	if endDateStr := ctx.Query("endDate"); endDateStr != "" {
		endDate, err := dto.ParseDate(endDateStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		input.EndDate = &endDate
	}
	if cardIDStr := ctx.Query("cardId"); cardIDStr != "" {
		cardID, err := uuid.Parse(cardIDStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid card ID format",
			})
			return
		}
		input.CardID = &cardID
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseListResponse(output.Expenses))
}

// Create handles POST /expenses requests.
func (c *ExpenseController) Create(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.ExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingExpenseFields),
			Details: err.Error(),
		})
		return
	}

	input, ok := c.buildExpenseInput(ctx, userID, req)
	if !ok {
		return
	}

	result, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToExpenseResponse(result))
}

// Get handles GET /expenses/:id requests.
func (c *ExpenseController) Get(ctx *gin.Context) {
	userID, expenseID, ok := c.parseExpenseRequest(ctx)
	if !ok {
		return
	}

	result, err := c.getUseCase.Execute(ctx.Request.Context(), expense.GetExpenseInput{
		ExpenseID: expenseID,
		OwnerID:   userID,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseResponse(result))
}

// Update handles PUT /expenses/:id requests.
// The expense is replaced as a whole and its installments are regenerated.
func (c *ExpenseController) Update(ctx *gin.Context) {
	userID, expenseID, ok := c.parseExpenseRequest(ctx)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingExpenseFields),
			Details: err.Error(),
		})
		return
	}

	input, ok := c.buildExpenseInput(ctx, userID, req)
	if !ok {
		return
	}

	result, err := c.updateUseCase.Execute(ctx.Request.Context(), expense.UpdateExpenseInput{
		ExpenseID: expenseID,
		Expense:   input,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseResponse(result))
}

// Delete handles DELETE /expenses/:id requests.
func (c *ExpenseController) Delete(ctx *gin.Context) {
	userID, expenseID, ok := c.parseExpenseRequest(ctx)
	if !ok {
		return
	}

	_, err := c.deleteUseCase.Execute(ctx.Request.Context(), expense.DeleteExpenseInput{
		ExpenseID: expenseID,
		OwnerID:   userID,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Split handles POST /expenses/split requests.
func (c *ExpenseController) Split(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.SplitExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeInvalidSplit),
			Details: err.Error(),
		})
		return
	}

	purchase, ok := c.buildExpenseInput(ctx, userID, req.ExpenseRequest)
	if !ok {
		return
	}

	participants := make([]uuid.UUID, 0, len(req.ParticipantIDs))
	for _, raw := range req.ParticipantIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid participant ID format",
				Code:  string(domainerror.ErrCodeInvalidSplit),
			})
			return
		}
		participants = append(participants, id)
	}

	output, err := c.splitUseCase.Execute(ctx.Request.Context(), expense.SplitExpenseInput{
		Purchase:       purchase,
		ParticipantIDs: participants,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	shares := make([]dto.ExpenseResponse, len(output.Expenses))
	for i, agg := range output.Expenses {
		shares[i] = dto.ToExpenseResponse(agg)
	}
	ctx.JSON(http.StatusCreated, dto.SplitExpenseResponse{
		SplitGroupID: output.SplitGroupID.String(),
		Expenses:     shares,
	})
}

// buildExpenseInput converts a request body into use case input.
// It writes the error response itself and reports false on malformed fields.
func (c *ExpenseController) buildExpenseInput(ctx *gin.Context, userID uuid.UUID, req dto.ExpenseRequest) (expense.ExpenseInput, bool) {
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
			Code:  string(domainerror.ErrCodeInvalidExpenseDate),
		})
		return expense.ExpenseInput{}, false
	}

	categoryID, err := dto.ParseOptionalUUID(req.CategoryID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid category ID format",
		})
		return expense.ExpenseInput{}, false
	}

	cardID, err := dto.ParseOptionalUUID(req.CardID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid card ID format",
		})
		return expense.ExpenseInput{}, false
	}

	// A purchase without installments is paid in one
	installments := req.InstallmentCount
	if installments == 0 {
		installments = 1
	}

	return expense.ExpenseInput{
		OwnerID:          userID,
		Amount:           req.Amount,
		Description:      req.Description,
		Date:             date,
		PaymentMethod:    entity.PaymentMethod(req.PaymentMethod),
		InstallmentCount: installments,
		CategoryID:       categoryID,
		CardID:           cardID,
	}, true
}

// parseExpenseRequest extracts the authenticated user and the expense ID path parameter.
func (c *ExpenseController) parseExpenseRequest(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, uuid.Nil, false
	}

	expenseID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid expense ID format",
		})
		return uuid.Nil, uuid.Nil, false
	}

	return userID, expenseID, true
}
