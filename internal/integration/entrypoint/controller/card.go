package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/usecase/card"
	"github.com/contacerta/backend/internal/application/usecase/invoice"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/integration/entrypoint/dto"
	"github.com/contacerta/backend/internal/integration/entrypoint/middleware"
)

// CardController handles card endpoints.
type CardController struct {
	listUseCase         *card.ListCardsUseCase
	createUseCase       *card.CreateCardUseCase
	getUseCase          *card.GetCardUseCase
	updateUseCase       *card.UpdateCardUseCase
	deleteUseCase       *card.DeleteCardUseCase
	listInvoicesUseCase *invoice.ListCardInvoicesUseCase
}

// NewCardController creates a new card controller instance.
func NewCardController(
	listUseCase *card.ListCardsUseCase,
	createUseCase *card.CreateCardUseCase,
	getUseCase *card.GetCardUseCase,
	updateUseCase *card.UpdateCardUseCase,
	deleteUseCase *card.DeleteCardUseCase,
	listInvoicesUseCase *invoice.ListCardInvoicesUseCase,
) *CardController {
	return &CardController{
		listUseCase:         listUseCase,
		createUseCase:       createUseCase,
		getUseCase:          getUseCase,
		updateUseCase:       updateUseCase,
		deleteUseCase:       deleteUseCase,
		listInvoicesUseCase: listInvoicesUseCase,
	}
}

// List handles GET /cards requests.
func (c *CardController) List(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), card.ListCardsInput{OwnerID: userID})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCardListResponse(output.Cards))
}

// Create handles POST /cards requests.
func (c *CardController) Create(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.CreateCardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingCardFields),
			Details: err.Error(),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), card.CreateCardInput{
		OwnerID:        userID,
		Bank:           req.Bank,
		LastFourDigits: req.LastFourDigits,
		TotalLimit:     req.TotalLimit,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCardResponse(output.Card))
}

// Get handles GET /cards/:id requests.
func (c *CardController) Get(ctx *gin.Context) {
	userID, cardID, ok := c.parseCardRequest(ctx)
	if !ok {
		return
	}

	result, err := c.getUseCase.Execute(ctx.Request.Context(), card.GetCardInput{
		CardID:  cardID,
		OwnerID: userID,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCardResponse(result))
}

// Update handles PATCH /cards/:id requests.
// A total limit change moves the remaining limit by the same delta.
func (c *CardController) Update(ctx *gin.Context) {
	userID, cardID, ok := c.parseCardRequest(ctx)
	if !ok {
		return
	}

	var req dto.UpdateCardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), card.UpdateCardInput{
		CardID:         cardID,
		OwnerID:        userID,
		Bank:           req.Bank,
		LastFourDigits: req.LastFourDigits,
		TotalLimit:     req.TotalLimit,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCardResponse(output.Card))
}

// Delete handles DELETE /cards/:id requests.
func (c *CardController) Delete(ctx *gin.Context) {
	userID, cardID, ok := c.parseCardRequest(ctx)
	if !ok {
		return
	}

	_, err := c.deleteUseCase.Execute(ctx.Request.Context(), card.DeleteCardInput{
		CardID:  cardID,
		OwnerID: userID,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListInvoices handles GET /cards/:id/invoices requests.
func (c *CardController) ListInvoices(ctx *gin.Context) {
	userID, cardID, ok := c.parseCardRequest(ctx)
	if !ok {
		return
	}

	output, err := c.listInvoicesUseCase.Execute(ctx.Request.Context(), invoice.ListCardInvoicesInput{
		CardID:  cardID,
		OwnerID: userID,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceListResponse(output.Card, output.Invoices))
}

// parseCardRequest extracts the authenticated user and the card ID path parameter.
// It writes the error response itself and reports false when either is missing.
func (c *CardController) parseCardRequest(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, uuid.Nil, false
	}

	cardID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid card ID format",
		})
		return uuid.Nil, uuid.Nil, false
	}

	return userID, cardID, true
}
