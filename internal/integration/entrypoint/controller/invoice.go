package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/usecase/invoice"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/integration/entrypoint/dto"
	"github.com/contacerta/backend/internal/integration/entrypoint/middleware"
)

// InvoiceController handles invoice endpoints.
type InvoiceController struct {
	getUseCase *invoice.GetInvoiceUseCase
}

// NewInvoiceController creates a new invoice controller instance.
func NewInvoiceController(getUseCase *invoice.GetInvoiceUseCase) *InvoiceController {
	return &InvoiceController{getUseCase: getUseCase}
}

// Get handles GET /invoices/:id requests.
func (c *InvoiceController) Get(ctx *gin.Context) {
	// Get user ID from context
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	invoiceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid invoice ID format",
		})
		return
	}

	result, err := c.getUseCase.Execute(ctx.Request.Context(), invoice.GetInvoiceInput{
		InvoiceID: invoiceID,
		OwnerID:   userID,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceDetailResponse(result))
}
