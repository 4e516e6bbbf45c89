package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/integration/entrypoint/dto"
)

// handleLedgerError writes the response for errors raised by the card,
// invoice and expense use cases, which share the card limit ledger.
func handleLedgerError(ctx *gin.Context, err error) {
	var expErr *domainerror.ExpenseError
	if errors.As(err, &expErr) {
		ctx.JSON(getStatusCodeForExpenseError(expErr.Code), dto.ErrorResponse{
			Error: expErr.Message,
			Code:  string(expErr.Code),
		})
		return
	}

	var cardErr *domainerror.CardError
	if errors.As(err, &cardErr) {
		ctx.JSON(getStatusCodeForCardError(cardErr.Code), dto.ErrorResponse{
			Error: cardErr.Message,
			Code:  string(cardErr.Code),
		})
		return
	}

	slog.Error("Unhandled error", "path", ctx.FullPath(), "error", err)

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForCardError maps card error codes to HTTP status codes.
func getStatusCodeForCardError(code domainerror.CardErrorCode) int {
	switch code {
	case domainerror.ErrCodeCardNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedCard:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidCardLimit,
		domainerror.ErrCodeMissingCardFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeInsufficientLimit:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodeCardInUse:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForExpenseError maps expense error codes to HTTP status codes.
// Codes are grouped by their kind prefix.
func getStatusCodeForExpenseError(code domainerror.ExpenseErrorCode) int {
	switch {
	case strings.HasPrefix(string(code), "EXP-01"):
		return http.StatusBadRequest
	case strings.HasPrefix(string(code), "EXP-02"):
		return http.StatusNotFound
	case strings.HasPrefix(string(code), "EXP-03"):
		return http.StatusConflict
	case code == domainerror.ErrCodeNotAuthorizedExpense:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
