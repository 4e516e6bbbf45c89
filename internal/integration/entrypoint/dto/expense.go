package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/domain/entity"
)

// ExpenseRequest represents the request body for creating or replacing an expense.
type ExpenseRequest struct {
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description" binding:"required,max=255"`
	Date             string          `json:"date" binding:"required"` // YYYY-MM-DD
	PaymentMethod    string          `json:"payment_method" binding:"required,oneof=CASH PIX DEBIT CREDIT"`
	InstallmentCount int             `json:"installment_count,omitempty" binding:"omitempty,min=1,max=48"`
	CategoryID       *string         `json:"category_id,omitempty" binding:"omitempty,uuid"`
	CardID           *string         `json:"card_id,omitempty" binding:"omitempty,uuid"`
}

// SplitExpenseRequest represents the request body for splitting a purchase.
type SplitExpenseRequest struct {
	ExpenseRequest
	ParticipantIDs []string `json:"participant_ids" binding:"required,min=1,dive,uuid"`
}

// InstallmentResponse represents an installment in API responses.
type InstallmentResponse struct {
	ID        string          `json:"id"`
	ExpenseID string          `json:"expense_id"`
	Number    int             `json:"number"`
	Total     int             `json:"total"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   string          `json:"due_date"`
	Paid      bool            `json:"paid"`
	InvoiceID *string         `json:"invoice_id,omitempty"`
}

// MarkInstallmentPaidRequest represents the request body for settling an installment.
type MarkInstallmentPaidRequest struct {
	Paid *bool `json:"paid" binding:"required"`
}

// InstallmentListResponse represents the installments of one expense.
type InstallmentListResponse struct {
	ExpenseID    string                `json:"expense_id"`
	Installments []InstallmentResponse `json:"installments"`
}

// ExpenseResponse represents an expense with its installments in API responses.
type ExpenseResponse struct {
	ID               string                `json:"id"`
	Amount           decimal.Decimal       `json:"amount"`
	Description      string                `json:"description"`
	Date             string                `json:"date"`
	PaymentMethod    string                `json:"payment_method"`
	InstallmentCount int                   `json:"installment_count"`
	CategoryID       *string               `json:"category_id,omitempty"`
	CardID           *string               `json:"card_id,omitempty"`
	SplitGroupID     *string               `json:"split_group_id,omitempty"`
	Installments     []InstallmentResponse `json:"installments"`
	InvoiceIDs       []string              `json:"invoice_ids"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// ExpenseListResponse represents the response for listing expenses.
type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
}

// SplitExpenseResponse represents the shares created by a split.
type SplitExpenseResponse struct {
	SplitGroupID string            `json:"split_group_id"`
	Expenses     []ExpenseResponse `json:"expenses"`
}

// ToExpenseResponse converts an expense aggregate to an ExpenseResponse DTO.
func ToExpenseResponse(agg *entity.ExpenseAggregate) ExpenseResponse {
	e := agg.Expense
	invoiceIDs := make([]string, len(agg.LinkedInvoiceIDs))
	for i, id := range agg.LinkedInvoiceIDs {
		invoiceIDs[i] = id.String()
	}

	return ExpenseResponse{
		ID:               e.ID.String(),
		Amount:           e.Amount,
		Description:      e.Description,
		Date:             e.Date.Format(dateLayout),
		PaymentMethod:    string(e.PaymentMethod),
		InstallmentCount: e.InstallmentCount,
		CategoryID:       uuidString(e.CategoryID),
		CardID:           uuidString(e.CardID),
		SplitGroupID:     uuidString(e.SplitGroupID),
		Installments:     toInstallmentResponses(agg.Installments),
		InvoiceIDs:       invoiceIDs,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// ToExpenseListResponse converts expense aggregates to an ExpenseListResponse.
func ToExpenseListResponse(aggs []*entity.ExpenseAggregate) ExpenseListResponse {
	expenses := make([]ExpenseResponse, len(aggs))
	for i, agg := range aggs {
		expenses[i] = ToExpenseResponse(agg)
	}
	return ExpenseListResponse{Expenses: expenses}
}

// ToInstallmentResponse converts a domain Installment entity to an InstallmentResponse DTO.
func ToInstallmentResponse(inst *entity.Installment) InstallmentResponse {
	return InstallmentResponse{
		ID:        inst.ID.String(),
		ExpenseID: inst.ExpenseID.String(),
		Number:    inst.Number,
		Total:     inst.Total,
		Amount:    inst.Amount,
		DueDate:   inst.DueDate.Format(dateLayout),
		Paid:      inst.Paid,
		InvoiceID: uuidString(inst.InvoiceID),
	}
}

// ToInstallmentListResponse lists the installments of an expense aggregate.
func ToInstallmentListResponse(agg *entity.ExpenseAggregate) InstallmentListResponse {
	return InstallmentListResponse{
		ExpenseID:    agg.Expense.ID.String(),
		Installments: toInstallmentResponses(agg.Installments),
	}
}

func toInstallmentResponses(installments []*entity.Installment) []InstallmentResponse {
	responses := make([]InstallmentResponse, len(installments))
	for i, inst := range installments {
		responses[i] = ToInstallmentResponse(inst)
	}
	return responses
}
