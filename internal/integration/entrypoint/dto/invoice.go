package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/domain/entity"
	"github.com/contacerta/backend/internal/domain/valueobject"
)

// dateLayout is the wire format of calendar dates.
const dateLayout = "2006-01-02"

// InvoiceResponse represents an invoice in API responses.
type InvoiceResponse struct {
	ID             string          `json:"id"`
	CardID         string          `json:"card_id"`
	ReferenceMonth string          `json:"reference_month"` // YYYY-MM
	DueDate        string          `json:"due_date"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// InvoiceListResponse represents the invoices of a card.
type InvoiceListResponse struct {
	Card     CardResponse      `json:"card"`
	Invoices []InvoiceResponse `json:"invoices"`
}

// InvoiceDetailResponse represents an invoice with its installments.
type InvoiceDetailResponse struct {
	InvoiceResponse
	Installments []InstallmentResponse `json:"installments"`
}

// ToInvoiceResponse converts a domain Invoice entity to an InvoiceResponse DTO.
func ToInvoiceResponse(invoice *entity.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:             invoice.ID.String(),
		CardID:         invoice.CardID.String(),
		ReferenceMonth: valueobject.FormatBillingCycle(invoice.ReferenceMonth),
		DueDate:        invoice.DueDate.Format(dateLayout),
		TotalAmount:    invoice.TotalAmount,
		UpdatedAt:      invoice.UpdatedAt,
	}
}

// ToInvoiceListResponse converts a card and its invoices to an InvoiceListResponse.
func ToInvoiceListResponse(card *entity.Card, invoices []*entity.Invoice) InvoiceListResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i, invoice := range invoices {
		responses[i] = ToInvoiceResponse(invoice)
	}
	return InvoiceListResponse{
		Card:     ToCardResponse(card),
		Invoices: responses,
	}
}

// ToInvoiceDetailResponse converts an invoice with installments to its DTO.
func ToInvoiceDetailResponse(detail *entity.InvoiceWithInstallments) InvoiceDetailResponse {
	return InvoiceDetailResponse{
		InvoiceResponse: ToInvoiceResponse(detail.Invoice),
		Installments:    toInstallmentResponses(detail.Installments),
	}
}
