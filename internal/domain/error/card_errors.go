package error

import "errors"

// Card domain errors.
var (
	// ErrCardNotFound is returned when a card is not found in the system.
	ErrCardNotFound = errors.New("card not found")

	// ErrNotAuthorizedToModifyCard is returned when the card belongs to another user.
	ErrNotAuthorizedToModifyCard = errors.New("not authorized to modify card")

	// ErrInvalidCardLimit is returned when a card limit is negative.
	ErrInvalidCardLimit = errors.New("card limit must not be negative")

	// ErrInvalidCardDetails is returned when the bank or last four digits are invalid.
	ErrInvalidCardDetails = errors.New("invalid card details")

	// ErrInsufficientLimit is returned when a debit would leave the remaining
	// limit below zero and the limit policy rejects it.
	ErrInsufficientLimit = errors.New("insufficient card limit")

	// ErrCardInUse is returned when deleting a card still referenced by expenses.
	ErrCardInUse = errors.New("card is referenced by expenses")
)

// CardErrorCode defines error codes for card errors.
// Format: CRD-XXYYYY where XX is category and YYYY is specific error.
type CardErrorCode string

const (
	ErrCodeCardNotFound      CardErrorCode = "CRD-010001"
	ErrCodeInvalidCardLimit  CardErrorCode = "CRD-010002"
	ErrCodeNotAuthorizedCard CardErrorCode = "CRD-010003"
	ErrCodeMissingCardFields CardErrorCode = "CRD-010004"
	ErrCodeInsufficientLimit CardErrorCode = "CRD-050001"
	ErrCodeCardInUse         CardErrorCode = "CRD-050002"
)

// CardError represents a card error with code and message.
type CardError struct {
	Code    CardErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CardError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CardError) Unwrap() error {
	return e.Err
}

// NewCardError creates a new CardError with the given code and message.
func NewCardError(code CardErrorCode, message string, err error) *CardError {
	return &CardError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
