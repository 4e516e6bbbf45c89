// Package error defines domain-specific errors for the ContaCerta application.
package error

import "errors"

// Expense domain errors.
var (
	// ErrExpenseNotFound is returned when an expense is not found in the system.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrNotAuthorizedToModifyExpense is returned when the expense belongs to another user.
	ErrNotAuthorizedToModifyExpense = errors.New("not authorized to modify expense")

	// ErrInvalidExpenseAmount is returned when the amount is zero or negative.
	ErrInvalidExpenseAmount = errors.New("expense amount must be positive")

	// ErrInvalidInstallmentCount is returned when the installment count is below
	// one or above the maximum.
	ErrInvalidInstallmentCount = errors.New("invalid installment count")

	// ErrAmountTooSmallForInstallments is returned when the amount cannot give
	// every installment at least one cent.
	ErrAmountTooSmallForInstallments = errors.New("amount too small for the installment count")

	// ErrInstallmentsRequireCredit is returned when more than one installment is requested
	// for a payment method other than CREDIT.
	ErrInstallmentsRequireCredit = errors.New("only credit expenses can be split into installments")

	// ErrInvalidPaymentMethod is returned when the payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrCardRequired is returned when a CREDIT or DEBIT expense has no card.
	ErrCardRequired = errors.New("card is required for credit and debit expenses")

	// ErrInvalidExpenseDate is returned when the expense date is missing.
	ErrInvalidExpenseDate = errors.New("invalid expense date")

	// ErrDescriptionTooLong is returned when the description exceeds the maximum length.
	ErrDescriptionTooLong = errors.New("description too long")

	// ErrInvalidSplit is returned when a split expense has no valid participants.
	ErrInvalidSplit = errors.New("invalid split participants")

	// ErrInvoiceConflict is returned when an invoice for the same card and
	// reference month was inserted concurrently.
	ErrInvoiceConflict = errors.New("invoice already exists for card and reference month")

	// ErrInvoiceNotFound is returned when an invoice is not found in the system.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrInstallmentNotFound is returned when an installment is not found in the system.
	ErrInstallmentNotFound = errors.New("installment not found")

	// ErrTransactionFailed is returned when the unit of work could not be committed.
	ErrTransactionFailed = errors.New("transaction failed")
)

// ExpenseErrorCode defines error codes for expense errors.
// Format: EXP-XXYYYY where XX is category and YYYY is specific error.
type ExpenseErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidExpenseAmount      ExpenseErrorCode = "EXP-010001"
	ErrCodeInvalidInstallmentCount   ExpenseErrorCode = "EXP-010002"
	ErrCodeInstallmentsRequireCredit ExpenseErrorCode = "EXP-010003"
	ErrCodeInvalidPaymentMethod      ExpenseErrorCode = "EXP-010004"
	ErrCodeCardRequired              ExpenseErrorCode = "EXP-010005"
	ErrCodeInvalidExpenseDate        ExpenseErrorCode = "EXP-010006"
	ErrCodeDescriptionTooLong        ExpenseErrorCode = "EXP-010007"
	ErrCodeMissingExpenseFields      ExpenseErrorCode = "EXP-010008"
	ErrCodeInvalidSplit              ExpenseErrorCode = "EXP-010009"
	ErrCodeAmountTooSmall            ExpenseErrorCode = "EXP-010010"

	// Not found errors (02XXXX)
	ErrCodeExpenseNotFound    ExpenseErrorCode = "EXP-020001"
	ErrCodeExpenseCardMissing ExpenseErrorCode = "EXP-020002"
	ErrCodeExpenseCategory    ExpenseErrorCode = "EXP-020003"
	ErrCodeInvoiceNotFound    ExpenseErrorCode = "EXP-020004"
	ErrCodeSplitParticipant   ExpenseErrorCode = "EXP-020005"
	ErrCodeInstallmentMissing ExpenseErrorCode = "EXP-020006"

	// Conflict errors (03XXXX)
	ErrCodeInvoiceConflict ExpenseErrorCode = "EXP-030001"

	// Transaction errors (04XXXX)
	ErrCodeTransactionFailed ExpenseErrorCode = "EXP-040001"

	// Authorization errors (06XXXX)
	ErrCodeNotAuthorizedExpense ExpenseErrorCode = "EXP-060001"
)

// ExpenseError represents an expense error with code and message.
type ExpenseError struct {
	Code    ExpenseErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ExpenseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExpenseError) Unwrap() error {
	return e.Err
}

// NewExpenseError creates a new ExpenseError with the given code and message.
func NewExpenseError(code ExpenseErrorCode, message string, err error) *ExpenseError {
	return &ExpenseError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// validationErrors are rejected before any write happens.
var validationErrors = []error{
	ErrInvalidExpenseAmount,
	ErrInvalidInstallmentCount,
	ErrAmountTooSmallForInstallments,
	ErrInstallmentsRequireCredit,
	ErrInvalidPaymentMethod,
	ErrCardRequired,
	ErrInvalidExpenseDate,
	ErrDescriptionTooLong,
	ErrInvalidSplit,
	ErrInvalidCardLimit,
	ErrInvalidCardDetails,
	ErrCategoryNameTooLong,
	ErrInvalidColorFormat,
}

var notFoundErrors = []error{
	ErrExpenseNotFound,
	ErrCardNotFound,
	ErrCategoryNotFound,
	ErrInvoiceNotFound,
	ErrInstallmentNotFound,
	ErrUserNotFound,
}

// IsValidationError reports whether err is an input validation failure.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFoundError reports whether err refers to a missing entity.
func IsNotFoundError(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
