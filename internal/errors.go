package internal

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "VALIDATION_ERROR"
	ErrorTypeOverLimit        ErrorType = "OVER_LIMIT"
	ErrorTypeNotFound         ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized     ErrorType = "UNAUTHORIZED"
	ErrorTypeUnsupportedMedia ErrorType = "UNSUPPORTED_MEDIA"
	ErrorTypeInternal         ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidMethod    ErrorCode = "INVALID_PAYMENT_METHOD"
	ErrCodeInvalidCategory  ErrorCode = "INVALID_CATEGORY"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS_FILTER"
	ErrCodeInvalidRange     ErrorCode = "INVALID_DATE_RANGE"

	ErrCodeReimbursementOverLimit ErrorCode = "REIMBURSEMENT_OVER_LIMIT"
	ErrCodeAmountBelowReimbursed  ErrorCode = "AMOUNT_BELOW_REIMBURSED"

	ErrCodeExpenseNotFound       ErrorCode = "EXPENSE_NOT_FOUND"
	ErrCodeReimbursementNotFound ErrorCode = "REIMBURSEMENT_NOT_FOUND"
	ErrCodeImageNotFound         ErrorCode = "IMAGE_NOT_FOUND"

	ErrCodeMissingToken ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"

	ErrCodeUnsupportedMediaType ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// OverLimitDetails carries the figures the client needs to render a
// precise over-limit message.
type OverLimitDetails struct {
	ExpenseAmount   decimal.Decimal `json:"expenseAmount"`
	CurrentTotal    decimal.Decimal `json:"currentTotal"`
	AttemptedAmount decimal.Decimal `json:"attemptedAmount"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewFieldValidationError(field, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    []FieldError{{Field: field, Message: message}},
	}
}

// NewOverLimitError reports a reimbursement that would push the cumulative
// total past the expense amount. The message string is part of the wire
// contract; clients match on it.
func NewOverLimitError(expenseAmount, currentTotal, attempted decimal.Decimal) *AppError {
	return &AppError{
		Type:       ErrorTypeOverLimit,
		Code:       ErrCodeReimbursementOverLimit,
		Message:    "Reimbursement amount exceeds original expense amount",
		StatusCode: http.StatusUnprocessableEntity,
		Details: OverLimitDetails{
			ExpenseAmount:   expenseAmount,
			CurrentTotal:    currentTotal,
			AttemptedAmount: attempted,
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewUnsupportedMediaError(mimeType string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnsupportedMedia,
		Code:       ErrCodeUnsupportedMediaType,
		Message:    fmt.Sprintf("unsupported receipt type %q: only images and PDFs are accepted", mimeType),
		StatusCode: http.StatusUnsupportedMediaType,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrExpenseNotFound       = NewNotFoundError("Expense not found", ErrCodeExpenseNotFound)
	ErrReimbursementNotFound = NewNotFoundError("Reimbursement not found", ErrCodeReimbursementNotFound)
	ErrImageNotFound         = NewNotFoundError("Receipt image not found", ErrCodeImageNotFound)

	ErrMissingToken = NewUnauthorizedError("Missing authorization token", ErrCodeMissingToken)
	ErrInvalidToken = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
