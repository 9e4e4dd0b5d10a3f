package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"hsaledger/internal"
)

const dateLayout = "2006-01-02"

// CreateExpenseDTO is the request payload for creating an expense.
// DatePaid arrives as a YYYY-MM-DD string from the date input.
type CreateExpenseDTO struct {
	Amount        decimal.Decimal `json:"amount"`
	DatePaid      string          `json:"date_paid"`
	PaymentMethod string          `json:"payment_method"`
	CategoryID    *string         `json:"category_id"`
	Description   *string         `json:"description"`
}

func (dto CreateExpenseDTO) ParsedDate() (time.Time, error) {
	return time.Parse(dateLayout, dto.DatePaid)
}

func (dto CreateExpenseDTO) Validate() error {
	if !dto.Amount.IsPositive() {
		return internal.NewFieldValidationError("amount", "amount must be greater than 0")
	}
	if dto.DatePaid == "" {
		return internal.NewFieldValidationError("date_paid", "date paid is required")
	}
	if _, err := dto.ParsedDate(); err != nil {
		return internal.NewFieldValidationError("date_paid", "date paid must be formatted YYYY-MM-DD")
	}
	if dto.PaymentMethod == "" {
		return internal.NewFieldValidationError("payment_method", "payment method is required")
	}
	if dto.CategoryID != nil && *dto.CategoryID == "" {
		return internal.NewFieldValidationError("category_id", "category id must not be empty when present")
	}
	return nil
}

// UpdateExpenseDTO carries the full editable field set; the client always
// sends every field on edit.
type UpdateExpenseDTO struct {
	Amount        decimal.Decimal `json:"amount"`
	DatePaid      string          `json:"date_paid"`
	PaymentMethod string          `json:"payment_method"`
	CategoryID    *string         `json:"category_id"`
	Description   *string         `json:"description"`
}

func (dto UpdateExpenseDTO) ParsedDate() (time.Time, error) {
	return time.Parse(dateLayout, dto.DatePaid)
}

func (dto UpdateExpenseDTO) Validate() error {
	return CreateExpenseDTO{
		Amount:        dto.Amount,
		DatePaid:      dto.DatePaid,
		PaymentMethod: dto.PaymentMethod,
		CategoryID:    dto.CategoryID,
		Description:   dto.Description,
	}.Validate()
}

// ParseStatus maps the ?status= query value onto a listing filter,
// defaulting to active.
func ParseStatus(raw string) (string, error) {
	switch raw {
	case "", StatusActive:
		return StatusActive, nil
	case StatusArchived:
		return StatusArchived, nil
	case StatusAll:
		return StatusAll, nil
	default:
		return "", internal.NewValidationError("status must be one of active, archived, all", internal.ErrCodeInvalidStatus)
	}
}
