package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is an out-of-pocket medical expense. TotalReimbursed,
// RemainingToReimburse and CategoryName are derived per read from the
// reimbursement ledger and category table; they are never stored.
type Expense struct {
	ID            string          `json:"id" gorm:"primaryKey"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	DatePaid      time.Time       `json:"date_paid" gorm:"column:date_paid;type:date;not null"`
	PaymentMethod string          `json:"payment_method" gorm:"column:payment_method;not null"`
	CategoryID    *string         `json:"category_id" gorm:"column:category_id"`
	Description   *string         `json:"description"`
	IsArchived    bool            `json:"is_archived" gorm:"column:is_archived;default:false"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	TotalReimbursed      decimal.Decimal `json:"total_reimbursed" gorm:"->;-:migration"`
	RemainingToReimburse decimal.Decimal `json:"remaining_to_reimburse" gorm:"->;-:migration"`
	CategoryName         *string         `json:"category_name" gorm:"->;-:migration"`
}

func (Expense) TableName() string {
	return "expenses"
}

// Status filters for listings.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
	StatusAll      = "all"
)

func NewExpense(dto CreateExpenseDTO) *Expense {
	now := time.Now()
	datePaid, _ := dto.ParsedDate()

	return &Expense{
		ID:            uuid.NewString(),
		Amount:        dto.Amount,
		DatePaid:      datePaid,
		PaymentMethod: dto.PaymentMethod,
		CategoryID:    dto.CategoryID,
		Description:   dto.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Remaining floors at zero so a fully reimbursed expense never reports a
// negative balance.
func Remaining(amount, reimbursed decimal.Decimal) decimal.Decimal {
	remaining := amount.Sub(reimbursed)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
