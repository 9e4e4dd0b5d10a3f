package reimbursement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reimbursement is one payout recorded against an expense. The ledger
// invariant is that the amounts for an expense never sum past the expense
// amount; the repository enforces it at insert under a row lock.
type Reimbursement struct {
	ID           string          `json:"id" gorm:"primaryKey"`
	ExpenseID    string          `json:"expense_id" gorm:"column:expense_id;not null"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	ReimbursedAt time.Time       `json:"reimbursed_at" gorm:"column:reimbursed_at;not null"`
	Method       *string         `json:"method"`
	Notes        *string         `json:"notes"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (Reimbursement) TableName() string {
	return "reimbursements"
}

func NewReimbursement(dto AddReimbursementDTO) *Reimbursement {
	reimbursedAt := time.Now()
	if dto.ReimbursedAt != nil {
		reimbursedAt = *dto.ReimbursedAt
	}

	return &Reimbursement{
		ID:           uuid.NewString(),
		ExpenseID:    dto.ExpenseID,
		Amount:       dto.Amount,
		ReimbursedAt: reimbursedAt,
		Method:       dto.Method,
		Notes:        dto.Notes,
		CreatedAt:    time.Now(),
	}
}

// OverLimitError is returned by the repository when an insert would push
// the cumulative total past the expense amount. The transaction rolls back
// and prior state is untouched.
type OverLimitError struct {
	ExpenseAmount   decimal.Decimal
	CurrentTotal    decimal.Decimal
	AttemptedAmount decimal.Decimal
}

func (e *OverLimitError) Error() string {
	return fmt.Sprintf("reimbursement over limit: expense=%s current=%s attempted=%s",
		e.ExpenseAmount, e.CurrentTotal, e.AttemptedAmount)
}
