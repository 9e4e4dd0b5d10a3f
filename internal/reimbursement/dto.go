package reimbursement

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"hsaledger/internal"
)

const dateLayout = "2006-01-02"

type AddReimbursementDTO struct {
	ExpenseID    string          `json:"expense_id"`
	Amount       decimal.Decimal `json:"amount"`
	ReimbursedAt *time.Time      `json:"reimbursed_at"`
	Method       *string         `json:"method"`
	Notes        *string         `json:"notes"`
}

func (dto AddReimbursementDTO) Validate() error {
	if dto.ExpenseID == "" {
		return internal.NewFieldValidationError("expense_id", "expense id is required")
	}
	if !dto.Amount.IsPositive() {
		return internal.NewFieldValidationError("amount", "amount must be greater than 0")
	}
	return nil
}

// DateRange bounds a summary or export. Both ends are inclusive and
// compare against the expense's date_paid; nil means unbounded.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// ParseRange reads from/to/year query parameters. A year expands to that
// calendar year; explicit from/to win over year.
func ParseRange(from, to, year string) (DateRange, error) {
	var r DateRange

	if from == "" && to == "" && year != "" {
		y, err := strconv.Atoi(year)
		if err != nil || y < 1900 || y > 9999 {
			return r, internal.NewValidationError("year must be a four digit year", internal.ErrCodeInvalidRange)
		}
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
		r.From, r.To = &start, &end
		return r, nil
	}

	if from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return r, internal.NewValidationError("from must be formatted YYYY-MM-DD", internal.ErrCodeInvalidRange)
		}
		r.From = &t
	}
	if to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return r, internal.NewValidationError("to must be formatted YYYY-MM-DD", internal.ErrCodeInvalidRange)
		}
		r.To = &t
	}
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return r, internal.NewValidationError("from must not be after to", internal.ErrCodeInvalidRange)
	}
	return r, nil
}

// Label names a range for export filenames: "2024" for whole years,
// "2024-01-01_2024-06-30" for arbitrary ranges, "all" when unbounded.
func (r DateRange) Label() string {
	if r.From == nil && r.To == nil {
		return "all"
	}
	if r.From != nil && r.To != nil {
		if r.From.Month() == time.January && r.From.Day() == 1 &&
			r.To.Month() == time.December && r.To.Day() == 31 &&
			r.From.Year() == r.To.Year() {
			return strconv.Itoa(r.From.Year())
		}
		return fmt.Sprintf("%s_%s", r.From.Format(dateLayout), r.To.Format(dateLayout))
	}
	if r.From != nil {
		return fmt.Sprintf("from-%s", r.From.Format(dateLayout))
	}
	return fmt.Sprintf("to-%s", r.To.Format(dateLayout))
}

// Contains reports whether a paid date falls inside the range.
func (r DateRange) Contains(datePaid time.Time) bool {
	day := time.Date(datePaid.Year(), datePaid.Month(), datePaid.Day(), 0, 0, 0, 0, time.UTC)
	if r.From != nil && day.Before(*r.From) {
		return false
	}
	if r.To != nil && day.After(*r.To) {
		return false
	}
	return true
}

// SummaryResponse mirrors the client's summary views. Totals are plain
// JSON numbers; the summary page formats them with toFixed.
type SummaryResponse struct {
	TotalEligible   float64           `json:"totalEligible"`
	TotalReimbursed float64           `json:"totalReimbursed"`
	Remaining       float64           `json:"remaining"`
	ByCategory      []CategorySummary `json:"byCategory"`
	ByExpense       []ExpenseSummary  `json:"byExpense"`
}

type CategorySummary struct {
	CategoryID      *string `json:"categoryId"`
	CategoryName    string  `json:"categoryName"`
	TotalEligible   float64 `json:"totalEligible"`
	TotalReimbursed float64 `json:"totalReimbursed"`
	Remaining       float64 `json:"remaining"`
}

type ExpenseSummary struct {
	ExpenseID        string     `json:"expenseId"`
	Description      *string    `json:"description"`
	DatePaid         time.Time  `json:"datePaid"`
	TotalEligible    float64    `json:"totalEligible"`
	TotalReimbursed  float64    `json:"totalReimbursed"`
	Remaining        float64    `json:"remaining"`
	LastReimbursedAt *time.Time `json:"lastReimbursedAt"`
}
