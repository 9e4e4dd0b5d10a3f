package reimbursement

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"hsaledger/internal/expense"
)

// UncategorizedName labels the synthetic category row for expenses with no
// category reference.
const UncategorizedName = "Uncategorized"

// SummaryRow is one expense with its reimbursed total, as produced by the
// repository for a date range. Aggregation over these rows is pure.
type SummaryRow struct {
	ExpenseID        string
	Description      *string
	DatePaid         time.Time
	Amount           decimal.Decimal
	CategoryID       *string
	CategoryName     *string
	Reimbursed       decimal.Decimal
	LastReimbursedAt *time.Time
}

func (r SummaryRow) Remaining() decimal.Decimal {
	return expense.Remaining(r.Amount, r.Reimbursed)
}

// BuildSummary folds per-expense rows into the overall, per-category and
// per-expense views. Output ordering is fixed so identical inputs yield
// identical responses: categories by name with Uncategorized last,
// expenses by last reimbursement, newest first.
func BuildSummary(rows []SummaryRow) SummaryResponse {
	resp := SummaryResponse{
		ByCategory: []CategorySummary{},
		ByExpense:  []ExpenseSummary{},
	}

	totalEligible := decimal.Zero
	totalReimbursed := decimal.Zero
	remaining := decimal.Zero

	type catAgg struct {
		id         *string
		name       string
		eligible   decimal.Decimal
		reimbursed decimal.Decimal
		remaining  decimal.Decimal
	}
	cats := make(map[string]*catAgg)

	for _, row := range rows {
		totalEligible = totalEligible.Add(row.Amount)
		totalReimbursed = totalReimbursed.Add(row.Reimbursed)
		remaining = remaining.Add(row.Remaining())

		key := ""
		name := UncategorizedName
		if row.CategoryID != nil {
			key = *row.CategoryID
			if row.CategoryName != nil {
				name = *row.CategoryName
			}
		}
		agg, ok := cats[key]
		if !ok {
			agg = &catAgg{
				id:         row.CategoryID,
				name:       name,
				eligible:   decimal.Zero,
				reimbursed: decimal.Zero,
				remaining:  decimal.Zero,
			}
			cats[key] = agg
		}
		agg.eligible = agg.eligible.Add(row.Amount)
		agg.reimbursed = agg.reimbursed.Add(row.Reimbursed)
		agg.remaining = agg.remaining.Add(row.Remaining())

		if row.LastReimbursedAt != nil {
			resp.ByExpense = append(resp.ByExpense, ExpenseSummary{
				ExpenseID:        row.ExpenseID,
				Description:      row.Description,
				DatePaid:         row.DatePaid,
				TotalEligible:    row.Amount.InexactFloat64(),
				TotalReimbursed:  row.Reimbursed.InexactFloat64(),
				Remaining:        row.Remaining().InexactFloat64(),
				LastReimbursedAt: row.LastReimbursedAt,
			})
		}
	}

	resp.TotalEligible = totalEligible.InexactFloat64()
	resp.TotalReimbursed = totalReimbursed.InexactFloat64()
	resp.Remaining = remaining.InexactFloat64()

	for _, agg := range cats {
		resp.ByCategory = append(resp.ByCategory, CategorySummary{
			CategoryID:      agg.id,
			CategoryName:    agg.name,
			TotalEligible:   agg.eligible.InexactFloat64(),
			TotalReimbursed: agg.reimbursed.InexactFloat64(),
			Remaining:       agg.remaining.InexactFloat64(),
		})
	}

	sort.Slice(resp.ByCategory, func(i, j int) bool {
		a, b := resp.ByCategory[i], resp.ByCategory[j]
		if (a.CategoryID == nil) != (b.CategoryID == nil) {
			return b.CategoryID == nil // Uncategorized sorts last
		}
		return a.CategoryName < b.CategoryName
	})

	sort.Slice(resp.ByExpense, func(i, j int) bool {
		a, b := resp.ByExpense[i], resp.ByExpense[j]
		if !a.LastReimbursedAt.Equal(*b.LastReimbursedAt) {
			return a.LastReimbursedAt.After(*b.LastReimbursedAt)
		}
		return a.ExpenseID > b.ExpenseID
	})

	return resp
}
