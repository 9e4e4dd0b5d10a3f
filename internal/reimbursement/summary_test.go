package reimbursement_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"hsaledger/internal/reimbursement"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

var _ = Describe("BuildSummary", func() {
	It("should return empty slices rather than nils for no rows", func() {
		summary := reimbursement.BuildSummary(nil)

		Expect(summary.TotalEligible).To(Equal(0.0))
		Expect(summary.ByCategory).ToNot(BeNil())
		Expect(summary.ByCategory).To(BeEmpty())
		Expect(summary.ByExpense).ToNot(BeNil())
		Expect(summary.ByExpense).To(BeEmpty())
	})

	It("should fold totals across partially and fully reimbursed expenses", func() {
		lastA := time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC)
		lastB := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
		rows := []reimbursement.SummaryRow{
			{
				ExpenseID:        "a",
				DatePaid:         time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
				Amount:           decimal.RequireFromString("100.00"),
				Reimbursed:       decimal.RequireFromString("60.00"),
				LastReimbursedAt: &lastA,
			},
			{
				ExpenseID:        "b",
				DatePaid:         time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC),
				Amount:           decimal.RequireFromString("50.00"),
				Reimbursed:       decimal.RequireFromString("50.00"),
				LastReimbursedAt: &lastB,
			},
		}

		summary := reimbursement.BuildSummary(rows)

		Expect(summary.TotalEligible).To(Equal(150.0))
		Expect(summary.TotalReimbursed).To(Equal(110.0))
		Expect(summary.Remaining).To(Equal(40.0))
	})

	It("should exclude never-reimbursed expenses from byExpense but count them in totals", func() {
		last := time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC)
		rows := []reimbursement.SummaryRow{
			{
				ExpenseID:        "reimbursed",
				DatePaid:         time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
				Amount:           decimal.RequireFromString("100.00"),
				Reimbursed:       decimal.RequireFromString("25.00"),
				LastReimbursedAt: &last,
			},
			{
				ExpenseID:  "untouched",
				DatePaid:   time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC),
				Amount:     decimal.RequireFromString("30.00"),
				Reimbursed: decimal.Zero,
			},
		}

		summary := reimbursement.BuildSummary(rows)

		Expect(summary.TotalEligible).To(Equal(130.0))
		Expect(summary.ByExpense).To(HaveLen(1))
		Expect(summary.ByExpense[0].ExpenseID).To(Equal("reimbursed"))
	})

	It("should group uncategorized expenses under the synthetic row, sorted last", func() {
		rows := []reimbursement.SummaryRow{
			{
				ExpenseID:    "a",
				Amount:       decimal.RequireFromString("10.00"),
				CategoryID:   nil,
				CategoryName: nil,
			},
			{
				ExpenseID:    "b",
				Amount:       decimal.RequireFromString("20.00"),
				CategoryID:   strPtr("cat-vision"),
				CategoryName: strPtr("Vision"),
			},
			{
				ExpenseID:    "c",
				Amount:       decimal.RequireFromString("5.00"),
				CategoryID:   strPtr("cat-dental"),
				CategoryName: strPtr("Dental"),
			},
		}

		summary := reimbursement.BuildSummary(rows)

		Expect(summary.ByCategory).To(HaveLen(3))
		Expect(summary.ByCategory[0].CategoryName).To(Equal("Dental"))
		Expect(summary.ByCategory[1].CategoryName).To(Equal("Vision"))
		Expect(summary.ByCategory[2].CategoryName).To(Equal(reimbursement.UncategorizedName))
		Expect(summary.ByCategory[2].CategoryID).To(BeNil())
		Expect(summary.ByCategory[2].TotalEligible).To(Equal(10.0))
	})

	It("should order byExpense newest reimbursement first with id tie-break", func() {
		early := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
		late := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
		rows := []reimbursement.SummaryRow{
			{ExpenseID: "a", Amount: decimal.RequireFromString("10.00"), Reimbursed: decimal.RequireFromString("1.00"), LastReimbursedAt: timePtr(early)},
			{ExpenseID: "b", Amount: decimal.RequireFromString("10.00"), Reimbursed: decimal.RequireFromString("1.00"), LastReimbursedAt: timePtr(late)},
			{ExpenseID: "c", Amount: decimal.RequireFromString("10.00"), Reimbursed: decimal.RequireFromString("1.00"), LastReimbursedAt: timePtr(late)},
		}

		summary := reimbursement.BuildSummary(rows)

		ids := []string{}
		for _, row := range summary.ByExpense {
			ids = append(ids, row.ExpenseID)
		}
		Expect(ids).To(Equal([]string{"c", "b", "a"}))
	})
})
