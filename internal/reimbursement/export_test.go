package reimbursement_test

import (
	"bytes"
	"encoding/csv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hsaledger/internal/reimbursement"
)

var _ = Describe("WriteCSV", func() {
	It("should write the header and one row per expense", func() {
		last := time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC)
		rows := []reimbursement.ExpenseSummary{
			{
				ExpenseID:        "a",
				Description:      strPtr("Annual dental cleaning"),
				DatePaid:         time.Date(2026, time.January, 14, 0, 0, 0, 0, time.UTC),
				TotalEligible:    180.0,
				TotalReimbursed:  180.0,
				Remaining:        0.0,
				LastReimbursedAt: &last,
			},
			{
				ExpenseID:        "b",
				Description:      nil,
				DatePaid:         time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC),
				TotalEligible:    420.5,
				TotalReimbursed:  250.0,
				Remaining:        170.5,
				LastReimbursedAt: &last,
			},
		}

		var buf bytes.Buffer
		err := reimbursement.WriteCSV(&buf, rows)
		Expect(err).ToNot(HaveOccurred())

		records, err := csv.NewReader(&buf).ReadAll()
		Expect(err).ToNot(HaveOccurred())
		Expect(records).To(HaveLen(3))
		Expect(records[0]).To(Equal([]string{"Date", "Description", "Amount", "Reimbursed", "Remaining"}))
		Expect(records[1]).To(Equal([]string{"2026-01-14", "Annual dental cleaning", "180.00", "180.00", "0.00"}))
		Expect(records[2]).To(Equal([]string{"2026-02-03", "", "420.50", "250.00", "170.50"}))
	})

	It("should produce a header-only file for an empty range", func() {
		var buf bytes.Buffer
		err := reimbursement.WriteCSV(&buf, nil)
		Expect(err).ToNot(HaveOccurred())

		records, err := csv.NewReader(&buf).ReadAll()
		Expect(err).ToNot(HaveOccurred())
		Expect(records).To(HaveLen(1))
	})
})

var _ = Describe("ExportFilename", func() {
	It("should label whole calendar years by the year alone", func() {
		rng, err := reimbursement.ParseRange("", "", "2024")
		Expect(err).ToNot(HaveOccurred())

		Expect(reimbursement.ExportFilename(rng)).To(Equal("hsa-reimbursements-2024.csv"))
	})

	It("should label arbitrary ranges with both bounds", func() {
		rng, err := reimbursement.ParseRange("2024-01-01", "2024-06-30", "")
		Expect(err).ToNot(HaveOccurred())

		Expect(reimbursement.ExportFilename(rng)).To(Equal("hsa-reimbursements-2024-01-01_2024-06-30.csv"))
	})

	It("should label the unbounded range as all", func() {
		Expect(reimbursement.ExportFilename(reimbursement.DateRange{})).To(Equal("hsa-reimbursements-all.csv"))
	})
})
