package reimbursement

import (
	"encoding/csv"
	"fmt"
	"io"
)

// csvHeader is the stable column order of the tax export.
var csvHeader = []string{"Date", "Description", "Amount", "Reimbursed", "Remaining"}

// ExportFilename follows the hsa-reimbursements-<label>.csv convention.
func ExportFilename(r DateRange) string {
	return fmt.Sprintf("hsa-reimbursements-%s.csv", r.Label())
}

// WriteCSV streams one row per expense shown by the byExpense summary for
// the same range, so export row counts always match the summary view.
func WriteCSV(w io.Writer, rows []ExpenseSummary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, row := range rows {
		description := ""
		if row.Description != nil {
			description = *row.Description
		}
		record := []string{
			row.DatePaid.Format(dateLayout),
			description,
			fmt.Sprintf("%.2f", row.TotalEligible),
			fmt.Sprintf("%.2f", row.TotalReimbursed),
			fmt.Sprintf("%.2f", row.Remaining),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
