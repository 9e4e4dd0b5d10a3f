package postgres

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hsaledger/internal/expense"
	"hsaledger/internal/reimbursement"
)

// ReimbursementRepository implements reimbursement.Repository using GORM.
type ReimbursementRepository struct {
	db *gorm.DB
}

func NewReimbursementRepository(db *gorm.DB) reimbursement.Repository {
	return &ReimbursementRepository{db: db}
}

// Add inserts under a transaction that locks the parent expense row, so
// two concurrent adds that each fit individually cannot both commit when
// their sum would not. sqlite (used in tests) has no FOR UPDATE; its
// single-writer transactions serialize writes anyway.
func (r *ReimbursementRepository) Add(rb *reimbursement.Reimbursement) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&expense.Expense{})
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var exp expense.Expense
		if err := q.Where("id = ?", rb.ExpenseID).First(&exp).Error; err != nil {
			return err
		}

		currentTotal, err := sumForExpense(tx, rb.ExpenseID)
		if err != nil {
			return err
		}

		if currentTotal.Add(rb.Amount).GreaterThan(exp.Amount) {
			return &reimbursement.OverLimitError{
				ExpenseAmount:   exp.Amount,
				CurrentTotal:    currentTotal,
				AttemptedAmount: rb.Amount,
			}
		}

		return tx.Create(rb).Error
	})
}

func sumForExpense(tx *gorm.DB, expenseID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Raw(
		"SELECT COALESCE(SUM(amount), 0) FROM reimbursements WHERE expense_id = ?",
		expenseID,
	).Row().Scan(&total)
	return total, err
}

func (r *ReimbursementRepository) GetByID(id string) (*reimbursement.Reimbursement, error) {
	var rb reimbursement.Reimbursement
	if err := r.db.Where("id = ?", id).First(&rb).Error; err != nil {
		return nil, err
	}
	return &rb, nil
}

func (r *ReimbursementRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&reimbursement.Reimbursement{}).Error
}

func (r *ReimbursementRepository) ListForExpense(expenseID string) ([]*reimbursement.Reimbursement, error) {
	var rbs []*reimbursement.Reimbursement
	err := r.db.Where("expense_id = ?", expenseID).
		Order("reimbursed_at DESC, id DESC").
		Find(&rbs).Error
	return rbs, err
}

// SummaryRows loads one row per expense paid inside the range, with its
// ledger total and last reimbursement time. Archived expenses stay in;
// archival never rewrites history.
func (r *ReimbursementRepository) SummaryRows(rng reimbursement.DateRange) ([]reimbursement.SummaryRow, error) {
	q := r.db.Table("expenses").
		Select(`expenses.id AS expense_id,
			expenses.description,
			expenses.date_paid,
			expenses.amount,
			expenses.category_id,
			c.name AS category_name,
			COALESCE(l.total, 0) AS reimbursed,
			l.last_at AS last_reimbursed_at`).
		Joins("LEFT JOIN (SELECT expense_id, SUM(amount) AS total, MAX(reimbursed_at) AS last_at FROM reimbursements GROUP BY expense_id) l ON l.expense_id = expenses.id").
		Joins("LEFT JOIN categories c ON c.id = expenses.category_id")

	if rng.From != nil {
		q = q.Where("expenses.date_paid >= ?", *rng.From)
	}
	if rng.To != nil {
		q = q.Where("expenses.date_paid <= ?", *rng.To)
	}

	var rows []reimbursement.SummaryRow
	err := q.Order("expenses.date_paid ASC, expenses.id ASC").Scan(&rows).Error
	return rows, err
}
