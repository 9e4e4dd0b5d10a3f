package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hsaledger/internal/expense"
)

// ExpenseRepository implements the expense.Repository interface using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

const reimbursedJoin = "LEFT JOIN (SELECT expense_id, SUM(amount) AS total FROM reimbursements GROUP BY expense_id) r ON r.expense_id = expenses.id"
const categoryJoin = "LEFT JOIN categories c ON c.id = expenses.category_id"

// withDerived selects expenses together with their reimbursed total and
// category name. Remaining is floored in Go; GREATEST is not portable to
// the sqlite test dialect.
func (r *ExpenseRepository) withDerived() *gorm.DB {
	return r.db.Model(&expense.Expense{}).
		Select("expenses.*, COALESCE(r.total, 0) AS total_reimbursed, c.name AS category_name").
		Joins(reimbursedJoin).
		Joins(categoryJoin)
}

func finishDerived(expenses []*expense.Expense) {
	for _, e := range expenses {
		e.RemainingToReimburse = expense.Remaining(e.Amount, e.TotalReimbursed)
	}
}

func (r *ExpenseRepository) Create(exp *expense.Expense) error {
	return r.db.Create(exp).Error
}

func (r *ExpenseRepository) GetByID(id string) (*expense.Expense, error) {
	var exp expense.Expense
	err := r.withDerived().Where("expenses.id = ?", id).First(&exp).Error
	if err != nil {
		return nil, err
	}
	exp.RemainingToReimburse = expense.Remaining(exp.Amount, exp.TotalReimbursed)
	return &exp, nil
}

func (r *ExpenseRepository) List(status string) ([]*expense.Expense, error) {
	q := r.withDerived()

	switch status {
	case expense.StatusActive:
		q = q.Where("expenses.is_archived = ?", false)
	case expense.StatusArchived:
		q = q.Where("expenses.is_archived = ?", true)
	}

	var expenses []*expense.Expense
	// most recent first; id breaks ties so the order is stable
	err := q.Order("expenses.date_paid DESC, expenses.id DESC").Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	finishDerived(expenses)
	return expenses, nil
}

func (r *ExpenseRepository) Update(exp *expense.Expense) error {
	exp.UpdatedAt = time.Now()
	return r.db.Save(exp).Error
}

func (r *ExpenseRepository) SetArchived(id string, archived bool) error {
	return r.db.Model(&expense.Expense{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_archived": archived,
			"updated_at":  time.Now(),
		}).Error
}

func (r *ExpenseRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&expense.Expense{}).Error
}

func (r *ExpenseRepository) TotalReimbursed(id string) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.Raw("SELECT COALESCE(SUM(amount), 0) FROM reimbursements WHERE expense_id = ?", id).Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
