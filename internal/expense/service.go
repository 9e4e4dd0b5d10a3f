package expense

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"hsaledger/internal"
	"hsaledger/internal/core/events"
)

// Repository defines the data access methods for expenses
type Repository interface {
	Create(expense *Expense) error
	GetByID(id string) (*Expense, error)
	List(status string) ([]*Expense, error)
	Update(expense *Expense) error
	SetArchived(id string, archived bool) error
	Delete(id string) error
	TotalReimbursed(id string) (decimal.Decimal, error)
}

// CategoryChecker confirms a referenced category exists before an expense
// is bound to it.
type CategoryChecker interface {
	Exists(id string) (bool, error)
}

// ReceiptPurger removes the stored receipt blobs for an expense ahead of a
// cascading delete, so nothing is orphaned on disk.
type ReceiptPurger interface {
	PurgeForExpense(ctx context.Context, expenseID string) error
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service handles expense business logic
type Service struct {
	repo       Repository
	categories CategoryChecker
	receipts   ReceiptPurger
	bus        Publisher
	logger     *slog.Logger
}

func NewService(repo Repository, categories CategoryChecker, receipts ReceiptPurger, bus Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		receipts:   receipts,
		bus:        bus,
		logger:     logger,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense validation failed", "error", err)
		return nil, err
	}

	if err := s.checkCategory(dto.CategoryID); err != nil {
		return nil, err
	}

	exp := NewExpense(dto)
	if err := s.repo.Create(exp); err != nil {
		s.logger.Error("failed to create expense", "error", err)
		return nil, internal.NewInternalError("failed to create expense", err)
	}

	exp.TotalReimbursed = decimal.Zero
	exp.RemainingToReimburse = exp.Amount

	s.publish(ctx, events.ExpenseCreated, exp.ID)
	s.logger.Info("expense created",
		"expense_id", exp.ID,
		"amount", exp.Amount,
		"date_paid", exp.DatePaid,
		"user_id", internal.UserIDFromContext(ctx))

	return exp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Expense, error) {
	exp, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Warn("failed to get expense", "error", err, "expense_id", id)
		return nil, internal.ErrExpenseNotFound
	}
	return exp, nil
}

func (s *Service) List(ctx context.Context, status string) ([]*Expense, error) {
	filter, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	expenses, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "status", filter)
		return nil, internal.NewInternalError("failed to list expenses", err)
	}
	return expenses, nil
}

// Update re-validates like Create and additionally refuses to lower the
// amount below what has already been reimbursed.
func (s *Service) Update(ctx context.Context, id string, dto UpdateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense update validation failed", "error", err, "expense_id", id)
		return nil, err
	}

	if err := s.checkCategory(dto.CategoryID); err != nil {
		return nil, err
	}

	exp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrExpenseNotFound
	}

	reimbursed, err := s.repo.TotalReimbursed(id)
	if err != nil {
		s.logger.Error("failed to compute reimbursed total", "error", err, "expense_id", id)
		return nil, internal.NewInternalError("failed to compute reimbursed total", err)
	}
	if dto.Amount.LessThan(reimbursed) {
		s.logger.Warn("amount below reimbursed total rejected",
			"expense_id", id,
			"amount", dto.Amount,
			"reimbursed", reimbursed)
		return nil, internal.NewValidationError(
			"amount cannot be lower than the already reimbursed total",
			internal.ErrCodeAmountBelowReimbursed,
		).WithDetails(internal.OverLimitDetails{
			ExpenseAmount:   dto.Amount,
			CurrentTotal:    reimbursed,
			AttemptedAmount: dto.Amount,
		})
	}

	datePaid, _ := dto.ParsedDate()
	exp.Amount = dto.Amount
	exp.DatePaid = datePaid
	exp.PaymentMethod = dto.PaymentMethod
	exp.CategoryID = dto.CategoryID
	exp.Description = dto.Description
	exp.UpdatedAt = time.Now()

	if err := s.repo.Update(exp); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, internal.NewInternalError("failed to update expense", err)
	}

	updated, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrExpenseNotFound
	}

	s.publish(ctx, events.ExpenseUpdated, id)
	s.logger.Info("expense updated", "expense_id", id)
	return updated, nil
}

func (s *Service) Archive(ctx context.Context, id string) (*Expense, error) {
	return s.setArchived(ctx, id, true)
}

func (s *Service) Unarchive(ctx context.Context, id string) (*Expense, error) {
	return s.setArchived(ctx, id, false)
}

func (s *Service) setArchived(ctx context.Context, id string, archived bool) (*Expense, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		return nil, internal.ErrExpenseNotFound
	}

	if err := s.repo.SetArchived(id, archived); err != nil {
		s.logger.Error("failed to toggle archive flag", "error", err, "expense_id", id, "archived", archived)
		return nil, internal.NewInternalError("failed to update archive state", err)
	}

	exp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrExpenseNotFound
	}

	s.publish(ctx, events.ExpenseArchived, id)
	s.logger.Info("expense archive state changed", "expense_id", id, "archived", archived)
	return exp, nil
}

// Delete removes the expense permanently. Reimbursements and image records
// cascade in the database; receipt blobs are purged first.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrExpenseNotFound
	}

	if s.receipts != nil {
		if err := s.receipts.PurgeForExpense(ctx, id); err != nil {
			s.logger.Error("failed to purge receipt blobs", "error", err, "expense_id", id)
			return internal.NewInternalError("failed to remove receipt files", err)
		}
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return internal.NewInternalError("failed to delete expense", err)
	}

	s.publish(ctx, events.ExpenseDeleted, id)
	s.logger.Info("expense deleted", "expense_id", id, "user_id", internal.UserIDFromContext(ctx))
	return nil
}

func (s *Service) checkCategory(categoryID *string) error {
	if categoryID == nil || s.categories == nil {
		return nil
	}
	exists, err := s.categories.Exists(*categoryID)
	if err != nil {
		s.logger.Error("failed to check category", "error", err, "category_id", *categoryID)
		return internal.NewInternalError("failed to check category", err)
	}
	if !exists {
		return internal.NewValidationError("category does not exist", internal.ErrCodeInvalidCategory)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, eventType, expenseID string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, events.NewMutation(eventType, expenseID)); err != nil {
		s.logger.Warn("failed to publish mutation event", "error", err, "event_type", eventType)
	}
}
