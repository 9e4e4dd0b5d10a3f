package reimbursement

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"hsaledger/internal"
	"hsaledger/internal/core/events"
)

// Repository defines the data access methods for the ledger. Add must
// serialize concurrent inserts against the same expense so the over-limit
// check cannot race; the postgres implementation locks the expense row.
type Repository interface {
	Add(rb *Reimbursement) error
	GetByID(id string) (*Reimbursement, error)
	Delete(id string) error
	ListForExpense(expenseID string) ([]*Reimbursement, error)
	SummaryRows(r DateRange) ([]SummaryRow, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo   Repository
	bus    Publisher
	logger *slog.Logger
}

func NewService(repo Repository, bus Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

func (s *Service) Add(ctx context.Context, dto AddReimbursementDTO) (*Reimbursement, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("reimbursement validation failed", "error", err)
		return nil, err
	}

	rb := NewReimbursement(dto)
	if err := s.repo.Add(rb); err != nil {
		var overLimit *OverLimitError
		switch {
		case errors.As(err, &overLimit):
			s.logger.Warn("reimbursement over limit rejected",
				"expense_id", dto.ExpenseID,
				"expense_amount", overLimit.ExpenseAmount,
				"current_total", overLimit.CurrentTotal,
				"attempted", overLimit.AttemptedAmount)
			return nil, internal.NewOverLimitError(
				overLimit.ExpenseAmount,
				overLimit.CurrentTotal,
				overLimit.AttemptedAmount,
			)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, internal.ErrExpenseNotFound
		default:
			s.logger.Error("failed to add reimbursement", "error", err, "expense_id", dto.ExpenseID)
			return nil, internal.NewInternalError("failed to add reimbursement", err)
		}
	}

	s.publish(ctx, events.ReimbursementAdded, rb.ExpenseID)
	s.logger.Info("reimbursement added",
		"reimbursement_id", rb.ID,
		"expense_id", rb.ExpenseID,
		"amount", rb.Amount)

	return rb, nil
}

// Delete removes a ledger entry. Derived expense totals are query-derived,
// so the owning expense's balance is restored on the next read.
func (s *Service) Delete(ctx context.Context, id string) error {
	rb, err := s.repo.GetByID(id)
	if err != nil {
		return internal.ErrReimbursementNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete reimbursement", "error", err, "reimbursement_id", id)
		return internal.NewInternalError("failed to delete reimbursement", err)
	}

	s.publish(ctx, events.ReimbursementDeleted, rb.ExpenseID)
	s.logger.Info("reimbursement deleted", "reimbursement_id", id, "expense_id", rb.ExpenseID)
	return nil
}

func (s *Service) ListForExpense(ctx context.Context, expenseID string) ([]*Reimbursement, error) {
	rbs, err := s.repo.ListForExpense(expenseID)
	if err != nil {
		s.logger.Error("failed to list reimbursements", "error", err, "expense_id", expenseID)
		return nil, internal.NewInternalError("failed to list reimbursements", err)
	}
	return rbs, nil
}

// Summary aggregates the ledger over a date_paid range. See BuildSummary
// for the exact semantics.
func (s *Service) Summary(ctx context.Context, r DateRange) (SummaryResponse, error) {
	rows, err := s.repo.SummaryRows(r)
	if err != nil {
		s.logger.Error("failed to load summary rows", "error", err)
		return SummaryResponse{}, internal.NewInternalError("failed to compute summary", err)
	}
	return BuildSummary(rows), nil
}

// ExportRows returns the byExpense rows for a range, for CSV rendering.
func (s *Service) ExportRows(ctx context.Context, r DateRange) ([]ExpenseSummary, error) {
	summary, err := s.Summary(ctx, r)
	if err != nil {
		return nil, err
	}
	return summary.ByExpense, nil
}

func (s *Service) publish(ctx context.Context, eventType, expenseID string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, events.NewMutation(eventType, expenseID)); err != nil {
		s.logger.Warn("failed to publish mutation event", "error", err, "event_type", eventType)
	}
}
