package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Mutation event types. Each mutation the API performs publishes exactly
// one of these; subscribers learn which read queries went stale from
// AffectedKeys.
const (
	ExpenseCreated       = "expense.created"
	ExpenseUpdated       = "expense.updated"
	ExpenseArchived      = "expense.archived"
	ExpenseDeleted       = "expense.deleted"
	ReimbursementAdded   = "reimbursement.added"
	ReimbursementDeleted = "reimbursement.deleted"
	ImageUploaded        = "image.uploaded"
	ImageDeleted         = "image.deleted"
)

// MutationTypes lists every mutation event this service publishes.
func MutationTypes() []string {
	return []string{
		ExpenseCreated, ExpenseUpdated, ExpenseArchived, ExpenseDeleted,
		ReimbursementAdded, ReimbursementDeleted,
		ImageUploaded, ImageDeleted,
	}
}

// Read-query cache keys, mirroring what the browser client keeps in its
// query cache.
const (
	KeyExpenses = "expenses"
	KeySummary  = "summary"
)

func KeyExpense(id string) string        { return "expense/" + id }
func KeyReimbursements(id string) string { return "reimbursements/" + id }
func KeyImages(id string) string         { return "images/" + id }

// AffectedKeys is the mutation -> stale-read-keys dependency table.
// Expense mutations touch listings and the summary; ledger mutations
// additionally touch the owning expense's derived totals; image mutations
// only touch that expense's image list.
func AffectedKeys(eventType, expenseID string) []string {
	switch eventType {
	case ExpenseCreated, ExpenseUpdated, ExpenseArchived, ExpenseDeleted:
		return []string{KeyExpenses, KeyExpense(expenseID), KeySummary}
	case ReimbursementAdded, ReimbursementDeleted:
		return []string{KeyExpenses, KeyExpense(expenseID), KeyReimbursements(expenseID), KeySummary}
	case ImageUploaded, ImageDeleted:
		return []string{KeyImages(expenseID)}
	default:
		return nil
	}
}

// MutationEvent is published after a successful write. Payload carries the
// affected read keys so cache layers can invalidate without knowing domain
// internals.
type MutationEvent struct {
	ID        string
	Type      string
	ExpenseID string
	Timestamp time.Time
}

func NewMutation(eventType, expenseID string) MutationEvent {
	return MutationEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		ExpenseID: expenseID,
		Timestamp: time.Now(),
	}
}

func (e MutationEvent) EventType() string     { return e.Type }
func (e MutationEvent) EventID() string       { return e.ID }
func (e MutationEvent) OccurredAt() time.Time { return e.Timestamp }

func (e MutationEvent) Payload() interface{} {
	return map[string]interface{}{
		"expense_id":    e.ExpenseID,
		"affected_keys": AffectedKeys(e.Type, e.ExpenseID),
	}
}

func (e MutationEvent) String() string {
	return fmt.Sprintf("%s expense=%s", e.Type, e.ExpenseID)
}
