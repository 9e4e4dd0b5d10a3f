package image

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	"hsaledger/internal"
	"hsaledger/internal/core/events"
	"hsaledger/internal/expense"
	"hsaledger/internal/image/storage"
)

type Repository interface {
	Create(img *Image) error
	GetByID(id string) (*Image, error)
	ListForExpense(expenseID string) ([]*Image, error)
	Delete(id string) error
}

// ExpenseReader confirms the parent expense exists before an upload is
// accepted.
type ExpenseReader interface {
	GetByID(id string) (*expense.Expense, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo     Repository
	expenses ExpenseReader
	store    storage.Store
	bus      Publisher
	logger   *slog.Logger
}

func NewService(repo Repository, expenses ExpenseReader, store storage.Store, bus Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		expenses: expenses,
		store:    store,
		bus:      bus,
		logger:   logger,
	}
}

// Upload sniffs the contents rather than trusting the client's type
// header; only images and PDFs are stored.
func (s *Service) Upload(ctx context.Context, expenseID string, contents io.Reader) (*Image, error) {
	if expenseID == "" {
		return nil, internal.NewFieldValidationError("expenseId", "expense id is required")
	}

	if _, err := s.expenses.GetByID(expenseID); err != nil {
		return nil, internal.ErrExpenseNotFound
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(contents, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		s.logger.Error("failed to read upload", "error", err, "expense_id", expenseID)
		return nil, internal.NewInternalError("failed to read upload", err)
	}
	head = head[:n]

	mimeType := http.DetectContentType(head)
	if !AcceptedMime(mimeType) {
		s.logger.Warn("unsupported receipt type rejected", "mime_type", mimeType, "expense_id", expenseID)
		return nil, internal.NewUnsupportedMediaError(mimeType)
	}

	img := NewImage(expenseID, mimeType)

	url, err := s.store.Save(ctx, img.StorageKey, io.MultiReader(bytes.NewReader(head), contents))
	if err != nil {
		s.logger.Error("failed to store receipt blob", "error", err, "expense_id", expenseID)
		return nil, internal.NewInternalError("failed to store receipt", err)
	}
	img.ImageURL = url

	if err := s.repo.Create(img); err != nil {
		// keep storage consistent with the record set
		if delErr := s.store.Delete(ctx, img.StorageKey); delErr != nil {
			s.logger.Error("failed to clean up blob after record failure", "error", delErr, "key", img.StorageKey)
		}
		s.logger.Error("failed to create image record", "error", err, "expense_id", expenseID)
		return nil, internal.NewInternalError("failed to record receipt", err)
	}

	s.publish(ctx, events.ImageUploaded, expenseID)
	s.logger.Info("receipt uploaded",
		"image_id", img.ID,
		"expense_id", expenseID,
		"mime_type", mimeType)

	return img, nil
}

func (s *Service) ListForExpense(ctx context.Context, expenseID string) ([]*Image, error) {
	images, err := s.repo.ListForExpense(expenseID)
	if err != nil {
		s.logger.Error("failed to list images", "error", err, "expense_id", expenseID)
		return nil, internal.NewInternalError("failed to list images", err)
	}
	return images, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	img, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return internal.ErrImageNotFound
		}
		return internal.NewInternalError("failed to load image", err)
	}

	if err := s.store.Delete(ctx, img.StorageKey); err != nil {
		s.logger.Error("failed to delete receipt blob", "error", err, "image_id", id)
		return internal.NewInternalError("failed to delete receipt file", err)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete image record", "error", err, "image_id", id)
		return internal.NewInternalError("failed to delete image", err)
	}

	s.publish(ctx, events.ImageDeleted, img.ExpenseID)
	s.logger.Info("receipt deleted", "image_id", id, "expense_id", img.ExpenseID)
	return nil
}

// PurgeForExpense satisfies expense.ReceiptPurger: it removes every blob
// for an expense ahead of the cascading delete of its records.
func (s *Service) PurgeForExpense(ctx context.Context, expenseID string) error {
	images, err := s.repo.ListForExpense(expenseID)
	if err != nil {
		return err
	}
	for _, img := range images {
		if err := s.store.Delete(ctx, img.StorageKey); err != nil {
			return err
		}
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
