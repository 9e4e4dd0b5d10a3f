package category

import (
	"log/slog"

	categoryDatamodel "hsaledger/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetAll() ([]*categoryDatamodel.Category, error)
	GetByID(id string) (*categoryDatamodel.Category, error)
	Create(category *categoryDatamodel.Category) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllCategories() ([]CategoryResponse, error) {
	dataCategories, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(dataCategories))
	for _, dataCategory := range dataCategories {
		responses = append(responses, FromDataModel(dataCategory).ToResponse())
	}

	return responses, nil
}

// Exists satisfies expense.CategoryChecker.
func (s *Service) Exists(id string) (bool, error) {
	cat, err := s.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	return cat != nil, nil
}

func (s *Service) Create(name string) (*Category, error) {
	cat := NewCategory(name)
	if err := s.repo.Create(ToDataModel(cat)); err != nil {
		s.logger.Error("failed to create category", "error", err, "name", name)
		return nil, err
	}
	return cat, nil
}
