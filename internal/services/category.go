package services

import (
	"context"

	"github.com/kutuphane/apiserver/types"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]types.Category, error)
	Get(ctx context.Context, id int) (types.Category, error)
	Create(ctx context.Context, category types.Category) (types.Category, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

// CategoryBookCounter reports how many books reference a category.
type CategoryBookCounter interface {
	CountByCategory(ctx context.Context, categoryID int) (int, error)
}

// CategoryService encapsulates category use-cases.
type CategoryService struct {
	repo  CategoryRepository
	books CategoryBookCounter
}

func NewCategoryService(repo CategoryRepository, books CategoryBookCounter) *CategoryService {
	return &CategoryService{repo: repo, books: books}
}

func (s *CategoryService) List(ctx context.Context) ([]types.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int) (types.Category, error) {
	return s.repo.Get(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, category types.Category) (types.Category, error) {
	return s.repo.Create(ctx, category)
}

// Delete removes a category only when no books reference it.
func (s *CategoryService) Delete(ctx context.Context, id int) error {
	count, err := s.books.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.repo.Delete(ctx, id)
}

func (s *CategoryService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
