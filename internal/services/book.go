package services

import (
	"context"

	"github.com/kutuphane/apiserver/types"
)

// BookRepository defines persistence operations for books.
type BookRepository interface {
	List(ctx context.Context, categoryID int) ([]types.Book, error)
	ListByCreator(ctx context.Context, userID int) ([]types.Book, error)
	Get(ctx context.Context, id int) (types.Book, error)
	Create(ctx context.Context, book types.Book) (types.Book, error)
	Update(ctx context.Context, book types.Book) (types.Book, error)
	Delete(ctx context.Context, id int) error
	CountByCategory(ctx context.Context, categoryID int) (int, error)
	CountByCreator(ctx context.Context, userID int) (int, error)
	Count(ctx context.Context) (int, error)
}

// BookService encapsulates book use-cases.
type BookService struct {
	repo BookRepository
}

func NewBookService(repo BookRepository) *BookService {
	return &BookService{repo: repo}
}

func (s *BookService) List(ctx context.Context, categoryID int) ([]types.Book, error) {
	return s.repo.List(ctx, categoryID)
}

func (s *BookService) ListByCreator(ctx context.Context, userID int) ([]types.Book, error) {
	return s.repo.ListByCreator(ctx, userID)
}

func (s *BookService) Get(ctx context.Context, id int) (types.Book, error) {
	return s.repo.Get(ctx, id)
}

func (s *BookService) Create(ctx context.Context, book types.Book) (types.Book, error) {
	return s.repo.Create(ctx, book)
}

// Update changes the mutable fields of a book. CreatedByID on the
// input is ignored; the creator never changes after creation.
func (s *BookService) Update(ctx context.Context, book types.Book) (types.Book, error) {
	return s.repo.Update(ctx, book)
}

func (s *BookService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *BookService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
