package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/kutuphane/apiserver/types"
)

// BookRepository handles persistence for books.
type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

const bookColumns = `
	b.id, b.title, b.author, b.description, b.category_id, b.created_by,
	b.created_at, b.updated_at,
	c.id, c.name,
	u.id, u.name, u.email`

// List returns books newest first, optionally filtered to one
// category, with category and creator embedded.
func (r *BookRepository) List(ctx context.Context, categoryID int) ([]types.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books b
		JOIN categories c ON c.id = b.category_id
		JOIN users u ON u.id = b.created_by`
	args := []any{}
	if categoryID > 0 {
		query += ` WHERE b.category_id = $1`
		args = append(args, categoryID)
	}
	query += ` ORDER BY b.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]types.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// ListByCreator returns the books created by one user, newest first.
func (r *BookRepository) ListByCreator(ctx context.Context, userID int) ([]types.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books b
		JOIN categories c ON c.id = b.category_id
		JOIN users u ON u.id = b.created_by
		WHERE b.created_by = $1
		ORDER BY b.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]types.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

func (r *BookRepository) Get(ctx context.Context, id int) (types.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books b
		JOIN categories c ON c.id = b.category_id
		JOIN users u ON u.id = b.created_by
		WHERE b.id = $1`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return types.Book{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return types.Book{}, err
		}
		return types.Book{}, ErrNotFound
	}
	return scanBook(rows)
}

func (r *BookRepository) Create(ctx context.Context, book types.Book) (types.Book, error) {
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now

	const query = `
		INSERT INTO books (title, author, description, category_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		book.Title,
		book.Author,
		book.Description,
		book.CategoryID,
		book.CreatedByID,
		book.CreatedAt,
		book.UpdatedAt,
	).Scan(&book.ID); err != nil {
		return types.Book{}, classify(err)
	}
	return r.Get(ctx, book.ID)
}

// Update changes title, author, description, and category. The creator
// column is never touched.
func (r *BookRepository) Update(ctx context.Context, book types.Book) (types.Book, error) {
	book.UpdatedAt = time.Now()

	const query = `
		UPDATE books
		SET title = $1,
			author = $2,
			description = $3,
			category_id = $4,
			updated_at = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(
		ctx,
		query,
		book.Title,
		book.Author,
		book.Description,
		book.CategoryID,
		book.UpdatedAt,
		book.ID,
	)
	if err != nil {
		return types.Book{}, classify(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Book{}, err
	}
	if affected == 0 {
		return types.Book{}, ErrNotFound
	}
	// Re-read so the response carries the creator and the embedded
	// category, which the update statement does not know.
	return r.Get(ctx, book.ID)
}

func (r *BookRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM books WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookRepository) CountByCategory(ctx context.Context, categoryID int) (int, error) {
	const query = `SELECT COUNT(1) FROM books WHERE category_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, query, categoryID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *BookRepository) CountByCreator(ctx context.Context, userID int) (int, error) {
	const query = `SELECT COUNT(1) FROM books WHERE created_by = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *BookRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(1) FROM books`
	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func scanBook(rows *sql.Rows) (types.Book, error) {
	var book types.Book
	var category types.Category
	var creator types.UserSummary
	if err := rows.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.CategoryID,
		&book.CreatedByID,
		&book.CreatedAt,
		&book.UpdatedAt,
		&category.ID,
		&category.Name,
		&creator.ID,
		&creator.Name,
		&creator.Email,
	); err != nil {
		return types.Book{}, err
	}
	book.Category = &category
	book.CreatedBy = &creator
	return book, nil
}
