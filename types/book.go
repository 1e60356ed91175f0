package types

import "time"

// Book is a catalog entry. Every book belongs to exactly one category
// and records the admin who created it; the creator is set once and
// never changes.
type Book struct {
	// ID is the unique identifier of the book.
	ID int `json:"id" db:"id"`

	// Title is the book title.
	Title string `json:"title" db:"title"`

	// Author is the book's author.
	Author string `json:"author" db:"author"`

	// Description is optional free-form text about the book.
	Description *string `json:"description" db:"description"`

	// CategoryID identifies the category this book belongs to.
	CategoryID int `json:"category_id" db:"category_id"`

	// CreatedByID identifies the admin who created the book. Immutable.
	CreatedByID int `json:"created_by_id" db:"created_by"`

	// Category is the embedded category. Populated by listing queries.
	Category *Category `json:"category,omitempty"`

	// CreatedBy is the embedded creator summary. Populated by listing queries.
	CreatedBy *UserSummary `json:"created_by,omitempty"`

	// CreatedAt is the timestamp when the book was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the book.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
