package types

// Category groups books under a globally unique name.
type Category struct {
	// ID is the unique identifier of the category.
	ID int `json:"id" db:"id"`

	// Name is the category name. Globally unique.
	Name string `json:"name" db:"name"`

	// BookCount is the number of books in the category. Populated by
	// listing queries; zero-valued elsewhere.
	BookCount int `json:"book_count" db:"book_count"`
}
