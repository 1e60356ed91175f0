package services

import "errors"

// Guard errors returned when a lifecycle precondition fails. All are
// checked before any mutating store call, so a failed guard never
// leaves partial effects.
var (
	// ErrCategoryInUse means the category still has books referencing it.
	ErrCategoryInUse = errors.New("category has books")

	// ErrUserHasBooks means the user created books that still exist.
	ErrUserHasBooks = errors.New("user has created books")

	// ErrSelfDelete means an admin tried to delete their own account.
	ErrSelfDelete = errors.New("cannot delete own account")

	// ErrSelfRoleChange means an admin tried to change their own role.
	ErrSelfRoleChange = errors.New("cannot change own role")

	// ErrRecipientNotFound means a message was addressed to an unknown user.
	ErrRecipientNotFound = errors.New("recipient not found")
)
