package repo

import "errors"

var (
	// ErrProductNotFound is returned when a product does not exist or does not
	// belong to the requesting user.
	ErrProductNotFound = errors.New("product not found")

	// ErrNotificationNotFound is returned when a notification does not exist
	// or does not belong to the requesting user.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned when the username or email is already taken.
	ErrDuplicateUser = errors.New("username or email already exists")

	// ErrInsufficientStock is returned when a sale asks for more units than the
	// product currently has.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNoFieldsToUpdate is returned when a partial update carries no fields.
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)
