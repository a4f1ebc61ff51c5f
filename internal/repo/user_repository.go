package repo

import "github.com/lfmartins/stock-manager/internal/models"

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser inserts the user, returning ErrDuplicateUser when the
	// username or email is already taken.
	CreateUser(u models.User) (models.User, error)
	GetByUsername(username string) (models.User, error)
	GetByID(id int) (models.User, error)
}
