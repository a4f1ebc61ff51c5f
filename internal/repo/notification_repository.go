package repo

import "github.com/lfmartins/stock-manager/internal/models"

// NotificationRepository defines notification data operations.
type NotificationRepository interface {
	// CreateIfNone inserts the notification unless an unread notification of
	// the same (product, type) pair already exists. The check and the insert
	// are one atomic unit in every implementation, so concurrent derivation
	// passes (daily sweep vs. a sale-triggered check) cannot both insert.
	// Reports whether a row was created.
	CreateIfNone(n models.Notification) (bool, error)
	GetAllByUser(userID int) ([]models.Notification, error)
	GetByIDAndUser(id, userID int) (models.Notification, error)
	MarkRead(id int) error
	MarkAllRead(userID int) error
	Delete(id int) error
	UnreadCount(userID int) (int, error)
}
