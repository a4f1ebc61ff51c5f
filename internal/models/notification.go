package models

import "time"

// Notification types raised by the deriver.
const (
	NotificationLowStock     = "LOW_STOCK"
	NotificationExpiringSoon = "EXPIRING_SOON"
)

// Notification is an alert raised for a product condition. At most one unread
// notification may exist per (product, type) pair; once it is marked read the
// next qualifying check may raise a fresh one.
type Notification struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	ProductID   int       `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
