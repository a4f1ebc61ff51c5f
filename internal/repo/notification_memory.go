package repo

import (
	"sort"
	"sync"
	"time"

	"github.com/lfmartins/stock-manager/internal/models"
)

// InMemoryNotificationRepository is an in-memory implementation of
// NotificationRepository. The mutex makes CreateIfNone's check-and-insert
// atomic, matching the partial unique index the postgres implementation
// leans on.
type InMemoryNotificationRepository struct {
	mu            sync.Mutex
	notifications []models.Notification
	nextID        int
}

func NewInMemoryNotificationRepository() *InMemoryNotificationRepository {
	return &InMemoryNotificationRepository{
		notifications: []models.Notification{},
		nextID:        1,
	}
}

func (r *InMemoryNotificationRepository) CreateIfNone(n models.Notification) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.notifications {
		if existing.ProductID == n.ProductID && existing.Type == n.Type && !existing.IsRead {
			return false, nil
		}
	}

	n.ID = r.nextID
	r.nextID++
	n.IsRead = false
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, n)
	return true, nil
}

func (r *InMemoryNotificationRepository) GetAllByUser(userID int) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryNotificationRepository) GetByIDAndUser(id, userID int) (models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			return n, nil
		}
	}
	return models.Notification{}, ErrNotificationNotFound
}

func (r *InMemoryNotificationRepository) MarkRead(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.notifications {
		if n.ID == id {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (r *InMemoryNotificationRepository) MarkAllRead(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.notifications {
		if n.UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *InMemoryNotificationRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.notifications {
		if n.ID == id {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (r *InMemoryNotificationRepository) UnreadCount(userID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryNotificationRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = []models.Notification{}
}
