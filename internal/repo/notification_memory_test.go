package repo

import (
	"sync"
	"testing"

	"github.com/lfmartins/stock-manager/internal/models"
)

func lowStockNotification(productID int) models.Notification {
	return models.Notification{
		UserID:    1,
		ProductID: productID,
		Type:      models.NotificationLowStock,
		Message:   "Low stock alert",
	}
}

func TestCreateIfNone_SuppressesDuplicateUnread(t *testing.T) {
	r := NewInMemoryNotificationRepository()

	created, err := r.CreateIfNone(lowStockNotification(1))
	if err != nil || !created {
		t.Fatalf("first insert: created=%v err=%v", created, err)
	}

	created, err = r.CreateIfNone(lowStockNotification(1))
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if created {
		t.Fatal("duplicate unread notification was created")
	}

	// A different type for the same product is not a duplicate.
	created, err = r.CreateIfNone(models.Notification{
		UserID: 1, ProductID: 1, Type: models.NotificationExpiringSoon, Message: "Expiration alert",
	})
	if err != nil || !created {
		t.Fatalf("different type: created=%v err=%v", created, err)
	}
}

func TestCreateIfNone_AllowsNewAfterRead(t *testing.T) {
	r := NewInMemoryNotificationRepository()

	if _, err := r.CreateIfNone(lowStockNotification(1)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	all, _ := r.GetAllByUser(1)
	if err := r.MarkRead(all[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	created, err := r.CreateIfNone(lowStockNotification(1))
	if err != nil || !created {
		t.Fatalf("insert after read: created=%v err=%v", created, err)
	}

	count, _ := r.UnreadCount(1)
	if count != 1 {
		t.Errorf("unread count = %d, want 1", count)
	}
}

func TestCreateIfNone_ConcurrentInsertsProduceOneRow(t *testing.T) {
	r := NewInMemoryNotificationRepository()

	var wg sync.WaitGroup
	createdCount := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := r.CreateIfNone(lowStockNotification(7))
			if err != nil {
				t.Errorf("insert: %v", err)
				return
			}
			createdCount <- created
		}()
	}
	wg.Wait()
	close(createdCount)

	total := 0
	for created := range createdCount {
		if created {
			total++
		}
	}
	if total != 1 {
		t.Fatalf("expected exactly one insert to win, got %d", total)
	}
}

func TestMarkAllReadAndUnreadCount(t *testing.T) {
	r := NewInMemoryNotificationRepository()
	r.CreateIfNone(lowStockNotification(1))
	r.CreateIfNone(lowStockNotification(2))
	r.CreateIfNone(models.Notification{UserID: 2, ProductID: 3, Type: models.NotificationLowStock})

	if err := r.MarkAllRead(1); err != nil {
		t.Fatalf("mark all read: %v", err)
	}

	count, _ := r.UnreadCount(1)
	if count != 0 {
		t.Errorf("user 1 unread count = %d, want 0", count)
	}
	count, _ = r.UnreadCount(2)
	if count != 1 {
		t.Errorf("user 2 unread count = %d, want 1", count)
	}
}
