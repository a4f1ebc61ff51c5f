// Package notify derives LOW_STOCK and EXPIRING_SOON notifications from
// product state. Checks run in two modes: synchronously after every product
// mutation or sale, and as full sweeps fired by the daily scheduler. Both
// modes funnel through NotificationRepository.CreateIfNone, so racing checks
// on the same product never produce duplicate unread notifications.
package notify

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/lfmartins/stock-manager/internal/models"
	"github.com/lfmartins/stock-manager/internal/redissvc"
	"github.com/lfmartins/stock-manager/internal/repo"
)

// lowStockRatio is the fraction of the initial quantity below which a product
// qualifies as low stock. Zero stock does not qualify.
const lowStockRatio = 0.2

// Deriver evaluates products against the notification rules and persists the
// resulting notifications.
type Deriver struct {
	products      repo.ProductRepository
	notifications repo.NotificationRepository
	cache         *redissvc.Cache
	log           zerolog.Logger
	now           func() time.Time
}

// NewDeriver constructs a Deriver. cache may be nil.
func NewDeriver(products repo.ProductRepository, notifications repo.NotificationRepository,
	cache *redissvc.Cache, logger zerolog.Logger) *Deriver {
	return &Deriver{
		products:      products,
		notifications: notifications,
		cache:         cache,
		log:           logger,
		now:           time.Now,
	}
}

// SetClock pins the deriver's notion of "today" for tests.
func (d *Deriver) SetClock(now func() time.Time) {
	d.now = now
}

// LowStock reports whether the product is strictly between zero stock and 20%
// of its initial quantity.
func LowStock(p models.Product) bool {
	return p.CurrentQuantity > 0 &&
		float64(p.CurrentQuantity) < float64(p.InitialQuantity)*lowStockRatio
}

// CheckLowStockForProduct runs the low-stock rule for one product. It is
// called after every product create, product update and sale. A missing
// product is a no-op: the caller may have deleted it concurrently.
func (d *Deriver) CheckLowStockForProduct(productID int) error {
	product, err := d.products.GetByID(productID)
	if err != nil {
		if err == repo.ErrProductNotFound {
			return nil
		}
		return fmt.Errorf("fetch product %d: %w", productID, err)
	}

	if !LowStock(product) {
		return nil
	}
	return d.raiseLowStock(product)
}

// CheckLowStockProducts sweeps every user's products qualifying for the
// low-stock rule. A single product's failure is logged and skipped; only the
// product query itself aborts the sweep.
func (d *Deriver) CheckLowStockProducts() error {
	products, err := d.products.AllLowStock()
	if err != nil {
		return fmt.Errorf("query low stock products: %w", err)
	}

	for _, p := range products {
		if err := d.raiseLowStock(p); err != nil {
			d.log.Error().Err(err).Int("product_id", p.ID).Msg("low stock check failed")
		}
	}
	return nil
}

// CheckExpiringProducts sweeps every user's products expiring within the next
// 30 days, regardless of remaining quantity.
func (d *Deriver) CheckExpiringProducts() error {
	products, err := d.products.AllExpiringSoon()
	if err != nil {
		return fmt.Errorf("query expiring products: %w", err)
	}

	for _, p := range products {
		if err := d.raiseExpiringSoon(p); err != nil {
			d.log.Error().Err(err).Int("product_id", p.ID).Msg("expiring soon check failed")
		}
	}
	return nil
}

func (d *Deriver) raiseLowStock(p models.Product) error {
	percentRemaining := int(math.Round(float64(p.CurrentQuantity) / float64(p.InitialQuantity) * 100))
	message := fmt.Sprintf("Low stock alert: %s is running low (%d%% remaining). Only %d units left.",
		p.Name, percentRemaining, p.CurrentQuantity)

	return d.raise(p, models.NotificationLowStock, message)
}

func (d *Deriver) raiseExpiringSoon(p models.Product) error {
	daysRemaining := d.daysUntil(p.ExpirationDate)
	message := fmt.Sprintf("Expiration alert: %s will expire in %d days (%s). Current stock: %d units.",
		p.Name, daysRemaining, p.ExpirationDate.Format("2006-01-02"), p.CurrentQuantity)

	return d.raise(p, models.NotificationExpiringSoon, message)
}

func (d *Deriver) raise(p models.Product, notificationType, message string) error {
	created, err := d.notifications.CreateIfNone(models.Notification{
		UserID:    p.UserID,
		ProductID: p.ID,
		Type:      notificationType,
		Message:   message,
	})
	if err != nil {
		return fmt.Errorf("create %s notification for product %d: %w", notificationType, p.ID, err)
	}
	if created {
		d.log.Info().
			Int("product_id", p.ID).
			Int("user_id", p.UserID).
			Str("type", notificationType).
			Msg("notification created")
		d.cache.InvalidateUnreadCount(p.UserID)
	}
	return nil
}

// daysUntil counts whole days from today to the given date, both truncated to
// midnight, so a product expiring today reports 0 days.
func (d *Deriver) daysUntil(date time.Time) int {
	now := d.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	exp := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())

	days := int(math.Ceil(exp.Sub(today).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return days
}
