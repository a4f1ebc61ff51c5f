package repo

import (
	"time"

	"github.com/lfmartins/stock-manager/internal/models"
)

// ProductUpdate carries a partial product update. Only non-nil fields are
// persisted; InitialQuantity is deliberately absent because it is fixed at
// creation time.
type ProductUpdate struct {
	Name            *string
	SupplierName    *string
	BuyingPrice     *float64
	CurrentQuantity *int
	ExpirationDate  *time.Time
}

// Empty reports whether the update carries no fields at all.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.SupplierName == nil && u.BuyingPrice == nil &&
		u.CurrentQuantity == nil && u.ExpirationDate == nil
}

// ProductRepository defines product data operations. All lookups that take a
// userID are scoped to that user's rows; GetByID and the All* sweeps cross
// user boundaries and exist for the notification deriver only.
type ProductRepository interface {
	Create(product models.Product) (models.Product, error)
	GetAllByUser(userID int) ([]models.Product, error)
	GetByIDAndUser(id, userID int) (models.Product, error)
	GetByID(id int) (models.Product, error)
	Update(id, userID int, update ProductUpdate) (models.Product, error)
	Delete(id, userID int) error

	// LowStockByUser lists the user's products under 20% of initial quantity,
	// most depleted first.
	LowStockByUser(userID int) ([]models.Product, error)
	// ExpiringSoonByUser lists the user's products expiring within 30 days,
	// soonest first.
	ExpiringSoonByUser(userID int) ([]models.Product, error)
	// AllLowStock lists every user's products with 0 < quantity < 20% of
	// initial, for the daily sweep.
	AllLowStock() ([]models.Product, error)
	// AllExpiringSoon lists every user's products expiring within 30 days,
	// for the daily sweep.
	AllExpiringSoon() ([]models.Product, error)
}
