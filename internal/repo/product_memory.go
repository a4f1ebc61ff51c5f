package repo

import (
	"sort"
	"sync"
	"time"

	"github.com/lfmartins/stock-manager/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of
// ProductRepository for tests and local development.
type InMemoryProductRepository struct {
	mu       sync.Mutex
	products []models.Product
	nextID   int
	now      func() time.Time
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
		now:      time.Now,
	}
}

// SetClock replaces the repository clock, so tests can pin "today" for the
// expiring-soon queries.
func (r *InMemoryProductRepository) SetClock(now func() time.Time) {
	r.now = now
}

func (r *InMemoryProductRepository) Create(product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	product.InitialQuantity = product.CurrentQuantity
	product.CreatedAt = r.now()
	r.products = append(r.products, product)
	return product, nil
}

func (r *InMemoryProductRepository) GetAllByUser(userID int) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Product
	for _, p := range r.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryProductRepository) GetByIDAndUser(id, userID int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.ID == id && p.UserID == userID {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) GetByID(id int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) Update(id, userID int, u ProductUpdate) (models.Product, error) {
	if u.Empty() {
		return models.Product{}, ErrNoFieldsToUpdate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID != id || p.UserID != userID {
			continue
		}
		if u.Name != nil {
			p.Name = *u.Name
		}
		if u.SupplierName != nil {
			p.SupplierName = *u.SupplierName
		}
		if u.BuyingPrice != nil {
			p.BuyingPrice = *u.BuyingPrice
		}
		if u.CurrentQuantity != nil {
			p.CurrentQuantity = *u.CurrentQuantity
		}
		if u.ExpirationDate != nil {
			p.ExpirationDate = *u.ExpirationDate
		}
		r.products[i] = p
		return p, nil
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) Delete(id, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id && p.UserID == userID {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

// lowStock backs the per-user status queries, which include sold-out
// products. AllLowStock layers the current_quantity > 0 filter on top for the
// notification sweep; the guard must not move in here.
func lowStock(p models.Product) bool {
	return p.InitialQuantity > 0 && float64(p.CurrentQuantity) < float64(p.InitialQuantity)*0.2
}

func (r *InMemoryProductRepository) expiringSoon(p models.Product) bool {
	today := truncateToDay(r.now())
	exp := truncateToDay(p.ExpirationDate)
	return !exp.Before(today) && !exp.After(today.AddDate(0, 0, 30))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (r *InMemoryProductRepository) LowStockByUser(userID int) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Product
	for _, p := range r.products {
		if p.UserID == userID && lowStock(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return float64(out[i].CurrentQuantity)/float64(out[i].InitialQuantity) <
			float64(out[j].CurrentQuantity)/float64(out[j].InitialQuantity)
	})
	return out, nil
}

func (r *InMemoryProductRepository) ExpiringSoonByUser(userID int) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Product
	for _, p := range r.products {
		if p.UserID == userID && r.expiringSoon(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpirationDate.Before(out[j].ExpirationDate) })
	return out, nil
}

func (r *InMemoryProductRepository) AllLowStock() ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Product
	for _, p := range r.products {
		if lowStock(p) && p.CurrentQuantity > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *InMemoryProductRepository) AllExpiringSoon() ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Product
	for _, p := range r.products {
		if r.expiringSoon(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// deductStock atomically checks ownership and remaining stock and applies the
// decrement. It is the memory-side equivalent of the guarded UPDATE the
// postgres sale repository runs inside its transaction.
func (r *InMemoryProductRepository) deductStock(id, userID, quantity int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID != id || p.UserID != userID {
			continue
		}
		if p.CurrentQuantity < quantity {
			return models.Product{}, ErrInsufficientStock
		}
		p.CurrentQuantity -= quantity
		r.products[i] = p
		return p, nil
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
}
