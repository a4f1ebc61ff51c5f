package repo

import (
	"sort"
	"sync"
	"time"

	"github.com/lfmartins/stock-manager/internal/models"
)

// InMemorySaleRepository is an in-memory implementation of SaleRepository.
// It shares the product repository so Record can apply the stock decrement
// with the same atomicity the postgres transaction provides.
type InMemorySaleRepository struct {
	mu       sync.Mutex
	sales    []models.Sale
	nextID   int
	products *InMemoryProductRepository
}

func NewInMemorySaleRepository(products *InMemoryProductRepository) *InMemorySaleRepository {
	return &InMemorySaleRepository{
		sales:    []models.Sale{},
		nextID:   1,
		products: products,
	}
}

func (r *InMemorySaleRepository) Record(s models.Sale) (models.Sale, error) {
	product, err := r.products.GetByIDAndUser(s.ProductID, s.UserID)
	if err != nil {
		return models.Sale{}, err
	}

	// deductStock re-checks the quantity under the product lock; the fetch
	// above only supplies the buying price and name.
	if _, err := r.products.deductStock(s.ProductID, s.UserID, s.QuantitySold); err != nil {
		return models.Sale{}, err
	}

	s.TotalAmount = s.SellingPrice * float64(s.QuantitySold)
	s.ProfitLoss = s.TotalAmount - product.BuyingPrice*float64(s.QuantitySold)
	s.ProductName = product.Name
	s.SaleDate = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.nextID
	r.nextID++
	r.sales = append(r.sales, s)
	return s, nil
}

func (r *InMemorySaleRepository) GetAllByUser(userID int) ([]models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Sale
	for _, s := range r.sales {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SaleDate.After(out[j].SaleDate) })
	return out, nil
}

func (r *InMemorySaleRepository) GetByProductAndUser(productID, userID int) ([]models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Sale
	for _, s := range r.sales {
		if s.ProductID == productID && s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SaleDate.After(out[j].SaleDate) })
	return out, nil
}

func (r *InMemorySaleRepository) Summary(userID int) (models.SalesSummary, error) {
	products, err := r.products.GetAllByUser(userID)
	if err != nil {
		return models.SalesSummary{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var summary models.SalesSummary
	byProduct := make(map[int]*models.ProductSalesSummary)
	for _, p := range products {
		byProduct[p.ID] = &models.ProductSalesSummary{ProductID: p.ID, Name: p.Name}
	}

	for _, s := range r.sales {
		if s.UserID != userID {
			continue
		}
		summary.Overall.TotalSales++
		summary.Overall.TotalItemsSold += s.QuantitySold
		summary.Overall.TotalRevenue += s.TotalAmount
		summary.Overall.TotalProfitLoss += s.ProfitLoss

		if ps, ok := byProduct[s.ProductID]; ok {
			ps.SaleCount++
			ps.TotalQuantitySold += s.QuantitySold
			ps.TotalRevenue += s.TotalAmount
			ps.TotalProfitLoss += s.ProfitLoss
		}
	}

	for _, p := range products {
		summary.Products = append(summary.Products, *byProduct[p.ID])
	}
	sort.Slice(summary.Products, func(i, j int) bool {
		return summary.Products[i].TotalRevenue > summary.Products[j].TotalRevenue
	})
	return summary, nil
}

func (r *InMemorySaleRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = []models.Sale{}
}
