package repo

import "github.com/lfmartins/stock-manager/internal/models"

// SaleRepository defines sale data operations.
type SaleRepository interface {
	// Record inserts the sale and decrements the product's current quantity as
	// one atomic unit. The input sale carries ProductID, UserID, QuantitySold
	// and SellingPrice; the totals are computed from the product's buying
	// price read inside the same unit. Returns ErrProductNotFound when the
	// product does not belong to the user and ErrInsufficientStock when the
	// product has fewer units than requested; in both cases nothing is
	// persisted.
	Record(sale models.Sale) (models.Sale, error)
	GetAllByUser(userID int) ([]models.Sale, error)
	GetByProductAndUser(productID, userID int) ([]models.Sale, error)
	Summary(userID int) (models.SalesSummary, error)
}
