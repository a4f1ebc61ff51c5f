package models

import "time"

// Profit status values derived from the sign of a sale's profit/loss.
const (
	ProfitStatusProfit    = "Profit"
	ProfitStatusLoss      = "Loss"
	ProfitStatusBreakEven = "Break-even"
)

// Sale records a quantity sold against a product. TotalAmount and ProfitLoss
// are computed when the sale is recorded, using the product's buying price at
// that moment.
type Sale struct {
	ID           int       `json:"id"`
	ProductID    int       `json:"product_id"`
	UserID       int       `json:"user_id"`
	ProductName  string    `json:"product_name,omitempty"`
	QuantitySold int       `json:"quantity_sold"`
	SellingPrice float64   `json:"selling_price"`
	TotalAmount  float64   `json:"total_amount"`
	ProfitLoss   float64   `json:"profit_loss"`
	SaleDate     time.Time `json:"sale_date"`
}

// ProfitStatus classifies the sale by the sign of its profit/loss.
func (s Sale) ProfitStatus() string {
	switch {
	case s.ProfitLoss > 0:
		return ProfitStatusProfit
	case s.ProfitLoss < 0:
		return ProfitStatusLoss
	default:
		return ProfitStatusBreakEven
	}
}

// SalesOverall aggregates a user's sales as a whole.
type SalesOverall struct {
	TotalSales      int     `json:"total_sales"`
	TotalItemsSold  int     `json:"total_items_sold"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalProfitLoss float64 `json:"total_profit_loss"`
}

// ProductSalesSummary aggregates a user's sales for a single product.
type ProductSalesSummary struct {
	ProductID         int     `json:"id"`
	Name              string  `json:"name"`
	SaleCount         int     `json:"sale_count"`
	TotalQuantitySold int     `json:"total_quantity_sold"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalProfitLoss   float64 `json:"total_profit_loss"`
}

// SalesSummary is the payload of the sales summary endpoint: overall numbers
// plus a per-product breakdown sorted by revenue.
type SalesSummary struct {
	Overall  SalesOverall          `json:"overall"`
	Products []ProductSalesSummary `json:"products"`
}
