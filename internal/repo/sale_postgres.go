package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	models "github.com/lfmartins/stock-manager/internal/models"
)

type PostgresSaleRepository struct {
	db *sql.DB
}

func NewPostgresSaleRepository(db *sql.DB) *PostgresSaleRepository {
	return &PostgresSaleRepository{db: db}
}

// Record runs the check-compute-insert-decrement sequence in one transaction.
// The SELECT ... FOR UPDATE serializes concurrent sales on the same product
// row, so two simultaneous sales can never both pass the stock check against
// a stale quantity.
func (r *PostgresSaleRepository) Record(s models.Sale) (models.Sale, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Sale{}, fmt.Errorf("begin sale transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		buyingPrice float64
		quantity    int
		name        string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT buying_price, current_quantity, name FROM products WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		s.ProductID, s.UserID).Scan(&buyingPrice, &quantity, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Sale{}, ErrProductNotFound
	}
	if err != nil {
		return models.Sale{}, err
	}

	if quantity < s.QuantitySold {
		return models.Sale{}, ErrInsufficientStock
	}

	s.TotalAmount = s.SellingPrice * float64(s.QuantitySold)
	s.ProfitLoss = s.TotalAmount - buyingPrice*float64(s.QuantitySold)
	s.ProductName = name

	_, err = tx.ExecContext(ctx,
		`UPDATE products SET current_quantity = current_quantity - $1 WHERE id = $2`,
		s.QuantitySold, s.ProductID)
	if err != nil {
		return models.Sale{}, err
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO sales (product_id, user_id, quantity_sold, selling_price, total_amount, profit_loss)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, sale_date`,
		s.ProductID, s.UserID, s.QuantitySold, s.SellingPrice, s.TotalAmount, s.ProfitLoss).
		Scan(&s.ID, &s.SaleDate)
	if err != nil {
		return models.Sale{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Sale{}, fmt.Errorf("commit sale transaction: %w", err)
	}
	return s, nil
}

func (r *PostgresSaleRepository) GetAllByUser(userID int) ([]models.Sale, error) {
	query := `SELECT s.id, s.product_id, s.user_id, p.name, s.quantity_sold, s.selling_price, s.total_amount, s.profit_loss, s.sale_date
	          FROM sales s
	          JOIN products p ON s.product_id = p.id
	          WHERE s.user_id = $1
	          ORDER BY s.sale_date DESC`
	return r.querySales(query, userID)
}

func (r *PostgresSaleRepository) GetByProductAndUser(productID, userID int) ([]models.Sale, error) {
	query := `SELECT s.id, s.product_id, s.user_id, p.name, s.quantity_sold, s.selling_price, s.total_amount, s.profit_loss, s.sale_date
	          FROM sales s
	          JOIN products p ON s.product_id = p.id
	          WHERE s.product_id = $1 AND s.user_id = $2
	          ORDER BY s.sale_date DESC`
	return r.querySales(query, productID, userID)
}

func (r *PostgresSaleRepository) Summary(userID int) (models.SalesSummary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var summary models.SalesSummary
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(quantity_sold), 0), COALESCE(SUM(total_amount), 0), COALESCE(SUM(profit_loss), 0)
		 FROM sales WHERE user_id = $1`, userID).
		Scan(&summary.Overall.TotalSales, &summary.Overall.TotalItemsSold,
			&summary.Overall.TotalRevenue, &summary.Overall.TotalProfitLoss)
	if err != nil {
		return models.SalesSummary{}, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name, COUNT(s.id), COALESCE(SUM(s.quantity_sold), 0), COALESCE(SUM(s.total_amount), 0), COALESCE(SUM(s.profit_loss), 0)
		 FROM products p
		 LEFT JOIN sales s ON p.id = s.product_id AND s.user_id = $1
		 WHERE p.user_id = $1
		 GROUP BY p.id, p.name
		 ORDER BY COALESCE(SUM(s.total_amount), 0) DESC`, userID)
	if err != nil {
		return models.SalesSummary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var ps models.ProductSalesSummary
		if err := rows.Scan(&ps.ProductID, &ps.Name, &ps.SaleCount, &ps.TotalQuantitySold,
			&ps.TotalRevenue, &ps.TotalProfitLoss); err != nil {
			return models.SalesSummary{}, err
		}
		summary.Products = append(summary.Products, ps)
	}
	return summary, rows.Err()
}

func (r *PostgresSaleRepository) querySales(query string, args ...any) ([]models.Sale, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		var s models.Sale
		if err := rows.Scan(&s.ID, &s.ProductID, &s.UserID, &s.ProductName, &s.QuantitySold,
			&s.SellingPrice, &s.TotalAmount, &s.ProfitLoss, &s.SaleDate); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
