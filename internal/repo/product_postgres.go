package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	models "github.com/lfmartins/stock-manager/internal/models"
)

const productColumns = `id, user_id, name, supplier_name, buying_price, current_quantity, initial_quantity, expiration_date, created_at`

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.SupplierName, &p.BuyingPrice,
		&p.CurrentQuantity, &p.InitialQuantity, &p.ExpirationDate, &p.CreatedAt)
	return p, err
}

func (r *PostgresProductRepository) Create(p models.Product) (models.Product, error) {
	// initial_quantity is snapshotted from the creation-time quantity and is
	// never written again by Update.
	query := `INSERT INTO products (user_id, name, supplier_name, buying_price, current_quantity, initial_quantity, expiration_date)
	          VALUES ($1, $2, $3, $4, $5, $5, $6)
	          RETURNING ` + productColumns
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return scanProduct(r.db.QueryRowContext(ctx, query,
		p.UserID, p.Name, p.SupplierName, p.BuyingPrice, p.CurrentQuantity, p.ExpirationDate))
}

func (r *PostgresProductRepository) GetAllByUser(userID int) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryProducts(query, userID)
}

func (r *PostgresProductRepository) GetByIDAndUser(id, userID int) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND user_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) GetByID(id int) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) Update(id, userID int, u ProductUpdate) (models.Product, error) {
	sets := []string{}
	args := []any{}
	argIdx := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.SupplierName != nil {
		add("supplier_name", *u.SupplierName)
	}
	if u.BuyingPrice != nil {
		add("buying_price", *u.BuyingPrice)
	}
	if u.CurrentQuantity != nil {
		add("current_quantity", *u.CurrentQuantity)
	}
	if u.ExpirationDate != nil {
		add("expiration_date", *u.ExpirationDate)
	}
	if len(sets) == 0 {
		return models.Product{}, ErrNoFieldsToUpdate
	}

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d AND user_id = $%d RETURNING `+productColumns,
		strings.Join(sets, ", "), argIdx, argIdx+1)
	args = append(args, id, userID)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) Delete(id, userID int) error {
	query := `DELETE FROM products WHERE id = $1 AND user_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// LowStockByUser keeps sold-out products in the listing; only AllLowStock,
// which feeds the notification sweep, filters them out.
func (r *PostgresProductRepository) LowStockByUser(userID int) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
	          WHERE user_id = $1 AND current_quantity < initial_quantity * 0.2
	          ORDER BY current_quantity::float / initial_quantity ASC`
	return r.queryProducts(query, userID)
}

func (r *PostgresProductRepository) ExpiringSoonByUser(userID int) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
	          WHERE user_id = $1 AND expiration_date BETWEEN CURRENT_DATE AND CURRENT_DATE + 30
	          ORDER BY expiration_date ASC`
	return r.queryProducts(query, userID)
}

func (r *PostgresProductRepository) AllLowStock() ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
	          WHERE current_quantity < initial_quantity * 0.2 AND current_quantity > 0`
	return r.queryProducts(query)
}

func (r *PostgresProductRepository) AllExpiringSoon() ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
	          WHERE expiration_date BETWEEN CURRENT_DATE AND CURRENT_DATE + 30`
	return r.queryProducts(query)
}

func (r *PostgresProductRepository) queryProducts(query string, args ...any) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
