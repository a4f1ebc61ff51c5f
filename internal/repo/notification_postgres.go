package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	models "github.com/lfmartins/stock-manager/internal/models"
)

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// CreateIfNone relies on the partial unique index on (product_id, type) for
// unread rows: the insert and the duplicate check are a single statement, so
// the sweep and a concurrent mutation-triggered check cannot both insert.
func (r *PostgresNotificationRepository) CreateIfNone(n models.Notification) (bool, error) {
	query := `INSERT INTO notifications (user_id, product_id, type, message)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (product_id, type) WHERE NOT is_read DO NOTHING`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, n.UserID, n.ProductID, n.Type, n.Message)
	if err != nil {
		return false, err
	}
	rowsAffected, _ := res.RowsAffected()
	return rowsAffected > 0, nil
}

func (r *PostgresNotificationRepository) GetAllByUser(userID int) ([]models.Notification, error) {
	query := `SELECT n.id, n.user_id, n.product_id, COALESCE(p.name, ''), n.type, n.message, n.is_read, n.created_at
	          FROM notifications n
	          LEFT JOIN products p ON n.product_id = p.id
	          WHERE n.user_id = $1
	          ORDER BY n.created_at DESC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.ProductID, &n.ProductName,
			&n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *PostgresNotificationRepository) GetByIDAndUser(id, userID int) (models.Notification, error) {
	query := `SELECT id, user_id, product_id, type, message, is_read, created_at
	          FROM notifications WHERE id = $1 AND user_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var n models.Notification
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&n.ID, &n.UserID, &n.ProductID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Notification{}, ErrNotificationNotFound
	}
	return n, err
}

func (r *PostgresNotificationRepository) MarkRead(id int) error {
	return r.exec(`UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
}

func (r *PostgresNotificationRepository) MarkAllRead(userID int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	return err
}

func (r *PostgresNotificationRepository) Delete(id int) error {
	return r.exec(`DELETE FROM notifications WHERE id = $1`, id)
}

func (r *PostgresNotificationRepository) UnreadCount(userID int) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID).
		Scan(&count)
	return count, err
}

func (r *PostgresNotificationRepository) exec(query string, id int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
