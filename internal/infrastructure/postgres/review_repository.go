package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
)

var _ repository.ReviewRepository = (*ReviewRepo)(nil)

const reviewColumns = `id, product_id, order_id, user_id, rating, title, comment, created_at`

// ReviewRepo implementación del puerto ReviewRepository sobre PostgreSQL.
// El constraint único (user_id, product_id, order_id) es la guardia
// definitiva contra reseñas duplicadas.
type ReviewRepo struct {
	q Querier
}

// NewReviewRepository construye el adaptador de persistencia para reseñas.
func NewReviewRepository(q Querier) *ReviewRepo {
	return &ReviewRepo{q: q}
}

// Create persiste una reseña. Una violación del índice único se traduce a
// domain.ErrDuplicateReview.
func (r *ReviewRepo) Create(review *entity.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		review.ID, review.ProductID, review.OrderID, review.UserID,
		review.Rating, review.Title, review.Comment, review.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReview
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// Exists indica si el usuario ya reseñó el producto en esa orden.
func (r *ReviewRepo) Exists(userID, productID, orderID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id = $1 AND product_id = $2 AND order_id = $3)`,
		userID, productID, orderID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}
	return exists, nil
}

// ListByProduct devuelve las reseñas de un producto, más recientes primero.
func (r *ReviewRepo) ListByProduct(productID string) ([]*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()
	return scanReviews(rows)
}

// ListRecent devuelve las últimas reseñas del sitio.
func (r *ReviewRepo) ListRecent(limit int) ([]*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at DESC LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent reviews: %w", err)
	}
	defer rows.Close()
	return scanReviews(rows)
}

// ReviewedOrderIDs devuelve las órdenes que el usuario ya reseñó para el producto.
func (r *ReviewRepo) ReviewedOrderIDs(userID, productID string) ([]string, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT order_id FROM reviews WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reviewed orders: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Aggregate calcula promedio y conteo de ratings del producto.
func (r *ReviewRepo) Aggregate(productID string) (float64, int64, error) {
	var average float64
	var count int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(avg(rating), 0), count(*) FROM reviews WHERE product_id = $1`,
		productID,
	).Scan(&average, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate reviews: %w", err)
	}
	return average, count, nil
}

func scanReviews(rows pgx.Rows) ([]*entity.Review, error) {
	var list []*entity.Review
	for rows.Next() {
		var rv entity.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.OrderID, &rv.UserID, &rv.Rating, &rv.Title, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		list = append(list, &rv)
	}
	return list, rows.Err()
}
