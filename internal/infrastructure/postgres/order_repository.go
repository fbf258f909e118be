package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, user_id, items, total_amount, total_points_used, status, status_history, shipping_address, payment_method, payment_intent_id, delivered_at, created_at, updated_at`

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL
// (usable con pool o tx). Items y StatusHistory viven en columnas JSONB.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para órdenes.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste una nueva orden.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.UserID, order.Items, order.TotalAmount, order.TotalPointsUsed,
		order.Status, order.StatusHistory, order.ShippingAddress,
		order.PaymentMethod, order.PaymentIntentID, order.DeliveredAt,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	return r.getOne(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate obtiene una orden bloqueando su fila. Es la base de la
// transición de estado: el guard de estado terminal se evalúa bajo el lock.
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.getOne(`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) getOne(query, id string) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.UserID, &o.Items, &o.TotalAmount, &o.TotalPointsUsed,
		&o.Status, &o.StatusHistory, &o.ShippingAddress,
		&o.PaymentMethod, &o.PaymentIntentID, &o.DeliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// Update persiste el estado completo de la orden.
func (r *OrderRepo) Update(order *entity.Order) error {
	query := `
		UPDATE orders SET items = $2, total_amount = $3, total_points_used = $4,
			status = $5, status_history = $6, shipping_address = $7,
			payment_method = $8, payment_intent_id = $9, delivered_at = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Items, order.TotalAmount, order.TotalPointsUsed,
		order.Status, order.StatusHistory, order.ShippingAddress,
		order.PaymentMethod, order.PaymentIntentID, order.DeliveredAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// ListByUser lista las órdenes de un usuario, más recientes primero.
func (r *OrderRepo) ListByUser(userID string, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// ListAll lista todas las órdenes (vista de administración).
func (r *OrderRepo) ListAll(limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// ListDeliveredByUser devuelve las órdenes entregadas de un usuario;
// alimenta la elegibilidad de reseñas.
func (r *OrderRepo) ListDeliveredByUser(userID string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, userID, entity.OrderDelivered)
	if err != nil {
		return nil, fmt.Errorf("list delivered orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// Delete elimina una orden por ID.
func (r *OrderRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func scanOrders(rows pgx.Rows) ([]*entity.Order, error) {
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.Items, &o.TotalAmount, &o.TotalPointsUsed,
			&o.Status, &o.StatusHistory, &o.ShippingAddress,
			&o.PaymentMethod, &o.PaymentIntentID, &o.DeliveredAt,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
