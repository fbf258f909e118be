package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
)

// OrderItemRequest línea de la orden. Price es el precio unitario afirmado
// por el cliente; el total SIEMPRE se recalcula en el servidor.
type OrderItemRequest struct {
	ProductID string          `json:"product"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// CreateOrderRequest creación directa (solo pago con puntos; el pago con
// tarjeta va por checkout-session + webhook).
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	PaymentMethod   string             `json:"paymentMethod"` // points | money
	ShippingAddress string             `json:"shippingAddress"`
}

// UpdateOrderRequest transición de estado (admin).
type UpdateOrderRequest struct {
	Status string `json:"status"`
}

// OrderResponse representación de la orden.
type OrderResponse struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user"`
	Items           []entity.OrderItem    `json:"items"`
	TotalAmount     decimal.Decimal       `json:"totalAmount"`
	TotalPointsUsed int64                 `json:"totalPointsUsed"`
	Status          string                `json:"status"`
	StatusHistory   []entity.StatusChange `json:"statusHistory"`
	ShippingAddress string                `json:"shippingAddress,omitempty"`
	PaymentMethod   string                `json:"paymentMethod,omitempty"`
	PaymentIntentID string                `json:"paymentIntentId,omitempty"`
	DeliveredAt     *time.Time            `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// ToOrderResponse convierte la entidad al DTO de respuesta.
func ToOrderResponse(o *entity.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	return &OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           o.Items,
		TotalAmount:     o.TotalAmount,
		TotalPointsUsed: o.TotalPointsUsed,
		Status:          o.Status,
		StatusHistory:   o.StatusHistory,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		PaymentIntentID: o.PaymentIntentID,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
