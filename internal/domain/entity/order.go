package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden. delivered y cancelled son terminales: una vez ahí
// no se permite ninguna transición más.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Métodos de pago aceptados.
const (
	PaymentPoints = "points"
	PaymentMoney  = "money"
)

// LoyaltyEarnDivisor: puntos ganados al entregar una orden pagada con
// dinero = floor(total / 500).
var LoyaltyEarnDivisor = decimal.NewFromInt(500)

// ValidOrderStatus indica si el estado pertenece al conjunto permitido.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderPaid, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItem snapshot inmutable de una línea al momento de la compra.
// Price es el precio unitario capturado; nunca se relee del catálogo.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// StatusChange entrada del historial de estados (append-only).
type StatusChange struct {
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changedAt"`
}

// Order registro de compra. Items y StatusHistory se persisten como JSONB.
// TotalAmount siempre se recalcula en el servidor a partir de los items.
type Order struct {
	ID              string
	UserID          string
	Items           []OrderItem
	TotalAmount     decimal.Decimal
	TotalPointsUsed int64
	Status          string
	StatusHistory   []StatusChange
	ShippingAddress string
	PaymentMethod   string // points | money
	PaymentIntentID string // referencia de la pasarela, si aplica
	DeliveredAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Terminal indica si la orden ya no admite transiciones de estado.
func (o *Order) Terminal() bool {
	return o.Status == OrderDelivered || o.Status == OrderCancelled
}

// ComputeTotal suma price × quantity de cada línea. Nunca se confía en un
// total enviado por el cliente.
func ComputeTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}

// RequiredPoints puntos necesarios para pagar un total con el método points.
func RequiredPoints(total decimal.Decimal) int64 {
	return total.Div(PointsPriceDivisor).Ceil().IntPart()
}

// EarnedPoints puntos acreditados al entregar una orden pagada con dinero.
func EarnedPoints(total decimal.Decimal) int64 {
	return total.Div(LoyaltyEarnDivisor).Floor().IntPart()
}
