package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de descuento para Sale.
const (
	DiscountPercent = "percent"
	DiscountFlat    = "flat"
)

// PointsPriceDivisor convierte precio en puntos: pointsPrice = ceil(price / 250).
// El mismo divisor se usa al debitar puntos en la creación de órdenes.
var PointsPriceDivisor = decimal.NewFromInt(250)

// Variant es una combinación talla × color con su propio stock.
// Invariante: Stock nunca queda negativo; solo se decrementa si alcanza.
type Variant struct {
	Size  string `json:"size"`
	Color string `json:"color"`
	Stock int64  `json:"stock"`
}

// Sale ventana de oferta de un producto. El scheduler la enciende y
// apaga según StartsAt/EndsAt.
type Sale struct {
	IsOnSale      bool             `json:"isOnSale"`
	DiscountType  string           `json:"discountType,omitempty"` // percent | flat
	DiscountValue *decimal.Decimal `json:"discountValue,omitempty"`
	StartsAt      *time.Time       `json:"startsAt,omitempty"`
	EndsAt        *time.Time       `json:"endsAt,omitempty"`
}

// Product artículo del catálogo. Variants, Images, Sale y las etiquetas se
// persisten como JSONB; PointsPrice es derivado del precio y se recalcula
// en cada create/update.
type Product struct {
	ID            string
	Title         string // único
	Description   string
	Price         decimal.Decimal
	PointsPrice   int64
	Variants      []Variant
	Images        []string
	AverageRating float64
	RatingCount   int64
	PurchaseTypes []string // money, points, hybrid
	Sale          Sale
	DressStyles   []string
	Categories    []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ComputePointsPrice deriva el precio en puntos desde el precio en dinero.
func ComputePointsPrice(price decimal.Decimal) int64 {
	return price.Div(PointsPriceDivisor).Ceil().IntPart()
}

// EffectivePrice precio vigente del producto: aplica el descuento de la
// oferta activa o devuelve el precio base. Nunca retorna negativo.
func (p *Product) EffectivePrice() decimal.Decimal {
	if !p.Sale.IsOnSale || p.Sale.DiscountValue == nil {
		return p.Price
	}
	var price decimal.Decimal
	switch p.Sale.DiscountType {
	case DiscountPercent:
		factor := decimal.NewFromInt(100).Sub(*p.Sale.DiscountValue).Div(decimal.NewFromInt(100))
		price = p.Price.Mul(factor)
	case DiscountFlat:
		price = p.Price.Sub(*p.Sale.DiscountValue)
	default:
		return p.Price
	}
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// FindVariant busca la variante exacta talla/color. Devuelve nil si no existe.
func (p *Product) FindVariant(size, color string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Size == size && p.Variants[i].Color == color {
			return &p.Variants[i]
		}
	}
	return nil
}
