package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
)

// VariantRequest talla × color con stock inicial.
type VariantRequest struct {
	Size  string `json:"size"`
	Color string `json:"color"`
	Stock int64  `json:"stock"`
}

// CreateProductRequest alta de producto (admin). Images puede venir
// pre-subida (URLs) o resolverse desde el multipart en el handler.
type CreateProductRequest struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	Variants      []VariantRequest `json:"variants"`
	Images        []string         `json:"images"`
	PurchaseTypes []string         `json:"purchaseTypes"`
	DressStyles   []string         `json:"dressStyle"`
	Categories    []string         `json:"categories"`
}

// UpdateProductRequest actualización parcial: solo los campos no-nil se aplican.
type UpdateProductRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Variants      []VariantRequest `json:"variants"`
	Images        []string         `json:"images"`
	PurchaseTypes []string         `json:"purchaseTypes"`
	DressStyles   []string         `json:"dressStyle"`
	Categories    []string         `json:"categories"`
}

// SetSaleRequest ventana de oferta.
type SetSaleRequest struct {
	DiscountType  string           `json:"discountType"` // percent | flat
	DiscountValue *decimal.Decimal `json:"discountValue"`
	StartsAt      *time.Time       `json:"startsAt"`
	EndsAt        *time.Time       `json:"endsAt"`
}

// QueryProductsRequest filtros del listado público.
type QueryProductsRequest struct {
	Search      string   `query:"search"`
	MinPrice    *float64 `query:"minPrice"`
	MaxPrice    *float64 `query:"maxPrice"`
	Categories  []string `query:"categories"`
	DressStyles []string `query:"dressStyle"`
	Sizes       []string `query:"sizes"`
	Colors      []string `query:"colors"`
	Page        int      `query:"page"`
	Limit       int      `query:"limit"`
	SortBy      string   `query:"sortBy"`    // campos separados por coma
	SortOrder   string   `query:"sortOrder"` // asc|desc por campo, separados por coma
}

// ProductResponse representación pública del producto.
type ProductResponse struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	PointsPrice   int64            `json:"pointsPrice"`
	Variants      []entity.Variant `json:"variants"`
	Images        []string         `json:"images"`
	AverageRating float64          `json:"averageRating"`
	RatingCount   int64            `json:"ratingCount"`
	PurchaseTypes []string         `json:"purchaseType"`
	Sale          entity.Sale      `json:"sale"`
	DressStyles   []string         `json:"dressStyle"`
	Categories    []string         `json:"categories"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// ProductListResponse página del catálogo.
type ProductListResponse struct {
	Products   []*ProductResponse `json:"products"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int64              `json:"totalPages"`
}

// ToProductResponse convierte la entidad al DTO de respuesta.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		PointsPrice:   p.PointsPrice,
		Variants:      p.Variants,
		Images:        p.Images,
		AverageRating: p.AverageRating,
		RatingCount:   p.RatingCount,
		PurchaseTypes: p.PurchaseTypes,
		Sale:          p.Sale,
		DressStyles:   p.DressStyles,
		Categories:    p.Categories,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
