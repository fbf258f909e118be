package dto

import (
	"time"

	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
)

// CreateReviewRequest alta de reseña sobre un producto de una orden entregada.
type CreateReviewRequest struct {
	OrderID string `json:"orderId"`
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// ReviewResponse representación de la reseña.
type ReviewResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product"`
	OrderID   string    `json:"order"`
	UserID    string    `json:"user"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CanReviewResponse elegibilidad de reseña para un usuario/producto.
type CanReviewResponse struct {
	CanReview     bool     `json:"canReview"`
	PendingOrders []string `json:"pendingOrders"`
	HasPurchased  bool     `json:"hasPurchased"`
}

// ToReviewResponse convierte la entidad al DTO de respuesta.
func ToReviewResponse(r *entity.Review) *ReviewResponse {
	if r == nil {
		return nil
	}
	return &ReviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		OrderID:   r.OrderID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Title:     r.Title,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
