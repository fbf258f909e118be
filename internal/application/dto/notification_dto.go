package dto

import (
	"time"

	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
)

// NotificationResponse aviso persistido; es también el payload que se
// publica por el canal en tiempo real.
type NotificationResponse struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user,omitempty"` // nil = broadcast
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	RelatedID *string   `json:"relatedEntity,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToNotificationResponse convierte la entidad al DTO de respuesta.
func ToNotificationResponse(n *entity.Notification) *NotificationResponse {
	if n == nil {
		return nil
	}
	return &NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		RelatedID: n.RelatedID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
