package entity

import "time"

// Tipos de notificación.
const (
	NotificationSale    = "sale"
	NotificationLoyalty = "loyalty"
	NotificationOrder   = "order"
	NotificationAdmin   = "admin"
)

// Notification aviso persistido y empujado por el canal en tiempo real.
// UserID en nil significa broadcast a todos los usuarios conectados.
type Notification struct {
	ID        string
	UserID    *string
	Title     string
	Message   string
	Type      string
	RelatedID *string // orden, producto u otra entidad relacionada
	Read      bool
	CreatedAt time.Time
}
