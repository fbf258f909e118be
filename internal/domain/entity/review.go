package entity

import "time"

// Review calificación de un producto comprado. Solo se acepta si la orden
// referida pertenece al usuario, está entregada y contiene el producto.
// Invariante: a lo sumo una reseña por (user, product, order); el constraint
// único en la base es la garantía definitiva.
type Review struct {
	ID        string
	ProductID string
	OrderID   string
	UserID    string
	Rating    int // 1..5
	Title     string
	Comment   string
	CreatedAt time.Time
}
