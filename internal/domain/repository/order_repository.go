package repository

import "github.com/LaibaHameed12/ecom-backend/internal/domain/entity"

// OrderRepository define el puerto de persistencia para Order (DIP).
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	GetForUpdate(id string) (*entity.Order, error)
	Update(order *entity.Order) error
	ListByUser(userID string, limit, offset int) ([]*entity.Order, error)
	ListAll(limit, offset int) ([]*entity.Order, error)
	// ListDeliveredByUser alimenta la elegibilidad de reseñas.
	ListDeliveredByUser(userID string) ([]*entity.Order, error)
	Delete(id string) error
}
