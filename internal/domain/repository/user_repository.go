package repository

import "github.com/LaibaHameed12/ecom-backend/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
// GetForUpdate solo tiene sentido dentro de una transacción: bloquea la fila
// para la mutación de puntos de fidelidad.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetForUpdate(id string) (*entity.User, error)
	Update(user *entity.User) error
	List(limit, offset int) ([]*entity.User, error)
	Delete(id string) error
}
