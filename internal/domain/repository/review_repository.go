package repository

import "github.com/LaibaHameed12/ecom-backend/internal/domain/entity"

// ReviewRepository define el puerto de persistencia para Review.
// Create debe mapear la violación del constraint único (user, product, order)
// a domain.ErrDuplicateReview: es la guardia definitiva bajo el pre-chequeo
// optimista del caso de uso.
type ReviewRepository interface {
	Create(review *entity.Review) error
	Exists(userID, productID, orderID string) (bool, error)
	ListByProduct(productID string) ([]*entity.Review, error)
	ListRecent(limit int) ([]*entity.Review, error)
	// ReviewedOrderIDs devuelve los IDs de órdenes que el usuario ya reseñó
	// para ese producto (para calcular órdenes pendientes de reseña).
	ReviewedOrderIDs(userID, productID string) ([]string, error)
	// Aggregate recalcula promedio y conteo de ratings de un producto.
	Aggregate(productID string) (average float64, count int64, err error)
}
