package repository

import (
	"time"

	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
)

// ProductFilter criterios de listado del catálogo público.
type ProductFilter struct {
	Search      string
	MinPrice    *float64
	MaxPrice    *float64
	Categories  []string
	DressStyles []string
	Sizes       []string
	Colors      []string
	SortBy      []string // campos, en orden
	SortDesc    []bool   // paralelo a SortBy
	Limit       int
	Offset      int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetForUpdate bloquea la fila del producto; es la base del decremento de
// stock por variante dentro de una transacción.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateRating(productID string, average float64, count int64) error
	List(filter ProductFilter) ([]*entity.Product, int64, error)
	ListRelated(product *entity.Product, limit int) ([]*entity.Product, error)
	Delete(id string) error
	// StartDueSales / EndExpiredSales son las operaciones del scheduler de
	// ofertas: encienden las ventanas cuya hora llegó y apagan las vencidas.
	// Ambas devuelven los productos afectados para poder anunciar el inicio
	// y el cierre por el canal en tiempo real.
	StartDueSales(now time.Time) ([]*entity.Product, error)
	EndExpiredSales(now time.Time) ([]*entity.Product, error)
}
