package order

import (
	"time"

	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
)

// DecrementVariantStock bloquea la fila del producto, ubica la variante
// exacta talla/color y descuenta la cantidad pedida.
//
// Retorna:
//   - domain.ErrNotFound          si el producto o la variante no existen.
//   - domain.ErrInsufficientStock si el stock no alcanza; el stock queda intacto.
//
// Funciona igual con un repositorio atado a una transacción (creación
// directa de órdenes) o directo al pool (finalización por webhook): fuera
// de una tx el FOR UPDATE solo dura lo que la sentencia.
func DecrementVariantStock(products repository.ProductRepository, productID, size, color string, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	product, err := products.GetForUpdate(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	variant := product.FindVariant(size, color)
	if variant == nil {
		return domain.ErrNotFound
	}
	if variant.Stock < quantity {
		return domain.ErrInsufficientStock
	}
	variant.Stock -= quantity
	product.UpdatedAt = time.Now()
	return products.Update(product)
}
