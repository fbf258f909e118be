package order

import (
	"context"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad entre el débito de
// puntos, el decremento de stock y la escritura de la orden.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		userRepo repository.UserRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// Notifier contrato mínimo del despachador de notificaciones que necesita
// este paquete; lo implementa *usecase.NotificationUseCase. El uso de
// interfaz evita el import circular.
type Notifier interface {
	NotifyUser(userID, title, message, ntype string, relatedID *string) (*dto.NotificationResponse, error)
}
