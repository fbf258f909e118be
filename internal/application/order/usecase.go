package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
	"github.com/LaibaHameed12/ecom-backend/pkg/logger"
)

// UseCase orquesta creación de órdenes, transiciones de estado, decremento
// de stock y la contabilidad de puntos de fidelidad sobre los repositorios
// de usuario, producto y orden.
type UseCase struct {
	txRunner  TxRunner
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	notifier  Notifier
	log       *logger.Logger
}

// NewUseCase construye el caso de uso de órdenes.
func NewUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		log:       log,
	}
}

// Create crea una orden pagada con puntos. El pago con tarjeta se rechaza
// aquí: ese flujo pasa por la sesión de checkout y la orden la materializa
// el webhook.
//
// Dentro de UNA transacción: bloquea la fila del usuario, debita
// ceil(total/250) puntos, descuenta el stock de cada variante y crea la
// orden ya en estado paid con una única entrada de historial. Si cualquier
// paso falla, todo se revierte.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la orden debe contener al menos un item", domain.ErrInvalidInput)
	}

	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	// Los usuarios con rol administrativo no pueden comprar.
	if user.IsStaff() {
		return nil, domain.ErrForbidden
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" || it.Size == "" || it.Color == "" || it.Quantity <= 0 || it.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		items = append(items, entity.OrderItem{
			ProductID: it.ProductID,
			Size:      it.Size,
			Color:     it.Color,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	// El total se recalcula siempre en el servidor.
	total := entity.ComputeTotal(items)

	if in.PaymentMethod != entity.PaymentPoints {
		return nil, fmt.Errorf("%w: el pago con tarjeta se inicia en /payment/create-checkout-session", domain.ErrInvalidInput)
	}

	required := entity.RequiredPoints(total)
	if user.LoyaltyPoints < required {
		return nil, domain.ErrInsufficientPoints
	}

	now := time.Now()
	newOrder := &entity.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     total,
		TotalPointsUsed: required,
		Status:          entity.OrderPaid,
		StatusHistory:   []entity.StatusChange{{Status: entity.OrderPaid, ChangedAt: now}},
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   entity.PaymentPoints,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = uc.txRunner.Run(ctx, func(
		orders repository.OrderRepository,
		users repository.UserRepository,
		products repository.ProductRepository,
	) error {
		locked, err := users.GetForUpdate(userID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrUserNotFound
		}
		// Re-chequeo bajo lock: una orden concurrente pudo gastar el saldo.
		if locked.LoyaltyPoints < required {
			return domain.ErrInsufficientPoints
		}
		locked.LoyaltyPoints -= required
		locked.UpdatedAt = now
		if err := users.Update(locked); err != nil {
			return err
		}
		for _, it := range items {
			if err := DecrementVariantStock(products, it.ProductID, it.Size, it.Color, it.Quantity); err != nil {
				return err
			}
		}
		return orders.Create(newOrder)
	})
	if err != nil {
		return nil, err
	}

	if _, err := uc.notifier.NotifyUser(
		userID,
		"Puntos de fidelidad debitados",
		fmt.Sprintf("Se debitaron %d puntos de tu cuenta por esta orden.", required),
		entity.NotificationLoyalty,
		&newOrder.ID,
	); err != nil {
		uc.log.Warn().Err(err).Str("order_id", newOrder.ID).Msg("notificación de débito de puntos fallida")
	}

	return dto.ToOrderResponse(newOrder), nil
}

// List devuelve las órdenes del usuario; los administradores ven todas.
func (uc *UseCase) List(userID string, isAdmin bool, limit, offset int) ([]*dto.OrderResponse, error) {
	var (
		orders []*entity.Order
		err    error
	)
	if isAdmin {
		orders, err = uc.orderRepo.ListAll(limit, offset)
	} else {
		orders, err = uc.orderRepo.ListByUser(userID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.ToOrderResponse(o))
	}
	return out, nil
}

// GetByID devuelve una orden si el solicitante es su dueño o administrador.
func (uc *UseCase) GetByID(userID string, isAdmin bool, id string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if !isAdmin && o.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return dto.ToOrderResponse(o), nil
}

// UpdateStatus transiciona el estado de una orden (admin).
//
// Reglas:
//   - delivered y cancelled son terminales: cualquier intento posterior
//     retorna ErrTerminalStatus.
//   - El historial solo crece cuando el estado nuevo difiere del actual.
//   - Al entrar en delivered con pago distinto de points se acreditan
//     floor(total/500) puntos al dueño, a lo sumo una vez: la fila de la
//     orden queda bloqueada durante toda la transacción, así que el chequeo
//     del estado previo y la persistencia del crédito son atómicos.
func (uc *UseCase) UpdateStatus(ctx context.Context, id, newStatus string) (*dto.OrderResponse, error) {
	if !entity.ValidOrderStatus(newStatus) {
		return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, newStatus)
	}

	var (
		updated *entity.Order
		changed bool
		earned  int64
	)
	err := uc.txRunner.Run(ctx, func(
		orders repository.OrderRepository,
		users repository.UserRepository,
		_ repository.ProductRepository,
	) error {
		o, err := orders.GetForUpdate(id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if o.Terminal() {
			return domain.ErrTerminalStatus
		}

		now := time.Now()
		prev := o.Status
		if newStatus != prev {
			changed = true
			o.Status = newStatus
			o.StatusHistory = append(o.StatusHistory, entity.StatusChange{Status: newStatus, ChangedAt: now})
		}

		if prev != entity.OrderDelivered && newStatus == entity.OrderDelivered {
			o.DeliveredAt = &now
			// Solo acumulan puntos las órdenes que NO se pagaron con puntos.
			if o.PaymentMethod != entity.PaymentPoints {
				owner, err := users.GetForUpdate(o.UserID)
				if err != nil {
					return err
				}
				if owner != nil {
					earned = entity.EarnedPoints(o.TotalAmount)
					owner.LoyaltyPoints += earned
					owner.UpdatedAt = now
					if err := users.Update(owner); err != nil {
						return err
					}
				}
			}
		}

		o.UpdatedAt = now
		if err := orders.Update(o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sin transición no hay nada que avisar.
	if changed {
		if _, err := uc.notifier.NotifyUser(
			updated.UserID,
			"Estado de tu orden actualizado",
			fmt.Sprintf("Tu orden ahora está en estado %q.", updated.Status),
			entity.NotificationOrder,
			&updated.ID,
		); err != nil {
			uc.log.Warn().Err(err).Str("order_id", updated.ID).Msg("notificación de cambio de estado fallida")
		}
	}
	if earned > 0 {
		if _, err := uc.notifier.NotifyUser(
			updated.UserID,
			"Puntos de fidelidad acreditados",
			fmt.Sprintf("Ganaste %d puntos por tu compra.", earned),
			entity.NotificationLoyalty,
			&updated.ID,
		); err != nil {
			uc.log.Warn().Err(err).Str("order_id", updated.ID).Msg("notificación de crédito de puntos fallida")
		}
	}

	return dto.ToOrderResponse(updated), nil
}

// Delete elimina una orden (limpieza privilegiada).
func (uc *UseCase) Delete(id string) error {
	o, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if o == nil {
		return domain.ErrNotFound
	}
	return uc.orderRepo.Delete(id)
}
