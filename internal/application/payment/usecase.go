package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	orderapp "github.com/LaibaHameed12/ecom-backend/internal/application/order"
	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
	"github.com/LaibaHameed12/ecom-backend/pkg/logger"
)

// UseCase maneja el flujo de pago con dinero: creación de la sesión de
// checkout y finalización de la orden al recibir el webhook verificado.
type UseCase struct {
	gateway     Gateway
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	notifier    orderapp.Notifier
	log         *logger.Logger
}

// NewUseCase construye el caso de uso de pagos.
func NewUseCase(
	gateway Gateway,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	notifier orderapp.Notifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		gateway:     gateway,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		notifier:    notifier,
		log:         log,
	}
}

// CreateCheckoutSession valida el carrito contra el catálogo, fija los
// precios del lado del servidor y crea la sesión hospedada en la pasarela.
// Los precios del cliente se ignoran: el snapshot que viaja en los
// metadatos lleva el precio vigente de cada producto.
func (uc *UseCase) CreateCheckoutSession(ctx context.Context, userID string, req dto.CheckoutSessionRequest) (*dto.CheckoutSessionResponse, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: el carrito está vacío", domain.ErrInvalidInput)
	}

	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("checkout: obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.IsStaff() {
		return nil, fmt.Errorf("%w: las cuentas administrativas no pueden comprar", domain.ErrForbidden)
	}

	snapshot := make([]dto.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: ítem de carrito inválido", domain.ErrInvalidInput)
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("checkout: obtener producto: %w", err)
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
		}
		variant := product.FindVariant(item.Size, item.Color)
		if variant == nil {
			return nil, fmt.Errorf("%w: variante %s/%s de %s", domain.ErrNotFound, item.Size, item.Color, product.Title)
		}
		if variant.Stock < item.Quantity {
			return nil, fmt.Errorf("%w: %s (%s/%s)", domain.ErrInsufficientStock, product.Title, item.Size, item.Color)
		}
		price, _ := product.EffectivePrice().Float64()
		snapshot = append(snapshot, dto.CheckoutItem{
			ProductID: product.ID,
			Title:     product.Title,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			Price:     price,
		})
	}

	url, err := uc.gateway.CreateCheckoutSession(ctx, userID, snapshot, req.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("checkout: crear sesión: %w", err)
	}

	uc.log.Info().
		Str("user_id", userID).
		Int("items", len(snapshot)).
		Msg("Sesión de checkout creada")

	return &dto.CheckoutSessionResponse{URL: url}, nil
}

// HandleWebhook verifica la firma del payload, decodifica el evento y
// aplica sus efectos. Solo checkout.session.completed crea una orden;
// los eventos de fallo o expiración notifican al usuario y nada más.
// Eventos de tipos desconocidos se ignoran con un ack.
func (uc *UseCase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := uc.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: firma de webhook inválida: %v", domain.ErrUnauthorized, err)
	}

	switch event.Type {
	case EventCheckoutCompleted:
		return uc.finalizeOrder(ctx, event)
	case EventCheckoutExpired, EventPaymentFailed:
		uc.notifyFailure(event)
		return nil
	default:
		uc.log.Debug().Str("type", event.Type).Msg("Evento de webhook ignorado")
		return nil
	}
}

// finalizeOrder crea la orden pagada a partir del snapshot del carrito
// que viaja en los metadatos de la sesión y descuenta el stock. Un fallo
// al descontar una variante se registra pero no revierte la orden: el
// pago ya ocurrió y la orden debe existir.
func (uc *UseCase) finalizeOrder(ctx context.Context, event *WebhookEvent) error {
	if event.UserID == "" || len(event.Cart) == 0 {
		return fmt.Errorf("%w: webhook sin metadatos de orden", domain.ErrInvalidInput)
	}

	items := make([]entity.OrderItem, 0, len(event.Cart))
	for _, line := range event.Cart {
		items = append(items, entity.OrderItem{
			ProductID: line.ProductID,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			Price:     decimal.NewFromFloat(line.Price),
		})
	}

	now := time.Now()
	o := &entity.Order{
		ID:              uuid.New().String(),
		UserID:          event.UserID,
		Items:           items,
		TotalAmount:     entity.ComputeTotal(items),
		PaymentMethod:   entity.PaymentMoney,
		PaymentIntentID: event.PaymentIntentID,
		Status:          entity.OrderPaid,
		ShippingAddress: event.ShippingAddress,
		StatusHistory: []entity.StatusChange{
			{Status: entity.OrderPaid, ChangedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.orderRepo.Create(o); err != nil {
		return fmt.Errorf("webhook: crear orden: %w", err)
	}

	for _, item := range items {
		if err := orderapp.DecrementVariantStock(uc.productRepo, item.ProductID, item.Size, item.Color, item.Quantity); err != nil {
			uc.log.Error().Err(err).
				Str("order_id", o.ID).
				Str("product_id", item.ProductID).
				Msg("No se pudo descontar stock tras el pago")
		}
	}

	uc.log.Info().
		Str("order_id", o.ID).
		Str("user_id", o.UserID).
		Str("total", o.TotalAmount.String()).
		Msg("Orden creada desde webhook de pago")

	if _, err := uc.notifier.NotifyUser(
		o.UserID,
		"Pago confirmado",
		fmt.Sprintf("Tu pago fue confirmado y la orden %s está en preparación.", o.ID),
		entity.NotificationOrder,
		&o.ID,
	); err != nil {
		uc.log.Warn().Err(err).Str("order_id", o.ID).Msg("No se pudo notificar el pago confirmado")
	}
	return nil
}

func (uc *UseCase) notifyFailure(event *WebhookEvent) {
	if event.UserID == "" {
		uc.log.Warn().Str("type", event.Type).Msg("Evento de fallo sin usuario en metadatos")
		return
	}
	relatedID := event.SessionID
	var related *string
	if relatedID != "" {
		related = &relatedID
	}
	if _, err := uc.notifier.NotifyUser(
		event.UserID,
		"Pago no completado",
		"Tu pago no se completó. Puedes intentarlo de nuevo desde el carrito.",
		entity.NotificationOrder,
		related,
	); err != nil {
		uc.log.Warn().Err(err).Str("user_id", event.UserID).Msg("No se pudo notificar el fallo de pago")
	}
}
