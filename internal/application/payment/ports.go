package payment

import (
	"context"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
)

// Tipos de evento de pasarela que el caso de uso sabe interpretar.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
	EventPaymentFailed     = "payment_intent.payment_failed"
)

// WebhookEvent es el evento de pasarela ya verificado y decodificado.
// UserID, Cart y ShippingAddress vienen de los metadatos que guardamos
// al crear la sesión de checkout.
type WebhookEvent struct {
	Type            string
	SessionID       string
	PaymentIntentID string
	UserID          string
	Cart            []dto.CheckoutItem
	ShippingAddress string
}

// Gateway abstrae la pasarela de pagos (Stripe en producción).
type Gateway interface {
	// CreateCheckoutSession crea una sesión de pago alojada y devuelve
	// su URL. Los metadatos deben permitir reconstruir la orden en el
	// webhook sin confiar en el cliente.
	CreateCheckoutSession(ctx context.Context, userID string, items []dto.CheckoutItem, shippingAddress string) (url string, err error)

	// ParseWebhook verifica la firma del payload y decodifica el
	// evento. Una firma inválida es un error, nunca un evento.
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
