// Package stripe adapta la pasarela de pagos de Stripe al puerto
// payment.Gateway: sesiones de checkout hospedadas y webhooks firmados.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	stripeapi "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/application/payment"
)

var _ payment.Gateway = (*Gateway)(nil)

// Gateway implementación del puerto payment.Gateway sobre la API de Stripe.
type Gateway struct {
	webhookSecret string
	clientURL     string
}

// NewGateway configura la clave global de la librería y construye el adaptador.
func NewGateway(secretKey, webhookSecret, clientURL string) *Gateway {
	stripeapi.Key = secretKey
	return &Gateway{webhookSecret: webhookSecret, clientURL: clientURL}
}

// CreateCheckoutSession crea una sesión de pago hospedada. El snapshot del
// carrito y la dirección de envío viajan en los metadatos: el webhook los
// usa para crear la orden sin confiar en el cliente.
func (g *Gateway) CreateCheckoutSession(_ context.Context, userID string, items []dto.CheckoutItem, shippingAddress string) (string, error) {
	cartJSON, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("stripe: serializar carrito: %w", err)
	}

	lineItems := make([]*stripeapi.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		name := item.Title
		if item.Size != "" || item.Color != "" {
			name = fmt.Sprintf("%s (%s/%s)", item.Title, item.Size, item.Color)
		}
		lineItems = append(lineItems, &stripeapi.CheckoutSessionLineItemParams{
			PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
				Currency: stripeapi.String(string(stripeapi.CurrencyUSD)),
				ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripeapi.String(name),
				},
				UnitAmount: stripeapi.Int64(int64(math.Round(item.Price * 100))),
			},
			Quantity: stripeapi.Int64(item.Quantity),
		})
	}

	params := &stripeapi.CheckoutSessionParams{
		Mode:       stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripeapi.String(g.clientURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripeapi.String(g.clientURL + "/cart"),
	}
	params.AddMetadata("userId", userID)
	params.AddMetadata("cart", string(cartJSON))
	params.AddMetadata("shippingAddress", shippingAddress)
	// los metadatos también en el payment intent, para los eventos de fallo
	params.PaymentIntentData = &stripeapi.CheckoutSessionPaymentIntentDataParams{
		Metadata: map[string]string{"userId": userID},
	}

	s, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: crear sesión: %w", err)
	}
	return s.URL, nil
}

// ParseWebhook verifica la firma del payload contra el secreto del
// endpoint y decodifica el evento a la forma neutral del dominio.
func (g *Gateway) ParseWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("stripe: verificar firma: %w", err)
	}

	out := &payment.WebhookEvent{Type: string(event.Type)}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.expired":
		var s stripeapi.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("stripe: decodificar sesión: %w", err)
		}
		out.SessionID = s.ID
		out.UserID = s.Metadata["userId"]
		out.ShippingAddress = s.Metadata["shippingAddress"]
		if s.PaymentIntent != nil {
			out.PaymentIntentID = s.PaymentIntent.ID
		}
		if cart := s.Metadata["cart"]; cart != "" {
			if err := json.Unmarshal([]byte(cart), &out.Cart); err != nil {
				return nil, fmt.Errorf("stripe: decodificar carrito: %w", err)
			}
		}
	case "payment_intent.payment_failed":
		var pi stripeapi.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("stripe: decodificar payment intent: %w", err)
		}
		out.PaymentIntentID = pi.ID
		out.UserID = pi.Metadata["userId"]
	}

	return out, nil
}
