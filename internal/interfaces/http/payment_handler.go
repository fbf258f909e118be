package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/application/payment"
)

// PaymentHandler maneja la sesión de checkout y el webhook de la pasarela.
type PaymentHandler struct {
	uc *payment.UseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payment.UseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// CreateCheckoutSession godoc
// @Summary      Crear sesión de checkout hospedada
// @Description  Los precios se fijan del lado del servidor; la respuesta es la URL de redirección.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutSessionRequest  true  "Carrito y dirección de envío"
// @Success      201   {object}  dto.CheckoutSessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/payments/checkout-session [post]
func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	var in dto.CheckoutSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateCheckoutSession(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Webhook godoc
// @Summary      Webhook de la pasarela de pagos
// @Description  Verifica la firma del payload; sin firma válida la petición se rechaza.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/payments/webhook [post]
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")
	if err := h.uc.HandleWebhook(c.Context(), c.Body(), signature); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "ok"})
}
