package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/application/usecase"
)

// ReviewHandler maneja las peticiones HTTP de reseñas.
type ReviewHandler struct {
	uc *usecase.ReviewUseCase
}

// NewReviewHandler construye el handler.
func NewReviewHandler(uc *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

// Create godoc
// @Summary      Crear reseña de un producto comprado
// @Description  Requiere una orden entregada del usuario que contenga el producto; una reseña por orden.
// @Tags         reviews
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Param        body       body  dto.CreateReviewRequest  true  "Reseña"
// @Success      201  {object}  dto.ReviewResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{productId}/reviews [post]
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(GetUserID(c), c.Params("productId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByProduct godoc
// @Summary      Listar reseñas de un producto
// @Tags         reviews
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {array}  dto.ReviewResponse
// @Router       /api/products/{productId}/reviews [get]
func (h *ReviewHandler) ListByProduct(c *fiber.Ctx) error {
	out, err := h.uc.ListByProduct(c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListRecent godoc
// @Summary      Últimas reseñas del sitio
// @Tags         reviews
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(10)
// @Success      200    {array}  dto.ReviewResponse
// @Router       /api/reviews/recent [get]
func (h *ReviewHandler) ListRecent(c *fiber.Ctx) error {
	out, err := h.uc.ListRecent(c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CanReview godoc
// @Summary      Elegibilidad de reseña del usuario para un producto
// @Tags         reviews
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.CanReviewResponse
// @Router       /api/products/{productId}/reviews/can-review [get]
func (h *ReviewHandler) CanReview(c *fiber.Ctx) error {
	out, err := h.uc.CanReview(GetUserID(c), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
