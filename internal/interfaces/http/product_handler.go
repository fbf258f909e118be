package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP del catálogo.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Listar el catálogo con filtros y paginación
// @Tags         products
// @Produce      json
// @Param        search      query  string  false  "Texto a buscar en título y descripción"
// @Param        minPrice    query  number  false  "Precio mínimo"
// @Param        maxPrice    query  number  false  "Precio máximo"
// @Param        categories  query  string  false  "Categorías separadas por coma"
// @Param        dressStyle  query  string  false  "Estilos separados por coma"
// @Param        sizes       query  string  false  "Tallas separadas por coma"
// @Param        colors      query  string  false  "Colores separados por coma"
// @Param        sortBy      query  string  false  "Campos de orden separados por coma"
// @Param        sortOrder   query  string  false  "asc|desc por campo, separados por coma"
// @Param        page        query  int     false  "Página"  default(1)
// @Param        limit       query  int     false  "Límite"  default(12)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	in := dto.QueryProductsRequest{
		Search:      c.Query("search"),
		Categories:  splitQuery(c.Query("categories")),
		DressStyles: splitQuery(c.Query("dressStyle")),
		Sizes:       splitQuery(c.Query("sizes")),
		Colors:      splitQuery(c.Query("colors")),
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", 12),
		SortBy:      c.Query("sortBy"),
		SortOrder:   c.Query("sortOrder"),
	}
	if v := c.QueryFloat("minPrice", -1); v >= 0 {
		in.MinPrice = &v
	}
	if v := c.QueryFloat("maxPrice", -1); v >= 0 {
		in.MaxPrice = &v
	}
	out, err := h.uc.List(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListRelated godoc
// @Summary      Productos relacionados (misma categoría o estilo)
// @Tags         products
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        limit  query  int     false  "Límite"  default(4)
// @Success      200    {array}  dto.ProductResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/products/{id}/related [get]
func (h *ProductHandler) ListRelated(c *fiber.Ctx) error {
	out, err := h.uc.ListRelated(c.Params("id"), c.QueryInt("limit", 4))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto (admin)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UploadImages godoc
// @Summary      Subir imágenes de producto al CDN (admin)
// @Tags         products
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        images  formData  file  true  "Archivos de imagen"
// @Success      201     {object}  map[string][]string
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/products/images [post]
func (h *ProductHandler) UploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere al menos un archivo en el campo images"})
	}

	files := make([]usecase.ImageFile, 0, len(form.File["images"]))
	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no se pudo leer el archivo " + fh.Filename})
		}
		defer f.Close()
		files = append(files, usecase.ImageFile{Name: fh.Filename, Reader: f})
	}

	urls, err := h.uc.UploadImages(c.Context(), files)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"urls": urls})
}

// Update godoc
// @Summary      Actualizar producto (admin)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetSale godoc
// @Summary      Configurar la oferta de un producto (admin)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.SetSaleRequest  true  "Ventana de oferta"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/sale [post]
func (h *ProductHandler) SetSale(c *fiber.Ctx) error {
	var in dto.SetSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SetSale(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RemoveSale godoc
// @Summary      Quitar la oferta de un producto (admin)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/sale [delete]
func (h *ProductHandler) RemoveSale(c *fiber.Ctx) error {
	out, err := h.uc.RemoveSale(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar producto (admin)
// @Tags         products
// @Security     Bearer
// @Param        id  path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// splitQuery divide un parámetro "a,b,c" en sus valores no vacíos.
func splitQuery(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
