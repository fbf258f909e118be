package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
	"github.com/LaibaHameed12/ecom-backend/pkg/logger"
)

// ImageUploader puerto del almacén externo de imágenes (Cloudinary).
type ImageUploader interface {
	Upload(ctx context.Context, r io.Reader, filename string) (url string, err error)
}

// ImageFile archivo de imagen recibido en multipart, listo para subir.
type ImageFile struct {
	Name   string
	Reader io.Reader
}

// ProductUseCase catálogo: CRUD de productos, listado con filtros,
// relacionados y ventanas de oferta.
type ProductUseCase struct {
	repo     repository.ProductRepository
	notifier *NotificationUseCase
	uploader ImageUploader
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso del catálogo.
func NewProductUseCase(repo repository.ProductRepository, notifier *NotificationUseCase, uploader ImageUploader, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, notifier: notifier, uploader: uploader, log: log}
}

// UploadImages sube cada archivo al almacén externo y devuelve las URLs
// resultantes en el mismo orden.
func (uc *ProductUseCase) UploadImages(ctx context.Context, files []ImageFile) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := uc.uploader.Upload(ctx, f.Reader, f.Name)
		if err != nil {
			return nil, fmt.Errorf("subir imagen %s: %w", f.Name, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// Create da de alta un producto. PointsPrice se deriva del precio y las
// variantes no pueden repetir la combinación talla/color.
func (uc *ProductUseCase) Create(req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: el título es requerido", domain.ErrInvalidInput)
	}
	if req.Price.IsNegative() || req.Price.IsZero() {
		return nil, fmt.Errorf("%w: el precio debe ser mayor que cero", domain.ErrInvalidInput)
	}
	variants, err := buildVariants(req.Variants)
	if err != nil {
		return nil, err
	}
	purchaseTypes := req.PurchaseTypes
	if len(purchaseTypes) == 0 {
		purchaseTypes = []string{"money"}
	}

	now := time.Now()
	p := &entity.Product{
		ID:            uuid.New().String(),
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Price:         req.Price,
		PointsPrice:   entity.ComputePointsPrice(req.Price),
		Variants:      variants,
		Images:        req.Images,
		PurchaseTypes: purchaseTypes,
		DressStyles:   req.DressStyles,
		Categories:    req.Categories,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, fmt.Errorf("crear producto: %w", err)
	}

	uc.log.Info().Str("product_id", p.ID).Str("title", p.Title).Msg("Producto creado")
	return dto.ToProductResponse(p), nil
}

// GetByID devuelve un producto del catálogo.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToProductResponse(p), nil
}

// List pagina el catálogo aplicando búsqueda, rango de precio, filtros
// de facetas y ordenamiento multi-campo (sortBy/sortOrder separados por coma).
func (uc *ProductUseCase) List(req dto.QueryProductsRequest) (*dto.ProductListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 12
	}

	filter := repository.ProductFilter{
		Search:      strings.TrimSpace(req.Search),
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		Categories:  req.Categories,
		DressStyles: req.DressStyles,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
		Limit:       req.Limit,
		Offset:      (req.Page - 1) * req.Limit,
	}
	filter.SortBy, filter.SortDesc = parseSort(req.SortBy, req.SortOrder)

	products, total, err := uc.repo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}

	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ToProductResponse(p))
	}
	totalPages := total / int64(req.Limit)
	if total%int64(req.Limit) != 0 {
		totalPages++
	}
	return &dto.ProductListResponse{
		Products:   out,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// ListRelated devuelve productos que comparten categoría o estilo con el
// producto dado, excluyéndolo a él mismo.
func (uc *ProductUseCase) ListRelated(id string, limit int) ([]*dto.ProductResponse, error) {
	if limit < 1 || limit > 20 {
		limit = 4
	}
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	related, err := uc.repo.ListRelated(p, limit)
	if err != nil {
		return nil, fmt.Errorf("listar relacionados: %w", err)
	}
	out := make([]*dto.ProductResponse, 0, len(related))
	for _, rp := range related {
		out = append(out, dto.ToProductResponse(rp))
	}
	return out, nil
}

// Update aplica una actualización parcial. Si cambia el precio se
// recalcula PointsPrice; si cambian las variantes se validan de nuevo.
func (uc *ProductUseCase) Update(id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: el título no puede quedar vacío", domain.ErrInvalidInput)
		}
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() || req.Price.IsZero() {
			return nil, fmt.Errorf("%w: el precio debe ser mayor que cero", domain.ErrInvalidInput)
		}
		p.Price = *req.Price
		p.PointsPrice = entity.ComputePointsPrice(*req.Price)
	}
	if req.Variants != nil {
		variants, err := buildVariants(req.Variants)
		if err != nil {
			return nil, err
		}
		p.Variants = variants
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.PurchaseTypes != nil {
		p.PurchaseTypes = req.PurchaseTypes
	}
	if req.DressStyles != nil {
		p.DressStyles = req.DressStyles
	}
	if req.Categories != nil {
		p.Categories = req.Categories
	}
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(p); err != nil {
		return nil, fmt.Errorf("actualizar producto: %w", err)
	}
	return dto.ToProductResponse(p), nil
}

// SetSale configura la ventana de oferta de un producto. Si la ventana ya
// está abierta la oferta se activa de inmediato y se anuncia a todos los
// clientes; si empieza en el futuro queda programada y el scheduler la
// activará al llegar la hora.
func (uc *ProductUseCase) SetSale(id string, req dto.SetSaleRequest) (*dto.ProductResponse, error) {
	if req.DiscountValue == nil {
		return nil, fmt.Errorf("%w: discountValue es requerido", domain.ErrInvalidInput)
	}
	switch req.DiscountType {
	case entity.DiscountPercent:
		if req.DiscountValue.IsNegative() || req.DiscountValue.IsZero() || req.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("%w: el porcentaje debe estar entre 1 y 100", domain.ErrInvalidInput)
		}
	case entity.DiscountFlat:
		if req.DiscountValue.IsNegative() || req.DiscountValue.IsZero() {
			return nil, fmt.Errorf("%w: el descuento debe ser mayor que cero", domain.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: tipo de descuento desconocido %q", domain.ErrInvalidInput, req.DiscountType)
	}
	if req.StartsAt != nil && req.EndsAt != nil && !req.EndsAt.After(*req.StartsAt) {
		return nil, fmt.Errorf("%w: endsAt debe ser posterior a startsAt", domain.ErrInvalidInput)
	}

	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if req.DiscountType == entity.DiscountFlat && req.DiscountValue.GreaterThanOrEqual(p.Price) {
		return nil, fmt.Errorf("%w: el descuento no puede superar el precio", domain.ErrInvalidInput)
	}

	now := time.Now()
	activeNow := req.StartsAt == nil || !req.StartsAt.After(now)
	if req.EndsAt != nil && !req.EndsAt.After(now) {
		return nil, fmt.Errorf("%w: la ventana de oferta ya expiró", domain.ErrInvalidInput)
	}

	p.Sale = entity.Sale{
		IsOnSale:      activeNow,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
	}
	p.UpdatedAt = now
	if err := uc.repo.Update(p); err != nil {
		return nil, fmt.Errorf("guardar oferta: %w", err)
	}

	if activeNow {
		uc.announceSale(p)
	} else {
		uc.log.Info().
			Str("product_id", p.ID).
			Time("starts_at", *req.StartsAt).
			Msg("Oferta programada")
	}
	return dto.ToProductResponse(p), nil
}

// RemoveSale apaga la oferta de un producto de forma manual.
func (uc *ProductUseCase) RemoveSale(id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.Sale = entity.Sale{}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(p); err != nil {
		return nil, fmt.Errorf("quitar oferta: %w", err)
	}
	uc.log.Info().Str("product_id", p.ID).Msg("Oferta removida")
	return dto.ToProductResponse(p), nil
}

// Delete elimina un producto del catálogo.
func (uc *ProductUseCase) Delete(id string) error {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(id); err != nil {
		return fmt.Errorf("borrar producto: %w", err)
	}
	uc.log.Info().Str("product_id", id).Msg("Producto eliminado")
	return nil
}

func (uc *ProductUseCase) announceSale(p *entity.Product) {
	msg := fmt.Sprintf("%s está en oferta. ¡Aprovecha antes de que termine!", p.Title)
	if _, err := uc.notifier.NotifyAll("¡Nueva oferta!", msg, &p.ID); err != nil {
		uc.log.Warn().Err(err).Str("product_id", p.ID).Msg("No se pudo anunciar la oferta")
	}
	uc.notifier.Broadcast(EventSaleStarted, SaleEvent{ProductID: p.ID, Ts: time.Now()})
}

// announceSaleEnded emite el evento de cierre de oferta. A diferencia del
// inicio, el cierre no persiste un aviso, solo avisa a los clientes conectados.
func (uc *ProductUseCase) announceSaleEnded(p *entity.Product) {
	uc.notifier.Broadcast(EventSaleEnded, SaleEvent{ProductID: p.ID, Ts: time.Now()})
}

// buildVariants valida y normaliza las variantes de la petición.
func buildVariants(reqs []dto.VariantRequest) ([]entity.Variant, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos una variante", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(reqs))
	variants := make([]entity.Variant, 0, len(reqs))
	for _, v := range reqs {
		if v.Size == "" || v.Color == "" {
			return nil, fmt.Errorf("%w: la variante requiere talla y color", domain.ErrInvalidInput)
		}
		if v.Stock < 0 {
			return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
		}
		key := v.Size + "|" + v.Color
		if seen[key] {
			return nil, fmt.Errorf("%w: variante duplicada %s/%s", domain.ErrInvalidInput, v.Size, v.Color)
		}
		seen[key] = true
		variants = append(variants, entity.Variant{Size: v.Size, Color: v.Color, Stock: v.Stock})
	}
	return variants, nil
}

// parseSort traduce los parámetros sortBy/sortOrder (listas separadas por
// coma) a los campos del filtro del repositorio. Campos desconocidos se ignoran.
func parseSort(sortBy, sortOrder string) (fields []string, desc []bool) {
	if sortBy == "" {
		return nil, nil
	}
	allowed := map[string]string{
		"price":         "price",
		"createdAt":     "created_at",
		"averageRating": "average_rating",
		"title":         "title",
	}
	names := strings.Split(sortBy, ",")
	orders := strings.Split(sortOrder, ",")
	for i, name := range names {
		col, ok := allowed[strings.TrimSpace(name)]
		if !ok {
			continue
		}
		d := false
		if i < len(orders) && strings.EqualFold(strings.TrimSpace(orders[i]), "desc") {
			d = true
		}
		fields = append(fields, col)
		desc = append(desc, d)
	}
	return fields, desc
}
