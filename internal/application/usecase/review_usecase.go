package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
	"github.com/LaibaHameed12/ecom-backend/pkg/logger"
)

// ReviewUseCase reseñas verificadas: solo compradores con una orden
// entregada que contenga el producto pueden reseñar, una vez por orden.
type ReviewUseCase struct {
	repo      repository.ReviewRepository
	orderRepo repository.OrderRepository
	prodRepo  repository.ProductRepository
	log       *logger.Logger
}

// NewReviewUseCase construye el caso de uso de reseñas.
func NewReviewUseCase(repo repository.ReviewRepository, orderRepo repository.OrderRepository, prodRepo repository.ProductRepository, log *logger.Logger) *ReviewUseCase {
	return &ReviewUseCase{repo: repo, orderRepo: orderRepo, prodRepo: prodRepo, log: log}
}

// Create valida la elegibilidad y da de alta la reseña. Tras insertar
// recalcula el promedio y el conteo del producto.
//
// Elegibilidad: la orden existe, pertenece al usuario, está entregada y
// contiene el producto. El índice único (user, product, order) respalda
// la verificación previa ante inserciones concurrentes.
func (uc *ReviewUseCase) Create(userID, productID string, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: el rating debe estar entre 1 y 5", domain.ErrInvalidInput)
	}
	if req.OrderID == "" {
		return nil, fmt.Errorf("%w: orderId es requerido", domain.ErrInvalidInput)
	}

	product, err := uc.prodRepo.GetByID(productID)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	order, err := uc.orderRepo.GetByID(req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("obtener orden: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: la orden no existe", domain.ErrNotFound)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: la orden no te pertenece", domain.ErrForbidden)
	}
	if order.Status != entity.OrderDelivered {
		return nil, fmt.Errorf("%w: solo se reseñan órdenes entregadas", domain.ErrForbidden)
	}
	if !orderContainsProduct(order, productID) {
		return nil, fmt.Errorf("%w: la orden no incluye este producto", domain.ErrForbidden)
	}

	already, err := uc.repo.Exists(userID, productID, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("verificar duplicado: %w", err)
	}
	if already {
		return nil, domain.ErrDuplicateReview
	}

	r := &entity.Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		OrderID:   req.OrderID,
		UserID:    userID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(r); err != nil {
		// el índice único atrapa la carrera que el Exists previo no vio
		return nil, err
	}

	uc.refreshRating(productID)

	uc.log.Info().
		Str("product_id", productID).
		Str("order_id", req.OrderID).
		Int("rating", req.Rating).
		Msg("Reseña creada")

	return dto.ToReviewResponse(r), nil
}

// ListByProduct devuelve las reseñas de un producto, más recientes primero.
func (uc *ReviewUseCase) ListByProduct(productID string) ([]*dto.ReviewResponse, error) {
	list, err := uc.repo.ListByProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("listar reseñas: %w", err)
	}
	return toReviewResponses(list), nil
}

// ListRecent devuelve las últimas reseñas del sitio (para la portada).
func (uc *ReviewUseCase) ListRecent(limit int) ([]*dto.ReviewResponse, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	list, err := uc.repo.ListRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("listar reseñas recientes: %w", err)
	}
	return toReviewResponses(list), nil
}

// CanReview informa si el usuario puede reseñar el producto: órdenes
// entregadas que lo contienen y que aún no tienen reseña suya.
func (uc *ReviewUseCase) CanReview(userID, productID string) (*dto.CanReviewResponse, error) {
	delivered, err := uc.orderRepo.ListDeliveredByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("listar órdenes entregadas: %w", err)
	}

	var withProduct []string
	for _, o := range delivered {
		if orderContainsProduct(o, productID) {
			withProduct = append(withProduct, o.ID)
		}
	}
	if len(withProduct) == 0 {
		return &dto.CanReviewResponse{CanReview: false, PendingOrders: []string{}, HasPurchased: false}, nil
	}

	reviewed, err := uc.repo.ReviewedOrderIDs(userID, productID)
	if err != nil {
		return nil, fmt.Errorf("obtener órdenes reseñadas: %w", err)
	}
	reviewedSet := make(map[string]bool, len(reviewed))
	for _, id := range reviewed {
		reviewedSet[id] = true
	}

	pending := []string{}
	for _, id := range withProduct {
		if !reviewedSet[id] {
			pending = append(pending, id)
		}
	}
	return &dto.CanReviewResponse{
		CanReview:     len(pending) > 0,
		PendingOrders: pending,
		HasPurchased:  true,
	}, nil
}

// refreshRating recalcula el agregado del producto. Un fallo aquí no
// revierte la reseña ya persistida, solo se registra.
func (uc *ReviewUseCase) refreshRating(productID string) {
	avg, count, err := uc.repo.Aggregate(productID)
	if err != nil {
		uc.log.Error().Err(err).Str("product_id", productID).Msg("No se pudo agregar el rating")
		return
	}
	if err := uc.prodRepo.UpdateRating(productID, avg, count); err != nil {
		uc.log.Error().Err(err).Str("product_id", productID).Msg("No se pudo actualizar el rating")
	}
}

func orderContainsProduct(o *entity.Order, productID string) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func toReviewResponses(list []*entity.Review) []*dto.ReviewResponse {
	out := make([]*dto.ReviewResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ToReviewResponse(r))
	}
	return out
}
