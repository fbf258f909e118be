package order

import (
	"context"
	"fmt"

	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
)

// ReceiptPDFGenerator puerto del generador del comprobante en PDF.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, o *entity.Order, owner *entity.User, productTitles map[string]string) ([]byte, error)
}

// ReceiptUseCase genera el comprobante PDF de una orden.
type ReceiptUseCase struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	generator   ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando sus dependencias.
func NewReceiptUseCase(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		generator:   generator,
	}
}

// DownloadReceipt recupera la orden, verifica que el solicitante sea su
// dueño o administrador y genera el PDF del comprobante.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la orden no existe.
//   - domain.ErrForbidden        si la orden no pertenece al solicitante.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, requesterID string, isAdmin bool, orderID string) (pdfBytes []byte, filename string, err error) {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener orden: %w", err)
	}
	if o == nil {
		return nil, "", domain.ErrNotFound
	}
	if !isAdmin && o.UserID != requesterID {
		return nil, "", domain.ErrForbidden
	}

	owner, err := uc.userRepo.GetByID(o.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener usuario: %w", err)
	}
	if owner == nil {
		return nil, "", domain.ErrUserNotFound
	}

	titles := make(map[string]string, len(o.Items))
	for _, it := range o.Items {
		name := "Producto " + it.ProductID // fallback
		if product, pErr := uc.productRepo.GetByID(it.ProductID); pErr == nil && product != nil {
			name = product.Title
		}
		titles[it.ProductID] = name
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, o, owner, titles)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("orden_%s.pdf", o.ID)
	return pdfBytes, filename, nil
}
