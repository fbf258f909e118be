package usecase_test

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
	"github.com/LaibaHameed12/ecom-backend/pkg/logger"
)

// Fakes en memoria compartidos por los tests del paquete.

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
	// lastFilter captura el filtro recibido por List para afirmar sobre él.
	lastFilter repository.ProductFilter
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*entity.Product{}}
}

func (f *fakeProductRepo) Create(p *entity.Product) error {
	for _, ex := range f.products {
		if ex.Title == p.Title {
			return domain.ErrConflict
		}
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error)      { return f.products[id], nil }
func (f *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return f.products[id], nil }
func (f *fakeProductRepo) Update(p *entity.Product) error                  { f.products[p.ID] = p; return nil }

func (f *fakeProductRepo) UpdateRating(productID string, average float64, count int64) error {
	if p, ok := f.products[productID]; ok {
		p.AverageRating = average
		p.RatingCount = count
	}
	return nil
}

func (f *fakeProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, int64, error) {
	f.lastFilter = filter
	out := make([]*entity.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) ListRelated(p *entity.Product, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, other := range f.products {
		if other.ID != p.ID {
			out = append(out, other)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Delete(id string) error { delete(f.products, id); return nil }

func (f *fakeProductRepo) StartDueSales(now time.Time) ([]*entity.Product, error) {
	var started []*entity.Product
	for _, p := range f.products {
		s := p.Sale
		if !s.IsOnSale && s.DiscountValue != nil &&
			s.StartsAt != nil && !s.StartsAt.After(now) &&
			(s.EndsAt == nil || s.EndsAt.After(now)) {
			p.Sale.IsOnSale = true
			started = append(started, p)
		}
	}
	return started, nil
}

func (f *fakeProductRepo) EndExpiredSales(now time.Time) ([]*entity.Product, error) {
	var ended []*entity.Product
	for _, p := range f.products {
		if p.Sale.IsOnSale && p.Sale.EndsAt != nil && !p.Sale.EndsAt.After(now) {
			p.Sale = entity.Sale{}
			ended = append(ended, p)
		}
	}
	return ended, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes
// ──────────────────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	orders map[string]*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*entity.Order{}}
}

func (f *fakeOrderRepo) Create(o *entity.Order) error              { f.orders[o.ID] = o; return nil }
func (f *fakeOrderRepo) GetByID(id string) (*entity.Order, error)  { return f.orders[id], nil }
func (f *fakeOrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return f.orders[id], nil
}
func (f *fakeOrderRepo) Update(o *entity.Order) error { f.orders[o.ID] = o; return nil }
func (f *fakeOrderRepo) ListByUser(userID string, limit, offset int) ([]*entity.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) ListAll(limit, offset int) ([]*entity.Order, error) { return nil, nil }
func (f *fakeOrderRepo) ListDeliveredByUser(userID string) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range f.orders {
		if o.UserID == userID && o.Status == entity.OrderDelivered {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (f *fakeOrderRepo) Delete(id string) error { delete(f.orders, id); return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Reseñas
// ──────────────────────────────────────────────────────────────────────────────

type fakeReviewRepo struct {
	reviews []*entity.Review
}

func (f *fakeReviewRepo) key(userID, productID, orderID string) string {
	return userID + "|" + productID + "|" + orderID
}

func (f *fakeReviewRepo) Create(r *entity.Review) error {
	for _, ex := range f.reviews {
		if f.key(ex.UserID, ex.ProductID, ex.OrderID) == f.key(r.UserID, r.ProductID, r.OrderID) {
			return domain.ErrDuplicateReview
		}
	}
	f.reviews = append(f.reviews, r)
	return nil
}

func (f *fakeReviewRepo) Exists(userID, productID, orderID string) (bool, error) {
	for _, r := range f.reviews {
		if r.UserID == userID && r.ProductID == productID && r.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewRepo) ListByProduct(productID string) ([]*entity.Review, error) {
	var out []*entity.Review
	for _, r := range f.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) ListRecent(limit int) ([]*entity.Review, error) {
	if len(f.reviews) > limit {
		return f.reviews[len(f.reviews)-limit:], nil
	}
	return f.reviews, nil
}

func (f *fakeReviewRepo) ReviewedOrderIDs(userID, productID string) ([]string, error) {
	var out []string
	for _, r := range f.reviews {
		if r.UserID == userID && r.ProductID == productID {
			out = append(out, r.OrderID)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) Aggregate(productID string) (float64, int64, error) {
	var sum, count int64
	for _, r := range f.reviews {
		if r.ProductID == productID {
			sum += int64(r.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Notificaciones y canal en tiempo real
// ──────────────────────────────────────────────────────────────────────────────

type fakeNotificationRepo struct {
	saved []*entity.Notification
}

func (f *fakeNotificationRepo) Create(n *entity.Notification) error {
	f.saved = append(f.saved, n)
	return nil
}
func (f *fakeNotificationRepo) GetByID(id string) (*entity.Notification, error) {
	for _, n := range f.saved {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}
func (f *fakeNotificationRepo) ListByUser(userID string) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range f.saved {
		if n.UserID == nil || *n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}
func (f *fakeNotificationRepo) MarkRead(id string) (*entity.Notification, error) {
	for _, n := range f.saved {
		if n.ID == id {
			n.Read = true
			return n, nil
		}
	}
	return nil, nil
}
func (f *fakeNotificationRepo) Delete(id string) error {
	for i, n := range f.saved {
		if n.ID == id {
			f.saved = append(f.saved[:i], f.saved[i+1:]...)
			return nil
		}
	}
	return nil
}

type published struct {
	topic   string
	event   string
	payload any
}

type fakePublisher struct {
	events []published
}

func (f *fakePublisher) Publish(topic, event string, payload any) error {
	f.events = append(f.events, published{topic: topic, event: event, payload: payload})
	return nil
}

// ofType filtra lo publicado por nombre de evento.
func (f *fakePublisher) ofType(event string) []published {
	var out []published
	for _, e := range f.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Subida de imágenes
// ──────────────────────────────────────────────────────────────────────────────

type fakeUploader struct {
	uploaded []string
}

func (f *fakeUploader) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	f.uploaded = append(f.uploaded, filename)
	return "https://cdn.test/" + filename, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Seeds
// ──────────────────────────────────────────────────────────────────────────────

func seedProduct(repo *fakeProductRepo, id string, price int64) *entity.Product {
	p := &entity.Product{
		ID:    id,
		Title: "Producto " + id,
		Price: decimal.NewFromInt(price),
		Variants: []entity.Variant{
			{Size: "M", Color: "negro", Stock: 10},
		},
		PurchaseTypes: []string{entity.PaymentMoney},
		Categories:    []string{"camisas"},
	}
	repo.products[id] = p
	return p
}

func seedDeliveredOrder(repo *fakeOrderRepo, id, userID, productID string) *entity.Order {
	o := &entity.Order{
		ID:     id,
		UserID: userID,
		Items: []entity.OrderItem{{
			ProductID: productID, Size: "M", Color: "negro", Quantity: 1,
			Price: decimal.NewFromInt(1000),
		}},
		TotalAmount:   decimal.NewFromInt(1000),
		Status:        entity.OrderDelivered,
		PaymentMethod: entity.PaymentMoney,
	}
	repo.orders[id] = o
	return o
}
