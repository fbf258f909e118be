package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/application/order"
	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
	"github.com/LaibaHameed12/ecom-backend/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (f *fakeUserRepo) Create(u *entity.User) error { f.users[u.ID] = u; return nil }
func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	return f.users[id], nil
}
func (f *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUserRepo) GetForUpdate(id string) (*entity.User, error) { return f.users[id], nil }
func (f *fakeUserRepo) Update(u *entity.User) error                  { f.users[u.ID] = u; return nil }
func (f *fakeUserRepo) List(limit, offset int) ([]*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Delete(id string) error { delete(f.users, id); return nil }

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) Create(p *entity.Product) error { f.products[p.ID] = p; return nil }
func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.products[id], nil
}
func (f *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return f.products[id], nil
}
func (f *fakeProductRepo) Update(p *entity.Product) error { f.products[p.ID] = p; return nil }
func (f *fakeProductRepo) UpdateRating(productID string, average float64, count int64) error {
	if p, ok := f.products[productID]; ok {
		p.AverageRating = average
		p.RatingCount = count
	}
	return nil
}
func (f *fakeProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, int64, error) {
	return nil, 0, nil
}
func (f *fakeProductRepo) ListRelated(p *entity.Product, limit int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Delete(id string) error { delete(f.products, id); return nil }
func (f *fakeProductRepo) StartDueSales(now time.Time) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) EndExpiredSales(now time.Time) ([]*entity.Product, error) {
	return nil, nil
}

type fakeOrderRepo struct {
	orders map[string]*entity.Order
}

func (f *fakeOrderRepo) Create(o *entity.Order) error { f.orders[o.ID] = o; return nil }
func (f *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	return f.orders[id], nil
}
func (f *fakeOrderRepo) GetForUpdate(id string) (*entity.Order, error) { return f.orders[id], nil }
func (f *fakeOrderRepo) Update(o *entity.Order) error                  { f.orders[o.ID] = o; return nil }
func (f *fakeOrderRepo) ListByUser(userID string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}
func (f *fakeOrderRepo) ListAll(limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}
func (f *fakeOrderRepo) ListDeliveredByUser(userID string) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range f.orders {
		if o.UserID == userID && o.Status == entity.OrderDelivered {
			out = append(out, o)
		}
	}
	return out, nil
}
func (f *fakeOrderRepo) Delete(id string) error { delete(f.orders, id); return nil }

// fakeTx pasa los mismos fakes a la función; no hay rollback real, los
// tests solo afirman sobre el error retornado en los caminos de fallo.
type fakeTx struct {
	orders   *fakeOrderRepo
	users    *fakeUserRepo
	products *fakeProductRepo
}

func (f *fakeTx) Run(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(f.orders, f.users, f.products)
}

type notified struct {
	userID, title, ntype string
}

type fakeNotifier struct {
	sent []notified
}

func (f *fakeNotifier) NotifyUser(userID, title, message, ntype string, relatedID *string) (*dto.NotificationResponse, error) {
	f.sent = append(f.sent, notified{userID: userID, title: title, ntype: ntype})
	return &dto.NotificationResponse{}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc       *order.UseCase
	users    *fakeUserRepo
	products *fakeProductRepo
	orders   *fakeOrderRepo
	notifier *fakeNotifier
}

func newFixture() *fixture {
	users := &fakeUserRepo{users: map[string]*entity.User{}}
	products := &fakeProductRepo{products: map[string]*entity.Product{}}
	orders := &fakeOrderRepo{orders: map[string]*entity.Order{}}
	notifier := &fakeNotifier{}
	tx := &fakeTx{orders: orders, users: users, products: products}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return &fixture{
		uc:       order.NewUseCase(tx, orders, users, notifier, log),
		users:    users,
		products: products,
		orders:   orders,
		notifier: notifier,
	}
}

func (f *fixture) seedUser(id string, points int64, roles ...string) *entity.User {
	if len(roles) == 0 {
		roles = []string{entity.RoleUser}
	}
	u := &entity.User{
		ID:            id,
		FullName:      "Cliente de Prueba",
		Email:         id + "@test.local",
		Roles:         roles,
		LoyaltyPoints: points,
		IsActive:      true,
		IsVerified:    true,
	}
	f.users.users[id] = u
	return u
}

func (f *fixture) seedProduct(id string, price int64, stock int64) *entity.Product {
	p := &entity.Product{
		ID:    id,
		Title: "Producto " + id,
		Price: decimal.NewFromInt(price),
		Variants: []entity.Variant{
			{Size: "M", Color: "negro", Stock: stock},
		},
		PurchaseTypes: []string{entity.PaymentMoney, entity.PaymentPoints},
	}
	f.products.products[id] = p
	return p
}

func pointsOrderReq(productID string, qty, price int64) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{
			ProductID: productID,
			Size:      "M",
			Color:     "negro",
			Quantity:  qty,
			Price:     decimal.NewFromInt(price),
		}},
		PaymentMethod:   entity.PaymentPoints,
		ShippingAddress: "Calle 123",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create — pago con puntos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_PagoConPuntos_DebitaYDescuentaStock(t *testing.T) {
	f := newFixture()
	f.seedUser("u1", 10)
	f.seedProduct("p1", 1000, 5)

	// total = 1000 → requiere ceil(1000/250) = 4 puntos
	resp, err := f.uc.Create(context.Background(), "u1", pointsOrderReq("p1", 1, 1000))
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, entity.OrderPaid, resp.Status, "la orden de puntos nace pagada")
	assert.Equal(t, int64(4), resp.TotalPointsUsed)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(1000)),
		"el total se recalcula en el servidor")
	require.Len(t, resp.StatusHistory, 1, "una sola entrada de historial al crear")
	assert.Equal(t, entity.OrderPaid, resp.StatusHistory[0].Status)

	assert.Equal(t, int64(6), f.users.users["u1"].LoyaltyPoints,
		"deben debitarse 4 puntos del saldo")
	assert.Equal(t, int64(4), f.products.products["p1"].Variants[0].Stock,
		"debe descontarse el stock de la variante")
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, entity.NotificationLoyalty, f.notifier.sent[0].ntype)
}

func TestCreate_TotalRedondeaHaciaArriba(t *testing.T) {
	f := newFixture()
	f.seedUser("u1", 100)
	f.seedProduct("p1", 251, 5)

	// total = 251 → ceil(251/250) = 2 puntos, no 1
	resp, err := f.uc.Create(context.Background(), "u1", pointsOrderReq("p1", 1, 251))
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalPointsUsed)
	assert.Equal(t, int64(98), f.users.users["u1"].LoyaltyPoints)
}

func TestCreate_PuntosInsuficientes(t *testing.T) {
	f := newFixture()
	f.seedUser("u1", 3) // necesita 4
	f.seedProduct("p1", 1000, 5)

	_, err := f.uc.Create(context.Background(), "u1", pointsOrderReq("p1", 1, 1000))
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
	assert.Empty(t, f.orders.orders, "no debe crearse ninguna orden")
	assert.Empty(t, f.notifier.sent, "no debe notificarse nada")
}

func TestCreate_StockInsuficiente(t *testing.T) {
	f := newFixture()
	f.seedUser("u1", 100)
	f.seedProduct("p1", 1000, 1)

	_, err := f.uc.Create(context.Background(), "u1", pointsOrderReq("p1", 3, 1000))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, f.orders.orders)
}

func TestCreate_VarianteInexistente(t *testing.T) {
	f := newFixture()
	f.seedUser("u1", 100)
	f.seedProduct("p1", 1000, 5)

	req := pointsOrderReq("p1", 1, 1000)
	req.Items[0].Size = "XXL" // no existe esa variante
	_, err := f.uc.Create(context.Background(), "u1", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_StaffNoPuedeComprar(t *testing.T) {
	f := newFixture()
	f.seedUser("admin1", 100, entity.RoleUser, entity.RoleAdmin)
	f.seedProduct("p1", 1000, 5)

	_, err := f.uc.Create(context.Background(), "admin1", pointsOrderReq("p1", 1, 1000))
	assert.ErrorIs(t, err, domain.ErrForbidden,
		"usuarios con rol administrativo no pueden crear órdenes")
}

func TestCreate_MetodoMoneyRechazado(t *testing.T) {
	f := newFixture()
	f.seedUser("u1", 100)
	f.seedProduct("p1", 1000, 5)

	req := pointsOrderReq("p1", 1, 1000)
	req.PaymentMethod = entity.PaymentMoney
	_, err := f.uc.Create(context.Background(), "u1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"el pago con tarjeta debe ir por la sesión de checkout")
}

func TestCreate_SinItems(t *testing.T) {
	f := newFixture()
	f.seedUser("u1", 100)

	_, err := f.uc.Create(context.Background(), "u1", dto.CreateOrderRequest{
		PaymentMethod: entity.PaymentPoints,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_UsuarioInexistente(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", 1000, 5)

	_, err := f.uc.Create(context.Background(), "fantasma", pointsOrderReq("p1", 1, 1000))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus — transiciones y puntos de fidelidad
// ──────────────────────────────────────────────────────────────────────────────

func seedMoneyOrder(f *fixture, id, userID string, total int64, status string) *entity.Order {
	o := &entity.Order{
		ID:     id,
		UserID: userID,
		Items: []entity.OrderItem{{
			ProductID: "p1", Size: "M", Color: "negro", Quantity: 1,
			Price: decimal.NewFromInt(total),
		}},
		TotalAmount:   decimal.NewFromInt(total),
		Status:        status,
		StatusHistory: []entity.StatusChange{{Status: status, ChangedAt: time.Now()}},
		PaymentMethod: entity.PaymentMoney,
	}
	f.orders.orders[id] = o
	return o
}

func TestUpdateStatus_DeliveredAcreditaPuntos(t *testing.T) {
	f := newFixture()
	f.seedUser("u1", 10)
	seedMoneyOrder(f, "o1", "u1", 1200, entity.OrderShipped)

	// total = 1200 → gana floor(1200/500) = 2 puntos
	resp, err := f.uc.UpdateStatus(context.Background(), "o1", entity.OrderDelivered)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderDelivered, resp.Status)
	require.NotNil(t, resp.DeliveredAt, "delivered debe marcar la fecha de entrega")
	assert.Len(t, resp.StatusHistory, 2, "el historial crece con la transición")
	assert.Equal(t, int64(12), f.users.users["u1"].LoyaltyPoints,
		"deben acreditarse 2 puntos al dueño")

	// Dos avisos: cambio de estado + crédito de puntos.
	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, entity.NotificationOrder, f.notifier.sent[0].ntype)
	assert.Equal(t, entity.NotificationLoyalty, f.notifier.sent[1].ntype)
}

func TestUpdateStatus_Delivered_TotalMenorAlDivisor_NoAcredita(t *testing.T) {
	f := newFixture()
	f.seedUser("u1", 10)
	seedMoneyOrder(f, "o1", "u1", 499, entity.OrderShipped)

	_, err := f.uc.UpdateStatus(context.Background(), "o1", entity.OrderDelivered)
	require.NoError(t, err)

	assert.Equal(t, int64(10), f.users.users["u1"].LoyaltyPoints,
		"floor(499/500) = 0 puntos")
	assert.Len(t, f.notifier.sent, 1, "solo el aviso de cambio de estado")
}

func TestUpdateStatus_Delivered_OrdenDePuntos_NoAcredita(t *testing.T) {
	f := newFixture()
	f.seedUser("u1", 10)
	o := seedMoneyOrder(f, "o1", "u1", 2000, entity.OrderShipped)
	o.PaymentMethod = entity.PaymentPoints
	o.TotalPointsUsed = 8

	_, err := f.uc.UpdateStatus(context.Background(), "o1", entity.OrderDelivered)
	require.NoError(t, err)

	assert.Equal(t, int64(10), f.users.users["u1"].LoyaltyPoints,
		"las órdenes pagadas con puntos no acumulan puntos")
}

func TestUpdateStatus_OrdenTerminal_Rechaza(t *testing.T) {
	f := newFixture()
	f.seedUser("u1", 10)
	seedMoneyOrder(f, "o1", "u1", 1000, entity.OrderDelivered)
	seedMoneyOrder(f, "o2", "u1", 1000, entity.OrderCancelled)

	_, err := f.uc.UpdateStatus(context.Background(), "o1", entity.OrderShipped)
	assert.ErrorIs(t, err, domain.ErrTerminalStatus,
		"delivered es terminal")

	_, err = f.uc.UpdateStatus(context.Background(), "o2", entity.OrderPaid)
	assert.ErrorIs(t, err, domain.ErrTerminalStatus,
		"cancelled es terminal")
}

func TestUpdateStatus_MismoEstado_NoDuplicaHistorialNiAvisa(t *testing.T) {
	f := newFixture()
	f.seedUser("u1", 10)
	seedMoneyOrder(f, "o1", "u1", 1000, entity.OrderPaid)

	resp, err := f.uc.UpdateStatus(context.Background(), "o1", entity.OrderPaid)
	require.NoError(t, err)
	assert.Len(t, resp.StatusHistory, 1,
		"el historial solo crece cuando el estado cambia")
	assert.Empty(t, f.notifier.sent,
		"sin transición no se notifica al dueño")
}

func TestUpdateStatus_EstadoDesconocido(t *testing.T) {
	f := newFixture()
	_, err := f.uc.UpdateStatus(context.Background(), "o1", "volando")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStatus_OrdenInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.uc.UpdateStatus(context.Background(), "nope", entity.OrderShipped)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetByID / List / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_SoloDuenoOAdmin(t *testing.T) {
	f := newFixture()
	seedMoneyOrder(f, "o1", "u1", 1000, entity.OrderPaid)

	resp, err := f.uc.GetByID("u1", false, "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", resp.ID)

	_, err = f.uc.GetByID("u2", false, "o1")
	assert.ErrorIs(t, err, domain.ErrForbidden,
		"otro usuario no puede leer la orden")

	_, err = f.uc.GetByID("u2", true, "o1")
	assert.NoError(t, err, "un admin sí puede leer cualquier orden")
}

func TestList_AdminVeTodas(t *testing.T) {
	f := newFixture()
	seedMoneyOrder(f, "o1", "u1", 1000, entity.OrderPaid)
	seedMoneyOrder(f, "o2", "u2", 2000, entity.OrderPaid)

	mine, err := f.uc.List("u1", false, 20, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.uc.List("u1", true, 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDelete_OrdenInexistente(t *testing.T) {
	f := newFixture()
	err := f.uc.Delete("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
