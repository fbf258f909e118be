package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/application/usecase"
	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
)

type reviewFixture struct {
	uc       *usecase.ReviewUseCase
	reviews  *fakeReviewRepo
	orders   *fakeOrderRepo
	products *fakeProductRepo
}

func newReviewFixture() *reviewFixture {
	reviews := &fakeReviewRepo{}
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	return &reviewFixture{
		uc:       usecase.NewReviewUseCase(reviews, orders, products, testLogger()),
		reviews:  reviews,
		orders:   orders,
		products: products,
	}
}

func reviewReq(orderID string, rating int) dto.CreateReviewRequest {
	return dto.CreateReviewRequest{
		OrderID: orderID,
		Rating:  rating,
		Title:   "Muy buena",
		Comment: "La talla es exacta.",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestReviewCreate_CompradorVerificado(t *testing.T) {
	f := newReviewFixture()
	seedProduct(f.products, "p1", 1000)
	seedDeliveredOrder(f.orders, "o1", "u1", "p1")

	resp, err := f.uc.Create("u1", "p1", reviewReq("o1", 5))
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Rating)
	assert.Equal(t, "p1", resp.ProductID)

	// El agregado del producto se refresca tras insertar.
	assert.Equal(t, float64(5), f.products.products["p1"].AverageRating)
	assert.Equal(t, int64(1), f.products.products["p1"].RatingCount)
}

func TestReviewCreate_PromedioConVariasResenas(t *testing.T) {
	f := newReviewFixture()
	seedProduct(f.products, "p1", 1000)
	seedDeliveredOrder(f.orders, "o1", "u1", "p1")
	seedDeliveredOrder(f.orders, "o2", "u2", "p1")

	_, err := f.uc.Create("u1", "p1", reviewReq("o1", 5))
	require.NoError(t, err)
	_, err = f.uc.Create("u2", "p1", reviewReq("o2", 2))
	require.NoError(t, err)

	assert.InDelta(t, 3.5, f.products.products["p1"].AverageRating, 0.001)
	assert.Equal(t, int64(2), f.products.products["p1"].RatingCount)
}

func TestReviewCreate_RatingFueraDeRango(t *testing.T) {
	f := newReviewFixture()
	_, err := f.uc.Create("u1", "p1", reviewReq("o1", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create("u1", "p1", reviewReq("o1", 6))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReviewCreate_OrdenAjena(t *testing.T) {
	f := newReviewFixture()
	seedProduct(f.products, "p1", 1000)
	seedDeliveredOrder(f.orders, "o1", "u1", "p1")

	_, err := f.uc.Create("u2", "p1", reviewReq("o1", 4))
	assert.ErrorIs(t, err, domain.ErrForbidden,
		"no se puede reseñar con la orden de otro usuario")
}

func TestReviewCreate_OrdenNoEntregada(t *testing.T) {
	f := newReviewFixture()
	seedProduct(f.products, "p1", 1000)
	o := seedDeliveredOrder(f.orders, "o1", "u1", "p1")
	o.Status = entity.OrderShipped

	_, err := f.uc.Create("u1", "p1", reviewReq("o1", 4))
	assert.ErrorIs(t, err, domain.ErrForbidden,
		"solo se reseñan órdenes entregadas")
}

func TestReviewCreate_OrdenSinElProducto(t *testing.T) {
	f := newReviewFixture()
	seedProduct(f.products, "p1", 1000)
	seedProduct(f.products, "p2", 2000)
	seedDeliveredOrder(f.orders, "o1", "u1", "p2") // la orden trae p2, no p1

	_, err := f.uc.Create("u1", "p1", reviewReq("o1", 4))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReviewCreate_Duplicada(t *testing.T) {
	f := newReviewFixture()
	seedProduct(f.products, "p1", 1000)
	seedDeliveredOrder(f.orders, "o1", "u1", "p1")

	_, err := f.uc.Create("u1", "p1", reviewReq("o1", 5))
	require.NoError(t, err)

	_, err = f.uc.Create("u1", "p1", reviewReq("o1", 3))
	assert.ErrorIs(t, err, domain.ErrDuplicateReview,
		"una reseña por usuario, producto y orden")
}

func TestReviewCreate_ProductoInexistente(t *testing.T) {
	f := newReviewFixture()
	_, err := f.uc.Create("u1", "nope", reviewReq("o1", 4))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// CanReview
// ──────────────────────────────────────────────────────────────────────────────

func TestCanReview_SinCompra(t *testing.T) {
	f := newReviewFixture()
	resp, err := f.uc.CanReview("u1", "p1")
	require.NoError(t, err)
	assert.False(t, resp.CanReview)
	assert.False(t, resp.HasPurchased)
	assert.Empty(t, resp.PendingOrders)
}

func TestCanReview_ConOrdenPendiente(t *testing.T) {
	f := newReviewFixture()
	seedProduct(f.products, "p1", 1000)
	seedDeliveredOrder(f.orders, "o1", "u1", "p1")

	resp, err := f.uc.CanReview("u1", "p1")
	require.NoError(t, err)
	assert.True(t, resp.CanReview)
	assert.True(t, resp.HasPurchased)
	assert.Equal(t, []string{"o1"}, resp.PendingOrders)
}

func TestCanReview_TodasLasOrdenesYaResenadas(t *testing.T) {
	f := newReviewFixture()
	seedProduct(f.products, "p1", 1000)
	seedDeliveredOrder(f.orders, "o1", "u1", "p1")

	_, err := f.uc.Create("u1", "p1", reviewReq("o1", 5))
	require.NoError(t, err)

	resp, err := f.uc.CanReview("u1", "p1")
	require.NoError(t, err)
	assert.False(t, resp.CanReview, "ya reseñó su única orden entregada")
	assert.True(t, resp.HasPurchased, "pero sí compró el producto")
	assert.Empty(t, resp.PendingOrders)
}

func TestCanReview_SegundaCompraHabilitaOtraResena(t *testing.T) {
	f := newReviewFixture()
	seedProduct(f.products, "p1", 1000)
	seedDeliveredOrder(f.orders, "o1", "u1", "p1")
	seedDeliveredOrder(f.orders, "o2", "u1", "p1")

	_, err := f.uc.Create("u1", "p1", reviewReq("o1", 5))
	require.NoError(t, err)

	resp, err := f.uc.CanReview("u1", "p1")
	require.NoError(t, err)
	assert.True(t, resp.CanReview)
	assert.Equal(t, []string{"o2"}, resp.PendingOrders,
		"queda pendiente la segunda orden entregada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados
// ──────────────────────────────────────────────────────────────────────────────

func TestListRecent_LimiteFueraDeRangoUsaDefault(t *testing.T) {
	f := newReviewFixture()
	_, err := f.uc.ListRecent(0)
	assert.NoError(t, err)
	_, err = f.uc.ListRecent(500)
	assert.NoError(t, err)
}

func TestListByProduct_SoloDelProducto(t *testing.T) {
	f := newReviewFixture()
	seedProduct(f.products, "p1", 1000)
	seedProduct(f.products, "p2", 2000)
	seedDeliveredOrder(f.orders, "o1", "u1", "p1")
	seedDeliveredOrder(f.orders, "o2", "u1", "p2")

	_, err := f.uc.Create("u1", "p1", reviewReq("o1", 5))
	require.NoError(t, err)
	_, err = f.uc.Create("u1", "p2", reviewReq("o2", 3))
	require.NoError(t, err)

	list, err := f.uc.ListByProduct("p1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].ProductID)
}
