package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LaibaHameed12/ecom-backend/internal/application/auth"
	"github.com/LaibaHameed12/ecom-backend/internal/application/order"
	"github.com/LaibaHameed12/ecom-backend/internal/application/payment"
	"github.com/LaibaHameed12/ecom-backend/internal/application/usecase"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/infrastructure/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	ProductUC      *usecase.ProductUseCase
	ReviewUC       *usecase.ReviewUseCase
	NotificationUC *usecase.NotificationUseCase
	OrderUC        *order.UseCase
	ReceiptUC      *order.ReceiptUseCase
	PaymentUC      *payment.UseCase
	Hub            *ws.Hub
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authRequired := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin, entity.RoleSuperadmin)
	superadminOnly := RequireRole(entity.RoleSuperadmin)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/verify-otp", authHandler.VerifyOTP)
	authGroup.Post("/resend-otp", authHandler.ResendOTP)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Catálogo: lectura pública, escritura solo admin
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/images", authRequired, adminOnly, productHandler.UploadImages)
	products.Post("/", authRequired, adminOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id/related", productHandler.ListRelated)
	products.Post("/:id/sale", authRequired, adminOnly, productHandler.SetSale)
	products.Delete("/:id/sale", authRequired, adminOnly, productHandler.RemoveSale)
	products.Put("/:id", authRequired, adminOnly, productHandler.Update)
	products.Delete("/:id", authRequired, adminOnly, productHandler.Delete)
	products.Get("/:id", productHandler.GetByID)

	// Reseñas: anidadas bajo el producto; las recientes del sitio aparte
	reviewHandler := NewReviewHandler(deps.ReviewUC)
	products.Get("/:productId/reviews", reviewHandler.ListByProduct)
	products.Post("/:productId/reviews", authRequired, reviewHandler.Create)
	products.Get("/:productId/reviews/can-review", authRequired, reviewHandler.CanReview)
	api.Get("/reviews/recent", reviewHandler.ListRecent)

	// Usuarios (protegido)
	users := api.Group("/users", authRequired)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/me", userHandler.Me)
	users.Get("/", superadminOnly, userHandler.List)
	users.Patch("/:id/roles", superadminOnly, userHandler.UpdateRoles)
	users.Patch("/:id/status", adminOnly, userHandler.UpdateStatus)
	users.Delete("/:id", superadminOnly, userHandler.Delete)
	users.Get("/:id", userHandler.GetByID)

	// Órdenes (protegido)
	orders := api.Group("/orders", authRequired)
	orderHandler := NewOrderHandler(deps.OrderUC, deps.ReceiptUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id/receipt", orderHandler.DownloadReceipt)
	orders.Patch("/:id/status", adminOnly, orderHandler.UpdateStatus)
	orders.Delete("/:id", adminOnly, orderHandler.Delete)
	orders.Get("/:id", orderHandler.GetByID)

	// Notificaciones (protegido)
	notifications := api.Group("/notifications", authRequired)
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications.Get("/", notificationHandler.List)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)
	notifications.Delete("/:id", notificationHandler.Delete)

	// Pagos: el webhook es público (lo autentica la firma), el checkout no
	payments := api.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	payments.Post("/checkout-session", authRequired, paymentHandler.CreateCheckoutSession)
	payments.Post("/webhook", paymentHandler.Webhook)

	// Canal en tiempo real (autenticado por token en el query string)
	app.Get("/ws", ws.UpgradeGuard(), deps.Hub.Handler(deps.JWTSecret))
}
