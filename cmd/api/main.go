package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/LaibaHameed12/ecom-backend/internal/application/auth"
	"github.com/LaibaHameed12/ecom-backend/internal/application/order"
	"github.com/LaibaHameed12/ecom-backend/internal/application/payment"
	"github.com/LaibaHameed12/ecom-backend/internal/application/usecase"
	infracloudinary "github.com/LaibaHameed12/ecom-backend/internal/infrastructure/cloudinary"
	"github.com/LaibaHameed12/ecom-backend/internal/infrastructure/mail"
	infrapdf "github.com/LaibaHameed12/ecom-backend/internal/infrastructure/pdf"
	"github.com/LaibaHameed12/ecom-backend/internal/infrastructure/postgres"
	infrastripe "github.com/LaibaHameed12/ecom-backend/internal/infrastructure/stripe"
	"github.com/LaibaHameed12/ecom-backend/internal/infrastructure/ws"
	httpRouter "github.com/LaibaHameed12/ecom-backend/internal/interfaces/http"
	"github.com/LaibaHameed12/ecom-backend/pkg/config"
	"github.com/LaibaHameed12/ecom-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	hub := ws.NewHub(log.Component("ws"))
	notificationUC := usecase.NewNotificationUseCase(notificationRepo, hub, log)

	mailer := mail.NewMailer(cfg.Mail, cfg.App.Name)
	authUC := auth.NewAuthUseCase(userRepo, mailer, auth.JWTConfig{
		Secret:            cfg.JWT.Secret,
		ExpMinutes:        cfg.JWT.ExpMinutes,
		RefreshSecret:     cfg.JWT.RefreshSecret,
		RefreshExpMinutes: cfg.JWT.RefreshExpMinutes,
		Issuer:            cfg.JWT.Issuer,
	})

	uploader, err := infracloudinary.NewUploader(cfg.Cloudinary)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente de Cloudinary")
	}

	userUC := usecase.NewUserUseCase(userRepo, log)
	productUC := usecase.NewProductUseCase(productRepo, notificationUC, uploader, log)
	reviewUC := usecase.NewReviewUseCase(reviewRepo, orderRepo, productRepo, log)
	orderUC := order.NewUseCase(txRunner, orderRepo, userRepo, notificationUC, log)

	receiptGenerator := infrapdf.NewReceiptGenerator(cfg.App.Name)
	receiptUC := order.NewReceiptUseCase(orderRepo, userRepo, productRepo, receiptGenerator)

	gateway := infrastripe.NewGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.App.ClientURL)
	paymentUC := payment.NewUseCase(gateway, orderRepo, userRepo, productRepo, notificationUC, log)

	// Scheduler de ofertas: activa y apaga ventanas cada minuto
	scheduler := usecase.NewSaleScheduler(productRepo, productUC, time.Minute, log.Component("sales"))
	go scheduler.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         userUC,
		ProductUC:      productUC,
		ReviewUC:       reviewUC,
		NotificationUC: notificationUC,
		OrderUC:        orderUC,
		ReceiptUC:      receiptUC,
		PaymentUC:      paymentUC,
		Hub:            hub,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancel() // detiene el scheduler

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
