package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/chpcstore/tienda-api/internal/application/auth"
	"github.com/chpcstore/tienda-api/internal/application/catalog"
	"github.com/chpcstore/tienda-api/internal/application/mail"
	"github.com/chpcstore/tienda-api/internal/application/notifications"
	"github.com/chpcstore/tienda-api/internal/application/orders"
	"github.com/chpcstore/tienda-api/internal/application/permisos"
	"github.com/chpcstore/tienda-api/internal/application/promotions"
	"github.com/chpcstore/tienda-api/internal/application/users"
	"github.com/chpcstore/tienda-api/internal/application/workorders"
	inframail "github.com/chpcstore/tienda-api/internal/infrastructure/mail"
	"github.com/chpcstore/tienda-api/internal/infrastructure/postgres"
	"github.com/chpcstore/tienda-api/internal/infrastructure/storage"
	httpRouter "github.com/chpcstore/tienda-api/internal/interfaces/http"
	"github.com/chpcstore/tienda-api/pkg/config"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

// intervalo del barrido de permisos y promociones expiradas.
const sweepInterval = time.Hour

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

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	bannerRepo := postgres.NewBannerRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	workOrderRepo := postgres.NewWorkOrderRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	permisoRepo := postgres.NewPermisoRepository(pool)
	promotionRepo := postgres.NewPromotionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	var imageStorage catalog.ImageStorage
	if cfg.Storage.Endpoint != "" {
		minioStorage, err := storage.NewMinioStorage(cfg.Storage, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a MinIO")
		}
		imageStorage = minioStorage
	} else {
		imageStorage = storage.NewDisabled(log)
	}

	sender := inframail.NewSMTPSender(cfg.SMTP, log)
	mailService := mail.NewMailService(sender, log)

	hub := notifications.NewHub()
	notificationUC := notifications.NewUseCase(notificationRepo, hub)

	authUC := auth.NewUseCase(userRepo, notificationUC, mailService, cfg.JWT, log)
	catalogUC := catalog.NewUseCase(productRepo, bannerRepo, imageStorage, log)
	orderUC := orders.NewUseCase(txRunner, orderRepo, productRepo, userRepo, notificationUC, mailService, log)
	workOrderUC := workorders.NewUseCase(workOrderRepo, log)
	permisoUC := permisos.NewUseCase(permisoRepo, userRepo, log)
	promotionUC := promotions.NewUseCase(promotionRepo, productRepo, log)
	userUC := users.NewUseCase(userRepo, log)

	// Barrido periódico: desactiva permisos y promociones ya expirados.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				permisoUC.SweepExpirados()
				promotionUC.SweepExpiradas()
			case <-sweepCtx.Done():
				return
			}
		}
	}()

	// Sin WriteTimeout: el stream SSE de notificaciones es de larga vida.
	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	// Solo se monta si el swagger.json generado existe; sin él la API arranca igual.
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Tienda CHPC API",
		}))
	} else {
		log.Warn().Msg("docs/swagger.json no encontrado: Swagger UI deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CatalogUC:      catalogUC,
		OrderUC:        orderUC,
		WorkOrderUC:    workOrderUC,
		NotificationUC: notificationUC,
		PermisoUC:      permisoUC,
		PromotionUC:    promotionUC,
		UserUC:         userUC,
		JWTSecret:      cfg.JWT.Secret,
		Log:            log,
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
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
