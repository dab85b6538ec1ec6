package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chpcstore/tienda-api/internal/application/auth"
	"github.com/chpcstore/tienda-api/internal/application/catalog"
	"github.com/chpcstore/tienda-api/internal/application/notifications"
	"github.com/chpcstore/tienda-api/internal/application/orders"
	"github.com/chpcstore/tienda-api/internal/application/permisos"
	"github.com/chpcstore/tienda-api/internal/application/promotions"
	"github.com/chpcstore/tienda-api/internal/application/users"
	"github.com/chpcstore/tienda-api/internal/application/workorders"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.UseCase
	CatalogUC      *catalog.UseCase
	OrderUC        *orders.UseCase
	WorkOrderUC    *workorders.UseCase
	NotificationUC *notifications.UseCase
	PermisoUC      *permisos.UseCase
	PromotionUC    *promotions.UseCase
	UserUC         *users.UseCase
	JWTSecret      string
	Log            *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authRequired := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RolAdministrador)
	ventas := RequireRole(entity.RolAdministrador, entity.RolVendedor)
	taller := RequireRole(entity.RolAdministrador, entity.RolTecnico)
	personal := RequireRole(entity.RolAdministrador, entity.RolVendedor, entity.RolTecnico)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authRequired, authHandler.Logout)
	authGroup.Put("/password", authRequired, authHandler.ChangePassword)

	// Catálogo: lectura pública, escritura para personal de ventas
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC)
	products.Get("/", productHandler.List)
	products.Post("/", authRequired, ventas, productHandler.Create)
	products.Post("/upload", authRequired, ventas, productHandler.UploadImage)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", authRequired, ventas, productHandler.Update)
	products.Delete("/:id", authRequired, adminOnly, productHandler.Delete)

	// Banners de portada
	banners := api.Group("/banners")
	bannerHandler := NewBannerHandler(deps.CatalogUC)
	banners.Get("/", bannerHandler.List)
	banners.Post("/", authRequired, ventas, bannerHandler.Create)
	banners.Put("/:id", authRequired, ventas, bannerHandler.Update)
	banners.Delete("/:id", authRequired, ventas, bannerHandler.Delete)

	// Promociones: vigentes públicas, gestión para ventas
	promos := api.Group("/promotions")
	promotionHandler := NewPromotionHandler(deps.PromotionUC)
	promos.Get("/vigentes", promotionHandler.ListVigentes)
	promos.Get("/producto/:id", promotionHandler.FindByProducto)
	promos.Get("/", authRequired, ventas, promotionHandler.List)
	promos.Post("/", authRequired, ventas, promotionHandler.Create)
	promos.Get("/:id", authRequired, ventas, promotionHandler.GetByID)
	promos.Put("/:id", authRequired, ventas, promotionHandler.Update)
	promos.Delete("/:id", authRequired, ventas, promotionHandler.Delete)

	// Pedidos
	ordersGroup := api.Group("/orders", authRequired)
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/mine", orderHandler.ListMine)
	ordersGroup.Get("/mine/:id", orderHandler.GetMine)
	ordersGroup.Get("/assigned", ventas, orderHandler.ListByVendedor)
	ordersGroup.Get("/", ventas, orderHandler.ListAll)
	ordersGroup.Put("/:id/status", adminOnly, orderHandler.UpdateStatus)
	ordersGroup.Put("/:id/assign", ventas, orderHandler.Assign)
	ordersGroup.Delete("/:id/assign", ventas, orderHandler.Unassign)
	ordersGroup.Put("/:id/gestion", ventas, orderHandler.UpdateEstadoGestion)

	// Órdenes de trabajo del taller
	workOrderHandler := NewWorkOrderHandler(deps.WorkOrderUC)
	// Seguimiento público por código, sin token
	api.Get("/track/:code", workOrderHandler.Track)

	wo := api.Group("/workorders", authRequired)
	wo.Post("/", personal, workOrderHandler.Create)
	wo.Get("/", personal, workOrderHandler.List)
	wo.Get("/stats", taller, workOrderHandler.Statistics)
	wo.Get("/:id", personal, workOrderHandler.GetByID)
	wo.Put("/:id", taller, workOrderHandler.Update)
	wo.Put("/:id/assign", taller, workOrderHandler.Assign)
	wo.Delete("/:id/assign", taller, workOrderHandler.Unassign)
	wo.Put("/:id/estado", taller, workOrderHandler.UpdateEstado)
	wo.Delete("/:id", adminOnly, workOrderHandler.Remove)

	// Notificaciones in-app + stream SSE
	notifs := api.Group("/notifications", authRequired, personal)
	notificationHandler := NewNotificationHandler(deps.NotificationUC, deps.Log)
	notifs.Get("/", notificationHandler.List)
	notifs.Get("/unread-count", notificationHandler.UnreadCount)
	notifs.Get("/stream", notificationHandler.Stream)
	notifs.Put("/read-all", notificationHandler.MarkAllRead)
	notifs.Put("/:id/read", notificationHandler.MarkRead)

	// Permisos temporales
	permGroup := api.Group("/permisos", authRequired)
	permisoHandler := NewPermisoHandler(deps.PermisoUC, deps.UserUC)
	permGroup.Get("/check/:tipo", permisoHandler.Check)
	permGroup.Get("/mine", permisoHandler.ListMine)
	permGroup.Post("/", adminOnly, permisoHandler.Grant)
	permGroup.Get("/", adminOnly, permisoHandler.List)
	permGroup.Get("/user/:id", adminOnly, permisoHandler.ListByUser)
	permGroup.Put("/:id/revoke", adminOnly, permisoHandler.Revoke)
	permGroup.Put("/:id", adminOnly, permisoHandler.Update)
	permGroup.Delete("/:id", adminOnly, permisoHandler.Delete)

	// Administración de usuarios
	usersGroup := api.Group("/users", authRequired)
	userHandler := NewUserHandler(deps.UserUC)
	usersGroup.Get("/me", userHandler.Me)
	usersGroup.Get("/tecnicos", ventas, userHandler.ListTecnicos)
	usersGroup.Get("/", adminOnly, userHandler.List)
	usersGroup.Get("/:id", adminOnly, userHandler.GetByID)
	usersGroup.Put("/:id", adminOnly, userHandler.Update)
	usersGroup.Delete("/:id", adminOnly, userHandler.Delete)
}
