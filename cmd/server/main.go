package main

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"

	"warehouse-backend/internal/analytics"
	"warehouse-backend/internal/audit"
	"warehouse-backend/internal/auth"
	"warehouse-backend/internal/catalog"
	"warehouse-backend/internal/config"
	"warehouse-backend/internal/database"
	"warehouse-backend/internal/httpx"
	"warehouse-backend/internal/inventory"
	"warehouse-backend/internal/ledger"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/order"
	"warehouse-backend/internal/report"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	database.Init(cfg)

	invStore := inventory.NewStore()
	engine := order.NewEngine(database.DB, invStore, ledger.FactoryFor(cfg.CostingMethod))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if _, ok := err.(*fiber.Error); !ok {
				logrus.WithError(err).Error("unexpected error")
			}
			return httpx.Fail(c, err)
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Catalog (mutations are admin-only)
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/warehouses", catalog.ListWarehousesHandler())

	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())
	adminRoutes.Post("/warehouses", catalog.CreateWarehouseHandler())
	adminRoutes.Put("/warehouses/:id", catalog.UpdateWarehouseHandler())
	adminRoutes.Delete("/warehouses/:id", catalog.DeleteWarehouseHandler())

	// Order lifecycle
	protected.Post("/orders", order.CreateOrderHandler(engine))
	protected.Get("/orders", order.ListOrdersHandler())
	protected.Get("/orders/:id", order.GetOrderHandler())
	protected.Post("/orders/:id/approve", order.ApproveOrderHandler(engine))
	protected.Post("/orders/:id/reject", order.RejectOrderHandler(engine))
	protected.Post("/orders/:id/complete", order.CompleteOrderHandler(engine))
	protected.Post("/orders/:id/cancel", order.CancelOrderHandler(engine))
	protected.Delete("/orders/:id", order.DeleteOrderHandler(engine))
	protected.Post("/orders/bulk-approve", order.BulkApproveHandler(engine))
	protected.Post("/orders/bulk-delete", order.BulkDeleteHandler(engine))

	// Stock levels
	protected.Get("/inventory", inventory.ListInventoryHandler())
	protected.Get("/inventory/alerts", inventory.StockAlertsHandler())

	// Warehouse card
	protected.Get("/ledger/:productId", ledger.LedgerCardHandler(cfg))
	protected.Get("/ledger/:productId/export", report.ExportLedgerCardHandler(cfg))

	// Dashboards
	protected.Get("/dashboard/overview", analytics.OverviewHandler(cfg))
	protected.Get("/dashboard/trend", analytics.TrendHandler())
	protected.Get("/dashboard/abc", analytics.ABCHandler())
	protected.Get("/dashboard/warehouse-balance", analytics.WarehouseBalanceHandler())
	protected.Get("/dashboard/expiry", analytics.ExpiryHandler())
	protected.Get("/dashboard/dead-stock", analytics.DeadStockHandler(cfg))

	// Audit trail
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	logrus.WithField("port", cfg.HTTPPort).Info("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logrus.Fatal(err)
	}
}
