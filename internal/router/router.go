package router

import (
	"time"

	"invtrack/internal/authz"
	"invtrack/internal/config"
	"invtrack/internal/handler"
	"invtrack/internal/middleware"
	"invtrack/internal/repository"
	"invtrack/internal/service"
	"invtrack/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, categoryRepo, supplierRepo, movementRepo, alertRepo, dispatcher, cfg.AlertEmail)
	categorySvc := service.NewCategoryService(categoryRepo, productRepo)
	supplierSvc := service.NewSupplierService(supplierRepo, productRepo)
	stockSvc := service.NewStockService(productRepo, movementRepo, alertRepo, dispatcher, cfg.AlertEmail)
	orderSvc := service.NewOrderService(orderRepo, productRepo, userRepo, movementRepo, alertRepo, dispatcher, cfg.AlertEmail)
	dashboardSvc := service.NewDashboardService(productRepo, orderRepo, alertRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc, stockSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	stockH := handler.NewStockHandler(stockSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes — permissions resolved through the authz mapping,
	// so routes never enumerate roles.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/api/v1", jwtMW)
	{
		products := v1.Group("/products")
		{
			products.GET("", middleware.RequirePermission(authz.ReadProducts), productsH.List)
			products.GET("/:id", middleware.RequirePermission(authz.ReadProducts), productsH.GetByID)
			products.POST("", middleware.RequirePermission(authz.WriteProducts), productsH.Create)
			products.PUT("/:id", middleware.RequirePermission(authz.WriteProducts), productsH.Update)
			products.PATCH("/:id/stock", middleware.RequirePermission(authz.WriteProducts), productsH.AdjustStock)
			products.DELETE("/:id", middleware.RequirePermission(authz.DeleteProducts), productsH.Delete)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", middleware.RequirePermission(authz.ReadCategories), categoriesH.List)
			categories.GET("/:id", middleware.RequirePermission(authz.ReadCategories), categoriesH.GetByID)
			categories.POST("", middleware.RequirePermission(authz.WriteCategories), categoriesH.Create)
			categories.PUT("/:id", middleware.RequirePermission(authz.WriteCategories), categoriesH.Update)
			categories.DELETE("/:id", middleware.RequirePermission(authz.DeleteCategories), categoriesH.Delete)
		}

		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", middleware.RequirePermission(authz.ReadSuppliers), suppliersH.List)
			suppliers.GET("/:id", middleware.RequirePermission(authz.ReadSuppliers), suppliersH.GetByID)
			suppliers.POST("", middleware.RequirePermission(authz.WriteSuppliers), suppliersH.Create)
			suppliers.PUT("/:id", middleware.RequirePermission(authz.WriteSuppliers), suppliersH.Update)
			suppliers.DELETE("/:id", middleware.RequirePermission(authz.DeleteSuppliers), suppliersH.Delete)
		}

		orders := v1.Group("/orders")
		{
			orders.GET("", middleware.RequirePermission(authz.ReadOrders), ordersH.List)
			orders.GET("/summary", middleware.RequirePermission(authz.ReadReports), ordersH.Summary)
			orders.GET("/:id", middleware.RequirePermission(authz.ReadOrders), ordersH.GetByID)
			orders.POST("", middleware.RequirePermission(authz.WriteOrders), ordersH.Create)
			orders.PATCH("/:id/status", middleware.RequirePermission(authz.WriteOrders), ordersH.UpdateStatus)
		}

		stock := v1.Group("/stock", middleware.RequirePermission(authz.ReadReports))
		{
			stock.GET("/movements", stockH.Movements)
			stock.GET("/alerts", stockH.Alerts)
			stock.PATCH("/alerts/:id/read", stockH.MarkAlertRead)
		}

		users := v1.Group("/users")
		{
			users.GET("", middleware.RequirePermission(authz.ReadUsers), usersH.List)
			users.GET("/:id", middleware.RequirePermission(authz.ReadUsers), usersH.GetByID)
			users.POST("", middleware.RequirePermission(authz.WriteUsers), usersH.Create)
			users.PUT("/:id", middleware.RequirePermission(authz.WriteUsers), usersH.Update)
			users.DELETE("/:id", middleware.RequirePermission(authz.DeleteUsers), usersH.Deactivate)
		}

		v1.GET("/dashboard/stats", middleware.RequirePermission(authz.ReadReports), dashboardH.Stats)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
