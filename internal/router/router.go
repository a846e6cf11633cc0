package router

import (
	"time"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/config"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/handler"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/infra"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/middleware"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/model"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the already-wired services and infrastructure the API exposes.
// Redis and Breaker may be nil.
type Deps struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Breaker *infra.CircuitBreaker

	Auth      service.AuthService
	Catalog   service.CatalogService
	Ledger    service.StockLedger
	Reconcile service.ReconcileService
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, d Deps) *gin.Engine {
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

	// ── Handlers ─────────────────────────────────────────────────────────────
	tokenTTL := time.Duration(cfg.JWTExpirationHours) * time.Hour
	authH := handler.NewAuthHandler(d.Auth, cfg.JWTSecret, tokenTTL)
	catalogH := handler.NewCatalogHandler(d.Catalog)
	ledgerH := handler.NewLedgerHandler(d.Ledger, d.Reconcile)

	// ── Public routes ────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(d.DB, d.Redis, d.Breaker))
	r.POST("/v1/auth/login", middleware.LoginRateLimiter(20, time.Minute), authH.Login)

	// ── Protected routes ─────────────────────────────────────────────────────
	v1 := r.Group("/v1")
	v1.Use(middleware.JWTAuth(cfg.JWTSecret, d.Auth))

	admin := middleware.RequireRole(model.RoleAdmin)

	v1.GET("/auth/me", authH.Me)
	v1.POST("/users", admin, authH.CreateUser)

	products := v1.Group("/products")
	{
		products.GET("", catalogH.ListProducts)
		products.GET("/:id", catalogH.GetProduct)
		products.GET("/:id/stock", ledgerH.CurrentStock)
		products.POST("", admin, catalogH.CreateProduct)
	}

	v1.GET("/inventory", catalogH.ListInventory)

	v1.GET("/suppliers", catalogH.ListSuppliers)
	v1.POST("/suppliers", admin, catalogH.CreateSupplier)
	v1.GET("/customers", catalogH.ListCustomers)
	v1.POST("/customers", admin, catalogH.CreateCustomer)

	// Receive and Sell enforce roles themselves; the middleware only keeps
	// obviously forbidden calls away from the store.
	v1.POST("/receivings", middleware.RequireRole(model.RoleGoodsReceiving, model.RoleAdmin), ledgerH.Receive)
	v1.GET("/receivings", ledgerH.ListReceivings)
	v1.POST("/sales", middleware.RequireRole(model.RoleSales, model.RoleAdmin), ledgerH.Sell)
	v1.GET("/sales", ledgerH.ListSales)

	v1.GET("/reconciliation", admin, ledgerH.Reconcile)

	return r
}
