package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rkstores/billing-api/internal/config"
	domainRepo "github.com/rkstores/billing-api/internal/domain/repository"
	"github.com/rkstores/billing-api/internal/presentation/http/handler"
	"github.com/rkstores/billing-api/internal/presentation/http/middleware"
	"github.com/rkstores/billing-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Transaction *handler.TransactionHandler
	Discount    *handler.DiscountHandler
	Tenant      *handler.TenantHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Log             *logrus.Logger
	TenantRepo      domainRepo.TenantRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.TenantMiddleware(deps.TenantRepo))

		// Per-tenant rate limiter
		rateLimiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: deps.Cfg.RateLimit.RequestsPerSecond,
			BurstSize:         deps.Cfg.RateLimit.Burst,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerTransactionRoutes(protected, h, deps)
		registerDiscountRoutes(protected, h)
		registerTenantRoutes(protected, h)
	}

	return router
}

func registerTransactionRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	transactions := protected.Group("/transactions")
	{
		// Posting requires an idempotency key so a double-submitted sale
		// replays the original document instead of minting a second one
		transactions.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Transaction.Post)

		transactions.GET("", h.Transaction.List)
		transactions.GET("/cursor", h.Transaction.ListWithCursor)
		transactions.GET("/:number", h.Transaction.Get)
	}
}

func registerDiscountRoutes(protected *gin.RouterGroup, h *Handlers) {
	discounts := protected.Group("/discounts")
	{
		discounts.POST("/otp", h.Discount.SendOtp)
		discounts.POST("/otp/verify", h.Discount.VerifyOtp)
	}
}

func registerTenantRoutes(protected *gin.RouterGroup, h *Handlers) {
	tenant := protected.Group("/tenant")
	{
		tenant.GET("/config", h.Tenant.GetConfig)
		tenant.PUT("/config", middleware.RequireRole("admin", "owner"), h.Tenant.UpdateConfig)
	}
}
