package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/gestion-api/internal/config"
	domainRepo "github.com/sangkips/gestion-api/internal/domain/repository"
	"github.com/sangkips/gestion-api/internal/presentation/http/handler"
	"github.com/sangkips/gestion-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Draft   *handler.DraftHandler
	Receipt *handler.ReceiptHandler
	Printer *handler.PrinterHandler
	Health  *handler.HealthHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.TenantRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Health)

	// API v1 routes; every call acts for the company in X-Company-ID
	v1 := router.Group("/api/v1")
	v1.Use(middleware.TenantMiddleware())
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	{
		registerPricingRoutes(v1, h)
		registerDraftRoutes(v1, h, deps)
		registerReceiptRoutes(v1, h)
		registerPrinterRoutes(v1, h)
	}

	return router
}

func registerPricingRoutes(v1 *gin.RouterGroup, h *Handlers) {
	v1.POST("/pricing/quote", h.Draft.Quote)
}

func registerDraftRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	drafts := v1.Group("/drafts")
	{
		drafts.POST("", h.Draft.Open)
		drafts.GET("/:id", h.Draft.Get)
		drafts.PUT("/:id", h.Draft.Update)
		drafts.DELETE("/:id", h.Draft.Discard)

		drafts.POST("/:id/items", h.Draft.AddItem)
		drafts.DELETE("/:id/items/:product_id", h.Draft.RemoveItem)
		drafts.PUT("/:id/items/:product_id/quantity", h.Draft.SetQuantity)
		drafts.PUT("/:id/items/:product_id/discount", h.Draft.SetItemDiscount)

		drafts.PUT("/:id/discount", h.Draft.SetGlobalDiscount)
		drafts.PUT("/:id/price-list", h.Draft.SetPriceList)

		// Submission uses idempotency middleware to prevent duplicate orders
		drafts.POST("/:id/submit", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Draft.Submit)
	}
}

func registerReceiptRoutes(v1 *gin.RouterGroup, h *Handlers) {
	receipts := v1.Group("/receipts")
	{
		receipts.GET("/documents", h.Receipt.ListDocuments)
		receipts.POST("/render", h.Receipt.Render)
		receipts.GET("/:id/pdf", h.Receipt.PDF)
		receipts.POST("/:id/email", h.Receipt.Email)
		receipts.GET("/:id/whatsapp", h.Receipt.WhatsApp)
		receipts.POST("/:id/print", h.Receipt.Print)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	v1.GET("/printer/status", h.Printer.GetStatus)
}
