package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/perfumeoud/retailapi/internal/api/handlers"
	"github.com/perfumeoud/retailapi/internal/api/middleware"
	"github.com/perfumeoud/retailapi/internal/config"
	"github.com/perfumeoud/retailapi/internal/conversion"
	"github.com/perfumeoud/retailapi/internal/repository"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, engine *conversion.Engine, catalog *conversion.Catalog, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Gift card routes (require staff authentication)
		giftCards := v1.Group("/gift-cards")
		giftCards.Use(middleware.AuthMiddleware(repos, logger))
		{
			giftCards.POST("", handlers.HandleIssueGiftCard(cfg, repos, logger))
			giftCards.GET("", handlers.HandleListGiftCards(cfg, repos, logger))
			giftCards.GET("/:code/validate", handlers.HandleValidateGiftCard(cfg, repos, logger))
			giftCards.GET("/:code/balance", handlers.HandleCheckBalance(cfg, repos, logger))
			giftCards.GET("/:code/transactions", handlers.HandleTransactionHistory(cfg, repos, logger))
			giftCards.POST("/:code/redeem", handlers.HandleRedeemGiftCard(cfg, repos, logger))
			giftCards.POST("/:code/balance", handlers.HandleAddBalance(cfg, repos, logger))
			giftCards.POST("/:code/cancel", handlers.HandleCancelGiftCard(cfg, repos, logger))
		}

		// Conversion routes (operational tooling, same staff auth)
		conversions := v1.Group("/conversions")
		conversions.Use(middleware.AuthMiddleware(repos, logger))
		{
			conversions.POST("", handlers.HandleConvert(engine, catalog, logger))
			conversions.POST("/batch", handlers.HandleConvertBatch(engine, catalog, logger))
			conversions.GET("/history", handlers.HandleConversionHistory(engine, logger))
		}

		materials := v1.Group("/materials")
		materials.Use(middleware.AuthMiddleware(repos, logger))
		{
			materials.GET("", handlers.HandleListMaterials(catalog))
		}

		// Admin routes (internal - for now using same auth, can be separated later)
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(repos, logger))
		{
			adminRoutes.POST("/gift-cards/expire", handlers.HandleExpireGiftCards(cfg, repos, logger))
			adminRoutes.GET("/reports/gift-cards", handlers.HandleGiftCardReport(repos, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
