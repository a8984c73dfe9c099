package handler

import (
	"io/fs"
	"net/http"
	"time"

	"kiranastock/pkg/logger"
	"kiranastock/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes wires the API, the operational endpoints and the embedded
// web client. Any path that matches neither falls through to the SPA
// shell so client-side routes survive a page reload.
func SetupRoutes(h *InventoryHandler, webAssets fs.FS) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("inventory-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "inventory-service"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		categories := api.Group("/categories")
		{
			categories.GET("", h.GetAllCategories)
			categories.POST("", h.CreateCategory)
			categories.PUT("/:id", h.UpdateCategory)
			categories.DELETE("/:id", h.DeleteCategory)
		}

		items := api.Group("/items")
		{
			items.GET("", h.GetAllItems)
			items.GET("/:id", h.GetItem)
			items.POST("", h.CreateItem)
			items.PUT("/:id", h.UpdateItem)
			items.DELETE("/:id", h.DeleteItem)
		}

		api.POST("/orderlist/summary", h.RenderOrderSummary)
	}

	if webAssets != nil {
		if assets, err := fs.Sub(webAssets, "assets"); err == nil {
			router.StaticFS("/assets", http.FS(assets))
		}

		indexHTML, err := fs.ReadFile(webAssets, "index.html")
		if err != nil {
			logger.Warn().Err(err).Msg("web client shell not found, unmatched paths will 404")
		}

		router.NoRoute(func(c *gin.Context) {
			if indexHTML == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
		})
	}

	return router
}
