package router

import (
	"github.com/pie-rfid/inventory-next/internal/config"
	"github.com/pie-rfid/inventory-next/internal/http/handlers"
	"github.com/pie-rfid/inventory-next/internal/logger"
	"github.com/pie-rfid/inventory-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := handlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		rfid := apiV1.Group("/rfid")
		{
			rfid.POST("/bulk_create", handler.BulkCreate)
			rfid.GET("/scans", handler.GetScans)
		}

		apiV1.GET("/inventory", handler.GetInventory)
		apiV1.GET("/specifications", handler.GetSpecifications)
		apiV1.GET("/discrepancies", handler.GetDiscrepancies)
		apiV1.GET("/companies", handler.GetCompanies)

		catalog := apiV1.Group("/catalog")
		{
			catalog.GET("", handler.GetCatalog)
			catalog.POST("/import", handler.ImportCatalog)
		}

		performance := apiV1.Group("/performance")
		{
			performance.GET("/cache_stats", handler.GetCacheStats)
		}
	}

	return r
}
