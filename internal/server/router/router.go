package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kovacsd/petcare/internal/server/handlers"
)

// New wires the Gin engine with the UI facade routes and middlewares.
func New(handler *handlers.PetHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.GET("/pets", handler.ListPets)
		api.POST("/pets", handler.CreatePet)
		api.GET("/pets/:id", handler.GetPet)
		api.DELETE("/pets/:id", handler.DeletePet)
		api.POST("/pets/:id/records/:kind", handler.CreateRecord)
		api.DELETE("/pets/:id/records/:kind/:recordId", handler.DeleteRecord)
		api.POST("/registry/search", handler.SearchRegistry)
		api.POST("/registry/select", handler.SelectRegistryResult)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
