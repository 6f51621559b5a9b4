package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vitrine-dev/vitrine/internal/auth"
	"github.com/vitrine-dev/vitrine/internal/handlers"
	"github.com/vitrine-dev/vitrine/internal/middleware"
)

func New(h *handlers.Handler, tokens *auth.Manager, uploadDir string) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	// Uploaded images are served straight from the upload directory.
	r.Static("/uploads", uploadDir)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.POST("/login", h.Login)

		// The listing is public; everything that mutates is not.
		api.GET("/data", h.ListRecords)

		data := api.Group("/data", middleware.Auth(tokens))
		{
			data.POST("", h.CreateRecord)
			data.PUT("/:id", h.UpdateRecord)
			data.DELETE("/:id", h.DeleteRecord)
		}
	}

	return r
}
