package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/license-backend/config"
	"github.com/ikkim/license-backend/internal/app/controller"
	"github.com/ikkim/license-backend/internal/middleware"
)

type Router struct {
	applicationController *controller.ApplicationController
	fileController        *controller.FileController
	accountTypeController *controller.AccountTypeController
	config                *config.Config
}

func NewRouter(
	applicationController *controller.ApplicationController,
	fileController *controller.FileController,
	accountTypeController *controller.AccountTypeController,
	cfg *config.Config,
) *Router {
	return &Router{
		applicationController: applicationController,
		fileController:        fileController,
		accountTypeController: accountTypeController,
		config:                cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "License application API is running",
		})
	})

	api := router.Group("/api")
	{
		api.GET("/accounttypes", r.accountTypeController.ListAccountTypes)

		applications := api.Group("/applications")
		{
			applications.POST("", r.applicationController.CreateApplication)
			applications.POST("/draft", r.applicationController.CreateDraft)
			applications.POST("/validate", r.applicationController.Validate)
			applications.GET("/reference/:referenceNumber", r.applicationController.GetByReference)
			applications.GET("/:id", r.applicationController.GetByID)
			applications.PUT("/:id/draft", r.applicationController.UpdateDraft)
			applications.PATCH("/:id/status", r.applicationController.UpdateStatus)
		}

		files := api.Group("/files")
		{
			files.POST("/upload", r.fileController.UploadFile)
			files.GET("/:fileId", r.fileController.DownloadFile)
			files.DELETE("/:fileId", r.fileController.DeleteFile)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", "Location", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = allowedOrigins
	return cors.New(cfg)
}
