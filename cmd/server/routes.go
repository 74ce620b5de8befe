package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"token-forge.backend/internal/interfaces/http/handlers"
	"token-forge.backend/internal/interfaces/http/middleware"
	"token-forge.backend/internal/metrics"
)

type routeDeps struct {
	metadataHandler *handlers.MetadataHandler
	chainHandler    *handlers.ChainHandler
	authMiddleware  gin.HandlerFunc
	assetDir        string
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Metadata routes
		metadata := v1.Group("/metadata")
		{
			// Session routes go first so gin does not swallow them as
			// :address params.
			metadata.POST("/session", d.authMiddleware, d.metadataHandler.UpsertSession)
			metadata.POST("/session/link", d.authMiddleware, d.metadataHandler.LinkSession)
			metadata.POST("/upload-logo", d.authMiddleware, d.metadataHandler.UploadLogo)

			metadata.POST("", d.authMiddleware, middleware.IdempotencyMiddleware(), d.metadataHandler.CreateMetadata)
			metadata.GET("/:address", d.metadataHandler.GetMetadata)
			metadata.PUT("/:address", d.authMiddleware, middleware.IdempotencyMiddleware(), d.metadataHandler.UpdateMetadata)
			metadata.GET("/:address/history", d.authMiddleware, d.metadataHandler.GetHistory)
			metadata.POST("/:address/verify", d.authMiddleware, d.metadataHandler.VerifyMetadata)
		}

		// Chain routes (public)
		chains := v1.Group("/chains")
		{
			chains.GET("", d.chainHandler.ListChains)
		}
	}

	// Locally stored logo assets
	r.Static("/assets", d.assetDir)
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}
