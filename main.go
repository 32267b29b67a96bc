package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"bakery-assistant-api/config"
	"bakery-assistant-api/dialogue"
	"bakery-assistant-api/handlers"
	"bakery-assistant-api/routes"
	"bakery-assistant-api/session"

	"github.com/gin-gonic/gin"
)

func main() {
	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config and initialize database
	cfg := config.Load()
	config.InitDB(cfg)

	// Session store: Redis, degrading to in-memory when unreachable
	sessions, err := session.Connect(cfg)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory session store", "error", err)
	}

	ctrl := dialogue.NewController(cfg, config.DB, sessions, logger)
	chat := handlers.NewChatHandler(ctrl, sessions, logger)

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Bakery Ordering Assistant API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "🥐 Welcome to the " + cfg.BakeryName + " Ordering Assistant API",
			"chat":    "/api/chat",
			"docs":    "/api/state-machine",
			"health":  "/health",
		})
	})

	// Register all routes
	routes.SetupRoutes(r, chat)

	// Start server
	log.Printf("🚀 Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
