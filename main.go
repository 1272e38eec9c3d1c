package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ten-ki/proto-games/config"
	"github.com/ten-ki/proto-games/routes"
	"github.com/ten-ki/proto-games/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// setupRouter initializes Gin routes and middleware
func setupRouter(hub *services.Hub) *gin.Engine {
	r := gin.Default()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup REST routes
	routes.SetupRoutes(r, hub)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	// WebSocket endpoint
	r.GET("/ws", hub.HandleWebSocket)

	return r
}

func main() {
	// Load env variables
	settings := config.Load()

	// Connect to database
	db := config.SetupDatabase(settings.DatabaseURL)

	// Initialize the hub (rooms, ledger, broadcast)
	hub := services.NewHub(settings, db)
	hub.StartSnapshotLoop()

	router := setupRouter(hub)

	// Flush persisted state on shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		hub.Shutdown()
		os.Exit(0)
	}()

	log.Printf("🚀 proto-games server starting on port %s", settings.Port)
	if err := router.Run(":" + settings.Port); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
