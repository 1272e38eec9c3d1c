package routes

import (
	"github.com/ten-ki/proto-games/controllers"
	"github.com/ten-ki/proto-games/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, hub *services.Hub) {
	api := r.Group("/api")

	// ----------------------
	// User routes
	// ----------------------
	api.POST("/users", controllers.RegisterUser) // Register user
	api.GET("/users/:name", controllers.GetUser) // Get user by name

	// ----------------------
	// Room / ranking routes
	// ----------------------
	api.GET("/rooms", controllers.ListRooms(hub.Registry()))
	api.GET("/leaderboard", controllers.Leaderboard(hub.Ledger()))
}
