package controllers

import (
	"net/http"

	"github.com/ten-ki/proto-games/game"
	"github.com/ten-ki/proto-games/services"

	"github.com/gin-gonic/gin"
)

// ListRooms returns the active room directory for lobby UIs.
func ListRooms(reg *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, reg.List())
	}
}

// Leaderboard returns the top users ranked by cumulative score.
func Leaderboard(ledger services.Wallet) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := ledger.TopUsers(10)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}
