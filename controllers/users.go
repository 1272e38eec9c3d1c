package controllers

import (
	"net/http"

	"github.com/ten-ki/proto-games/config"
	"github.com/ten-ki/proto-games/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterUser creates a ledger record up front. Players joining over
// the websocket get one automatically; this exists for clients that want
// to check wealth before sitting down.
func RegisterUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// check if already exists
	var existing models.User
	if err := config.DB.Where("name = ?", user.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser fetches a user by display name
func GetUser(c *gin.Context) {
	name := c.Param("name")

	var user models.User
	if err := config.DB.Where("name = ?", name).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, user)
}
