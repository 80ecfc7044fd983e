package handlers

import (
	"net/http"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest dependency health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}

// RootHandler confirms the service is up.
func RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "WhatsApp Investment Bot is running!"})
}
