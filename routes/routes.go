package routes

import (
	"time"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all HTTP endpoints.
func RegisterRoutes(r *gin.Engine, webhook *handlers.WebhookHandler, reminders *handlers.ReminderHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	r.GET("/", handlers.RootHandler)
	r.GET("/health", handlers.HealthHandler)

	// Meta webhook surface.
	r.GET("/webhook", webhook.VerifyHandler)
	r.POST("/webhook", webhook.ReceiveHandler)

	// Reminder management REST surface.
	api := r.Group("/api/reminders")
	{
		api.POST("", reminders.ScheduleHandler)
		api.DELETE("", reminders.CancelHandler)
		api.GET("/:phone", reminders.ListHandler)
		api.GET("/:phone/history", reminders.HistoryHandler)
	}
}
