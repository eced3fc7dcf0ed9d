package api

import (
	"net/http"
	"time"

	"bookmark-backend/internal/auth/delivery"
	authUsecase "bookmark-backend/internal/auth/usecase"
	reminderDelivery "bookmark-backend/internal/reminder/delivery"
	"bookmark-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, reminderHandler *reminderDelivery.ReminderHandler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Admin routes (protected)
		admin := api.Group("/admin")
		admin.Use(delivery.AuthMiddleware(authUsecase), delivery.RequireAdmin())
		{
			admin.GET("/reminders/stats", reminderHandler.GetStats)
		}
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Component("http").WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("Request handled")
	}
}
