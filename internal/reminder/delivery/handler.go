package delivery

import (
	"net/http"

	"bookmark-backend/internal/reminder/usecase"
	"bookmark-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ReminderHandler serves the read-only reminder engine endpoints
type ReminderHandler struct {
	reminderUsecase usecase.ReminderUsecase
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(reminderUsecase usecase.ReminderUsecase) *ReminderHandler {
	return &ReminderHandler{
		reminderUsecase: reminderUsecase,
	}
}

// GET /api/admin/reminders/stats
// GetStats returns reminder counts grouped by channel, completion and email state
func (h *ReminderHandler) GetStats(c *gin.Context) {
	stats, err := h.reminderUsecase.GetStats(c.Request.Context())
	if err != nil {
		logger.Component("http").WithError(err).Error("Failed to load reminder stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reminder stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
