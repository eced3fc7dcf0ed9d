package api

import (
	"net/http"

	authUsecase "bookmark-backend/internal/auth/usecase"
	reminderDelivery "bookmark-backend/internal/reminder/delivery"
	reminderUsecase "bookmark-backend/internal/reminder/usecase"
	"bookmark-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase     authUsecase.AuthUsecase
	reminderHandler *reminderDelivery.ReminderHandler
	config          *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, reminderUc reminderUsecase.ReminderUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:     authUc,
		reminderHandler: reminderDelivery.NewReminderHandler(reminderUc),
		config:          cfg,
	}
}

// Router builds the gin engine with middleware and routes attached
func (h *Handler) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.reminderHandler)
	return r
}

// NewServer returns an http.Server for addr. The caller owns its lifecycle.
func (h *Handler) NewServer(addr string) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: h.Router(),
	}
}
