package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guilherme-santos/retellcalendar"
	"github.com/guilherme-santos/retellcalendar/internal/config"
)

const (
	HealthPath  = "/"
	WebhookPath = "/webhook/retell-calendar"
)

type Booker interface {
	Book(context.Context, retellcalendar.BookingRequest) (*retellcalendar.Booking, error)
}

type Server struct {
	cfg    *config.Config
	booker Booker
	logger *zap.Logger
}

// New returns a server for cfg. booker may be nil in mock mode.
func New(cfg *config.Config, booker Booker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:    cfg,
		booker: booker,
		logger: logger,
	}
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(requestID(s.logger))
	router.Use(accessLog(s.cfg.Debug))
	router.Use(recovery())
	if s.cfg.RateLimitPerMin > 0 {
		router.Use(rateLimit(s.cfg.RateLimitPerMin))
	}

	router.GET(HealthPath, s.health)
	if s.cfg.Mode == config.ModeMock {
		router.POST(WebhookPath, s.mockWebhook)
	} else {
		router.POST(WebhookPath, s.webhook)
	}
	return router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: healthStatus})
}
