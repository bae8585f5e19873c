package http

import (
	"time"

	"github.com/MKhiriev/go-family-tree/internal/config"
	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/internal/service"
)

type Handler struct {
	services *service.Services

	// session cookie settings
	cookieSecure bool
	sessionTTL   time.Duration

	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		cookieSecure:   cfg.Server.CookieSecure,
		sessionTTL:     cfg.App.TokenDuration,
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         logger,
	}
}
