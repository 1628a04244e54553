package config

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithAuth registers config routes behind the given
// authentication middleware.
func RegisterRoutesWithAuth(e *echo.Echo, cfg *Config, authenticate echo.MiddlewareFunc) {
	configService := NewService(cfg)
	h := &handler{configService: configService}

	configGroup := e.Group("/config")
	configGroup.Use(authenticate)
	configGroup.GET("/search", h.retrieveSearch)
}
