package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the auth routes and returns the middleware that
// protects every other group.
func RegisterRoutes(e *echo.Echo, authService *Service) *Middleware {
	authMiddleware := NewMiddleware(authService)
	h := &handler{}

	g := e.Group("/auth")
	g.Use(authMiddleware.Authenticate)
	g.GET("/me", h.me)

	return authMiddleware
}
