package search

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers search routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, searchService *Service) {
	h := &handler{
		searchService: searchService,
	}

	g.GET("", h.search)
	g.POST("/batch", h.batch)
}
