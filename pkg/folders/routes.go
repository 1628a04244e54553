package folders

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers folder navigation routes on a
// pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, folderService *Service) {
	h := &handler{
		folderService: folderService,
	}

	g.GET("/breadcrumb", h.breadcrumb)
	g.GET("/tree", h.tree)
}
