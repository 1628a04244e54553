package folders

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/cabinet/pkg/auth"
	"github.com/shishobooks/cabinet/pkg/errcodes"
)

type handler struct {
	folderService *Service
}

func (h *handler) breadcrumb(c echo.Context) error {
	ctx := c.Request().Context()

	params := BreadcrumbQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	ownerID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	path, err := h.folderService.Breadcrumb(ctx, ownerID, params.FolderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, path))
}

func (h *handler) tree(c echo.Context) error {
	ctx := c.Request().Context()

	params := TreeQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	ownerID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	items, err := h.folderService.Tree(ctx, ownerID, params.RootID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, items))
}
