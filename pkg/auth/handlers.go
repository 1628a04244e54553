package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/cabinet/pkg/errcodes"
)

type handler struct{}

// MeResponse identifies the owner the request is acting as.
type MeResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// me returns the current authenticated user's info.
func (h *handler) me(c echo.Context) error {
	user := GetUserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	return errors.WithStack(c.JSON(http.StatusOK, MeResponse{
		ID:       user.ID,
		Username: user.Username,
	}))
}
