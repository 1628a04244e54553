package search

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/cabinet/pkg/auth"
	"github.com/shishobooks/cabinet/pkg/errcodes"
)

type handler struct {
	searchService *Service
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	resp, err := h.searchService.Search(ctx, ownerID, c.QueryParams())
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) batch(c echo.Context) error {
	ctx := c.Request().Context()

	params := BatchSearchPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	ownerID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	queries := make([]url.Values, 0, len(params.Queries))
	for _, q := range params.Queries {
		values, err := toValues(q)
		if err != nil {
			return err
		}
		queries = append(queries, values)
	}

	resp, err := h.searchService.BatchSearch(ctx, ownerID, queries)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// toValues turns one decoded JSON query object into query string values so it
// goes through the same normalization as a GET search. Arrays become repeated
// values.
func toValues(q map[string]any) (url.Values, error) {
	values := url.Values{}
	for key, raw := range q {
		switch v := raw.(type) {
		case []any:
			for _, item := range v {
				s, err := scalarString(key, item)
				if err != nil {
					return nil, err
				}
				values.Add(key, s)
			}
		case nil:
		default:
			s, err := scalarString(key, v)
			if err != nil {
				return nil, err
			}
			values.Set(key, s)
		}
	}
	return values, nil
}

func scalarString(key string, v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", errcodes.InvalidQuery(key, "must be a scalar value")
	}
}
