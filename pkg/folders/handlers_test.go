package folders

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/cabinet/internal/testgen"
	"github.com/shishobooks/cabinet/pkg/binder"
	"github.com/shishobooks/cabinet/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestEcho(t *testing.T, db *bun.DB, ownerID int) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	g := e.Group("/folders")
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user_id", ownerID)
			return next(c)
		}
	})
	RegisterRoutesWithGroup(g, newTestService(db))
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandlers_Breadcrumb(t *testing.T) {
	t.Parallel()

	db := testgen.SetupDB(t)
	owner := testgen.CreateUser(t, db, "owner")
	a := testgen.CreateFolder(t, db, owner.ID, nil, "A")
	b := testgen.CreateFolder(t, db, owner.ID, &a.ID, "B")
	e := newTestEcho(t, db, owner.ID)

	rec := get(e, "/folders/breadcrumb?folderId="+strconv.Itoa(b.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":`+strconv.Itoa(a.ID)+`,"name":"A"},{"id":`+strconv.Itoa(b.ID)+`,"name":"B"}]`, rec.Body.String())

	rec = get(e, "/folders/breadcrumb")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = get(e, "/folders/breadcrumb?folderId=9999")
	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["error"]["code"])
}

func TestHandlers_Tree(t *testing.T) {
	t.Parallel()

	db := testgen.SetupDB(t)
	owner := testgen.CreateUser(t, db, "owner")
	a := testgen.CreateFolder(t, db, owner.ID, nil, "A")
	testgen.CreateFolder(t, db, owner.ID, &a.ID, "B")
	e := newTestEcho(t, db, owner.ID)

	rec := get(e, "/folders/tree")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0]["name"])
	assert.InDelta(t, 1, items[0]["childFolderCount"], 0)
	children, ok := items[0]["children"].([]any)
	require.True(t, ok)
	assert.Len(t, children, 1)
}
