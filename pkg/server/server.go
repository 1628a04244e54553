package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/shishobooks/cabinet/pkg/auth"
	"github.com/shishobooks/cabinet/pkg/binder"
	"github.com/shishobooks/cabinet/pkg/config"
	"github.com/shishobooks/cabinet/pkg/errcodes"
	"github.com/shishobooks/cabinet/pkg/folders"
	"github.com/shishobooks/cabinet/pkg/highlight"
	"github.com/shishobooks/cabinet/pkg/search"
	"github.com/shishobooks/cabinet/pkg/tags"
	"github.com/uptrace/bun"
)

// New builds the HTTP server. Resources held by the services are released
// when the server shuts down.
func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e, searchService, err := newEcho(cfg, db)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}
	srv.RegisterOnShutdown(searchService.Close)

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB) (*echo.Echo, *search.Service, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())
	e.Use(metricsMiddleware())

	health.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authService := auth.NewService(db, cfg.JWTSecret)
	authMiddleware := auth.RegisterRoutes(e, authService)

	folderService := folders.NewService(db, folders.Options{
		CacheSize: cfg.FolderCacheSize,
		CacheTTL:  cfg.FolderCacheTTL,
		MaxDepth:  cfg.MaxFolderDepth,
	})
	pipeline := search.NewPipeline(cfg.RankingWeights(), highlight.New(cfg.HighlightOpen, cfg.HighlightClose))
	searchService, err := search.NewService(db, folderService, pipeline, cfg.SearchWorkers)
	if err != nil {
		return nil, nil, err
	}

	searchGroup := e.Group("/search")
	searchGroup.Use(authMiddleware.Authenticate)
	search.RegisterRoutesWithGroup(searchGroup, searchService)

	foldersGroup := e.Group("/folders")
	foldersGroup.Use(authMiddleware.Authenticate)
	folders.RegisterRoutesWithGroup(foldersGroup, folderService)

	tagsGroup := e.Group("/tags")
	tagsGroup.Use(authMiddleware.Authenticate)
	tags.RegisterRoutesWithGroup(tagsGroup, db)

	config.RegisterRoutesWithAuth(e, cfg, authMiddleware.Authenticate)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, searchService, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
