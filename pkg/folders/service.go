package folders

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/cabinet/pkg/errcodes"
	"github.com/shishobooks/cabinet/pkg/foldertree"
	"github.com/shishobooks/cabinet/pkg/models"
	"github.com/uptrace/bun"
)

var (
	arenaCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cabinet_folder_cache_hits_total",
		Help: "Number of folder tree lookups served from the cache.",
	})
	arenaCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cabinet_folder_cache_misses_total",
		Help: "Number of folder tree lookups that loaded folders from the database.",
	})
	treeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cabinet_folder_tree_errors_total",
		Help: "Number of folder hierarchy walks that hit a cycle or a dangling parent.",
	}, []string{"code"})
)

type Options struct {
	CacheSize int
	CacheTTL  time.Duration
	MaxDepth  int
}

type Service struct {
	db       *bun.DB
	arenas   *expirable.LRU[int, *foldertree.Arena]
	maxDepth int
}

func NewService(db *bun.DB, opts Options) *Service {
	size := opts.CacheSize
	if size < 1 {
		size = 1
	}
	return &Service{
		db:       db,
		arenas:   expirable.NewLRU[int, *foldertree.Arena](size, nil, opts.CacheTTL),
		maxDepth: opts.MaxDepth,
	}
}

// Arena returns the folder snapshot for ownerID, loading it on a cache miss.
// Arenas are immutable, so callers may hold on to one for the length of a
// request while the cache moves on.
func (svc *Service) Arena(ctx context.Context, ownerID int) (*foldertree.Arena, error) {
	if arena, ok := svc.arenas.Get(ownerID); ok {
		arenaCacheHitsTotal.Inc()
		return arena, nil
	}
	arenaCacheMissesTotal.Inc()

	folders, err := svc.ListFolders(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	arena := foldertree.New(folders, svc.maxDepth)
	svc.arenas.Add(ownerID, arena)
	return arena, nil
}

// Invalidate drops the cached snapshot for ownerID so the next lookup sees
// folder changes made by the upload path.
func (svc *Service) Invalidate(ownerID int) {
	svc.arenas.Remove(ownerID)
}

// ListFolders loads every folder of the owner along with the number of live
// files directly inside each one.
func (svc *Service) ListFolders(ctx context.Context, ownerID int) ([]*models.Folder, error) {
	var folders []*models.Folder

	fileCount := svc.db.NewSelect().
		Model((*models.File)(nil)).
		ColumnExpr("COUNT(*)").
		Where("f.folder_id = fo.id").
		Where("f.deleted_at IS NULL")

	err := svc.db.NewSelect().
		Model(&folders).
		Column("fo.*").
		ColumnExpr("(?) AS file_count", fileCount).
		Where("fo.user_id = ?", ownerID).
		Order("fo.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return folders, nil
}

// ValidateScope checks that folderID names a folder of the owner.
func (svc *Service) ValidateScope(ctx context.Context, ownerID, folderID int) error {
	arena, err := svc.Arena(ctx, ownerID)
	if err != nil {
		return err
	}
	if _, ok := arena.Get(folderID, ownerID); !ok {
		return errcodes.NotFound("Folder")
	}
	return nil
}

// Breadcrumb returns the root-first path to folderID. A nil folderID is the
// root itself, whose path is empty.
func (svc *Service) Breadcrumb(ctx context.Context, ownerID int, folderID *int) ([]foldertree.Crumb, error) {
	if folderID == nil {
		return []foldertree.Crumb{}, nil
	}

	arena, err := svc.Arena(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	path, err := arena.Breadcrumb(*folderID, ownerID)
	if err != nil {
		svc.logTreeError(ctx, err, ownerID, *folderID)
		return nil, err
	}
	return path, nil
}

// Tree returns the nested folders under rootID, or the owner's whole forest
// when rootID is nil.
func (svc *Service) Tree(ctx context.Context, ownerID int, rootID *int) ([]*foldertree.TreeItem, error) {
	arena, err := svc.Arena(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	items, err := arena.Tree(rootID, ownerID)
	if err != nil {
		id := 0
		if rootID != nil {
			id = *rootID
		}
		svc.logTreeError(ctx, err, ownerID, id)
		return nil, err
	}
	return items, nil
}

func (svc *Service) logTreeError(ctx context.Context, err error, ownerID, folderID int) {
	var codeErr *errcodes.Error
	if !errors.As(err, &codeErr) || codeErr.HTTPCode < 500 {
		return
	}
	treeErrorsTotal.WithLabelValues(codeErr.Code).Inc()
	logger.FromContext(ctx).Err(err).Error("folder hierarchy is corrupt", logger.Data{
		"owner_id":  ownerID,
		"folder_id": folderID,
		"code":      codeErr.Code,
	})
}
