package search

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/cabinet/pkg/errcodes"
	"github.com/shishobooks/cabinet/pkg/models"
	"github.com/shishobooks/cabinet/pkg/query"
	"github.com/uptrace/bun"
)

var (
	searchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cabinet_search_requests_total",
		Help: "Number of searches by outcome.",
	}, []string{"outcome"})
	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cabinet_search_duration_seconds",
		Help:    "Time spent answering a search, including loading candidates.",
		Buckets: prometheus.DefBuckets,
	})
	searchCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cabinet_search_candidates",
		Help:    "Number of live files considered per search.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})
	batchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cabinet_search_batch_size",
		Help:    "Number of queries per batch search.",
		Buckets: prometheus.LinearBuckets(1, 1, MaxBatchQueries),
	})
)

// FolderScope checks that a folder belongs to an owner.
type FolderScope interface {
	ValidateScope(ctx context.Context, ownerID, folderID int) error
}

type Service struct {
	db       *bun.DB
	folders  FolderScope
	pipeline *Pipeline
	pool     *ants.Pool
}

// NewService creates a search service whose batch searches run on a pool of
// the given number of workers. Close releases the pool.
func NewService(db *bun.DB, folders FolderScope, pipeline *Pipeline, workers int) (*Service, error) {
	pool, err := ants.NewPool(max(workers, 1))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Service{
		db:       db,
		folders:  folders,
		pipeline: pipeline,
		pool:     pool,
	}, nil
}

func (svc *Service) Close() {
	svc.pool.Release()
}

// Search runs a single search for the owner. Parameters are the raw query
// string values; unknown parameters are ignored.
func (svc *Service) Search(ctx context.Context, ownerID int, params url.Values) (*Response, error) {
	start := time.Now()

	d, err := query.Normalize(params)
	if err != nil {
		searchRequestsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	resp, err := svc.SearchDescriptor(ctx, ownerID, d)
	if err != nil {
		return nil, err
	}

	searchDuration.Observe(time.Since(start).Seconds())
	return resp, nil
}

// SearchDescriptor runs an already normalized search for the owner.
func (svc *Service) SearchDescriptor(ctx context.Context, ownerID int, d *query.Descriptor) (*Response, error) {
	if err := svc.validateScope(ctx, ownerID, d); err != nil {
		searchRequestsTotal.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	candidates, err := svc.ListCandidates(ctx, ownerID)
	if err != nil {
		searchRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	resp := svc.pipeline.Run(candidates, d)
	searchRequestsTotal.WithLabelValues("ok").Inc()
	return resp, nil
}

// BatchSearch runs several searches against one candidate snapshot. The
// responses are in the same order as the queries. Any malformed query fails
// the whole batch before work is done.
func (svc *Service) BatchSearch(ctx context.Context, ownerID int, queries []url.Values) (*BatchResponse, error) {
	log := logger.FromContext(ctx)

	if len(queries) == 0 || len(queries) > MaxBatchQueries {
		return nil, errcodes.InvalidQuery("queries", "a batch holds between 1 and 10 queries")
	}
	batchSize.Observe(float64(len(queries)))

	descriptors := make([]*query.Descriptor, len(queries))
	for i, params := range queries {
		d, err := query.Normalize(params)
		if err != nil {
			searchRequestsTotal.WithLabelValues("invalid").Inc()
			return nil, err
		}
		if err := svc.validateScope(ctx, ownerID, d); err != nil {
			searchRequestsTotal.WithLabelValues(outcome(err)).Inc()
			return nil, err
		}
		descriptors[i] = d
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	candidates, err := svc.ListCandidates(ctx, ownerID)
	if err != nil {
		searchRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	responses := make([]*Response, len(descriptors))
	var wg sync.WaitGroup
	for i, d := range descriptors {
		wg.Add(1)
		err := svc.pool.Submit(func() {
			defer wg.Done()
			start := time.Now()
			responses[i] = svc.pipeline.Run(candidates, d)
			searchDuration.Observe(time.Since(start).Seconds())
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			log.Err(err).Error("batch search submit error", logger.Data{"batch_id": id.String()})
			return nil, errors.WithStack(err)
		}
	}
	wg.Wait()

	searchRequestsTotal.WithLabelValues("ok").Add(float64(len(responses)))
	return &BatchResponse{
		BatchID:   id.String(),
		Responses: responses,
	}, nil
}

// ListCandidates loads the owner's live files with their tags.
func (svc *Service) ListCandidates(ctx context.Context, ownerID int) ([]*models.File, error) {
	var files []*models.File

	err := svc.db.NewSelect().
		Model(&files).
		Relation("Tags.Tag").
		Where("f.user_id = ?", ownerID).
		Where("f.deleted_at IS NULL").
		Order("f.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	searchCandidates.Observe(float64(len(files)))
	return files, nil
}

func (svc *Service) validateScope(ctx context.Context, ownerID int, d *query.Descriptor) error {
	if d.Folder == nil || d.Folder.IsRoot() {
		return nil
	}
	return svc.folders.ValidateScope(ctx, ownerID, *d.Folder.FolderID)
}

func outcome(err error) string {
	var codeErr *errcodes.Error
	if errors.As(err, &codeErr) && codeErr.HTTPCode < 500 {
		return "rejected"
	}
	return "error"
}
