package tags

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"github.com/shishobooks/cabinet/pkg/errcodes"
	"github.com/shishobooks/cabinet/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveTagOptions struct {
	ID     *int
	Name   *string
	UserID int
}

type ListTagsOptions struct {
	Limit  *int
	Offset *int
	UserID int
	Search *string

	includeTotal bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// fileCountExpr counts the live files carrying the tag.
func (svc *Service) fileCountExpr() *bun.SelectQuery {
	return svc.db.NewSelect().
		TableExpr("file_tags AS ftc").
		Join("JOIN files AS fc ON fc.id = ftc.file_id").
		ColumnExpr("COUNT(*)").
		Where("ftc.tag_id = t.id").
		Where("fc.deleted_at IS NULL")
}

func (svc *Service) RetrieveTag(ctx context.Context, opts RetrieveTagOptions) (*models.Tag, error) {
	tag := &models.Tag{}

	q := svc.db.
		NewSelect().
		Model(tag).
		Column("t.*").
		ColumnExpr("(?) AS file_count", svc.fileCountExpr()).
		Where("t.user_id = ?", opts.UserID)

	if opts.ID != nil {
		q = q.Where("t.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		// Case-insensitive match
		q = q.Where("LOWER(t.name) = LOWER(?)", *opts.Name)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Tag")
		}
		return nil, errors.WithStack(err)
	}

	return tag, nil
}

func (svc *Service) ListTags(ctx context.Context, opts ListTagsOptions) ([]*models.Tag, error) {
	t, _, err := svc.listTagsWithTotal(ctx, opts)
	return t, errors.WithStack(err)
}

func (svc *Service) ListTagsWithTotal(ctx context.Context, opts ListTagsOptions) ([]*models.Tag, int, error) {
	opts.includeTotal = true
	return svc.listTagsWithTotal(ctx, opts)
}

func (svc *Service) listTagsWithTotal(ctx context.Context, opts ListTagsOptions) ([]*models.Tag, int, error) {
	tags := []*models.Tag{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&tags).
		Column("t.*").
		ColumnExpr("(?) AS file_count", svc.fileCountExpr()).
		Where("t.user_id = ?", opts.UserID).
		OrderExpr("t.name COLLATE NOCASE ASC").
		Order("t.id ASC")

	if opts.Search != nil {
		if search := strings.TrimSpace(*opts.Search); search != "" {
			q = q.Where("t.name LIKE ? ESCAPE '\\'", "%"+escapeLike(search)+"%")
		}
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return tags, total, nil
}

// ListFiles returns the owner's live files that carry the tag, newest first.
func (svc *Service) ListFiles(ctx context.Context, userID, tagID int) ([]*models.File, error) {
	files := []*models.File{}

	err := svc.db.NewSelect().
		Model(&files).
		Relation("Tags.Tag").
		Where("f.user_id = ?", userID).
		Where("f.deleted_at IS NULL").
		Where("f.id IN (SELECT file_id FROM file_tags WHERE tag_id = ?)", tagID).
		Order("f.created_at DESC", "f.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return files, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
