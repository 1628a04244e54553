// Package testgen builds folder, file, and tag fixtures for tests, either as
// plain structs for the pure search packages or as rows in a test database.
package testgen

import (
	"time"

	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shishobooks/cabinet/pkg/models"
)

// BaseTime is the creation time given to fixtures that don't set one.
var BaseTime = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

// FileOptions configures a generated file.
type FileOptions struct {
	ID          int
	UserID      int
	FolderID    *int
	Name        string
	Filename    string // defaults to Name
	MimeType    string // defaults to "application/octet-stream"
	SizeBytes   int64
	Description string // empty means no description
	CreatedAt   time.Time
	Deleted     bool
	Tags        []*models.Tag
}

// NewFile returns a file built from opts. Tags are attached as loaded
// associations, the same shape the search service reads from the database.
func NewFile(opts FileOptions) *models.File {
	if opts.Filename == "" {
		opts.Filename = opts.Name
	}
	if opts.MimeType == "" {
		opts.MimeType = "application/octet-stream"
	}
	if opts.CreatedAt.IsZero() {
		opts.CreatedAt = BaseTime
	}

	f := &models.File{
		ID:        opts.ID,
		CreatedAt: opts.CreatedAt,
		UpdatedAt: opts.CreatedAt,
		UserID:    opts.UserID,
		FolderID:  opts.FolderID,
		Name:      opts.Name,
		Filename:  opts.Filename,
		MimeType:  opts.MimeType,
		SizeBytes: opts.SizeBytes,
	}
	if opts.Description != "" {
		f.Description = pointerutil.String(opts.Description)
	}
	if opts.Deleted {
		deletedAt := opts.CreatedAt.Add(time.Hour)
		f.DeletedAt = &deletedAt
	}
	for _, tag := range opts.Tags {
		f.Tags = append(f.Tags, &models.FileTag{FileID: f.ID, TagID: tag.ID, Tag: tag})
	}
	return f
}

// NewTag returns a tag owned by userID.
func NewTag(id, userID int, name string) *models.Tag {
	return &models.Tag{
		ID:        id,
		CreatedAt: BaseTime,
		UpdatedAt: BaseTime,
		UserID:    userID,
		Name:      name,
		Color:     "#888888",
	}
}

// NewFolder returns a folder owned by userID. A nil parentID makes it a root
// folder.
func NewFolder(id, userID int, parentID *int, name string) *models.Folder {
	return &models.Folder{
		ID:        id,
		CreatedAt: BaseTime,
		UpdatedAt: BaseTime,
		UserID:    userID,
		ParentID:  parentID,
		Name:      name,
	}
}
