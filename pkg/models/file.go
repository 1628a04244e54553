package models

import (
	"time"

	"github.com/shishobooks/cabinet/pkg/filekind"
	"github.com/uptrace/bun"
)

type File struct {
	bun.BaseModel `bun:"table:files,alias:f"`

	ID          int        `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	UserID      int        `bun:",nullzero" json:"userId"`
	FolderID    *int       `json:"folderId"`
	Name        string     `bun:",nullzero" json:"name"`
	Filename    string     `bun:",nullzero" json:"filename"`
	MimeType    string     `bun:",nullzero" json:"mimeType"`
	SizeBytes   int64      `json:"sizeBytes"`
	Description *string    `json:"description"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	Tags        []*FileTag `bun:"rel:has-many,join:id=file_id" json:"tags,omitempty"`
}

// Kind returns the mime-derived kind of the file (image, video, document, or
// other).
func (f *File) Kind() string {
	return filekind.Of(f.MimeType, f.Filename)
}

// IsDeleted reports whether the file carries the soft-delete marker.
func (f *File) IsDeleted() bool {
	return f.DeletedAt != nil
}

// HasTag reports whether the file is associated with the given tag.
func (f *File) HasTag(tagID int) bool {
	for _, ft := range f.Tags {
		if ft != nil && ft.TagID == tagID {
			return true
		}
	}
	return false
}

// TagNames returns the names of the loaded tags. Associations whose tag wasn't
// loaded are skipped.
func (f *File) TagNames() []string {
	names := make([]string, 0, len(f.Tags))
	for _, ft := range f.Tags {
		if ft == nil || ft.Tag == nil {
			continue
		}
		names = append(names, ft.Tag.Name)
	}
	return names
}
