package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    int       `bun:",nullzero" json:"userId"`
	Name      string    `bun:",nullzero" json:"name"`
	Color     string    `bun:",nullzero" json:"color"`
	FileCount int       `bun:",scanonly" json:"fileCount"`
}

type FileTag struct {
	bun.BaseModel `bun:"table:file_tags,alias:ft"`

	ID     int  `bun:",pk,nullzero" json:"id"`
	FileID int  `bun:",nullzero" json:"fileId"`
	TagID  int  `bun:",nullzero" json:"tagId"`
	Tag    *Tag `bun:"rel:belongs-to,join:tag_id=id" json:"tag,omitempty"`
}
