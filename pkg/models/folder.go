package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Folder struct {
	bun.BaseModel `bun:"table:folders,alias:fo"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    int       `bun:",nullzero" json:"userId"`
	ParentID  *int      `json:"parentId"`
	Name      string    `bun:",nullzero" json:"name"`
	FileCount int       `bun:",scanonly" json:"fileCount"`
}
