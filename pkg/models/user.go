package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the owner of folders, files, and tags. Credentials and roles live
// with the service that issues tokens; only the identity is stored here.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Username  string    `bun:",nullzero" json:"username"`
}
