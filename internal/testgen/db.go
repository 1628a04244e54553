package testgen

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shishobooks/cabinet/pkg/migrations"
	"github.com/shishobooks/cabinet/pkg/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// SetupDB opens a migrated in-memory database that's closed when the test
// completes.
func SetupDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// Every connection to ":memory:" is its own database.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CreateUser inserts a user.
func CreateUser(t *testing.T, db *bun.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	_, err := db.NewInsert().Model(user).Exec(context.Background())
	require.NoError(t, err)
	return user
}

// CreateFolder inserts a folder.
func CreateFolder(t *testing.T, db *bun.DB, userID int, parentID *int, name string) *models.Folder {
	t.Helper()
	folder := NewFolder(0, userID, parentID, name)
	_, err := db.NewInsert().Model(folder).Exec(context.Background())
	require.NoError(t, err)
	return folder
}

// CreateTag inserts a tag.
func CreateTag(t *testing.T, db *bun.DB, userID int, name string) *models.Tag {
	t.Helper()
	tag := NewTag(0, userID, name)
	_, err := db.NewInsert().Model(tag).Exec(context.Background())
	require.NoError(t, err)
	return tag
}

// CreateFile inserts a file and its tag associations. opts.ID is ignored.
func CreateFile(t *testing.T, db *bun.DB, opts FileOptions) *models.File {
	t.Helper()
	ctx := context.Background()

	opts.ID = 0
	file := NewFile(opts)
	tags := file.Tags
	file.Tags = nil

	_, err := db.NewInsert().Model(file).Exec(ctx)
	require.NoError(t, err)

	for _, ft := range tags {
		ft.FileID = file.ID
		_, err := db.NewInsert().Model(ft).Exec(ctx)
		require.NoError(t, err)
	}
	file.Tags = tags
	return file
}
