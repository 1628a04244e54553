package foldertree

import (
	"errors"
	"testing"

	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shishobooks/cabinet/internal/testgen"
	"github.com/shishobooks/cabinet/pkg/errcodes"
	"github.com/shishobooks/cabinet/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = 1

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var e *errcodes.Error
	require.True(t, errors.As(err, &e), "expected errcodes.Error, got %T", err)
	assert.Equal(t, code, e.Code)
}

// sampleFolders is A -> B -> C plus a sibling D under A and a second root E.
func sampleFolders() []*models.Folder {
	a := testgen.NewFolder(1, owner, nil, "Archive")
	b := testgen.NewFolder(2, owner, pointerutil.Int(1), "Budget")
	c := testgen.NewFolder(3, owner, pointerutil.Int(2), "Current")
	d := testgen.NewFolder(4, owner, pointerutil.Int(1), "attachments")
	e := testgen.NewFolder(5, owner, nil, "Drafts")
	b.FileCount = 7
	return []*models.Folder{c, e, a, d, b}
}

func TestBreadcrumb(t *testing.T) {
	t.Parallel()

	arena := New(sampleFolders(), 0)

	path, err := arena.Breadcrumb(3, owner)
	require.NoError(t, err)
	assert.Equal(t, []Crumb{
		{ID: 1, Name: "Archive"},
		{ID: 2, Name: "Budget"},
		{ID: 3, Name: "Current"},
	}, path)

	path, err = arena.Breadcrumb(1, owner)
	require.NoError(t, err)
	assert.Equal(t, []Crumb{{ID: 1, Name: "Archive"}}, path)
}

func TestBreadcrumb_NotFound(t *testing.T) {
	t.Parallel()

	arena := New(sampleFolders(), 0)

	_, err := arena.Breadcrumb(99, owner)
	requireCode(t, err, "not_found")

	_, err = arena.Breadcrumb(3, owner+1)
	requireCode(t, err, "not_found")
}

func TestBreadcrumb_Cycle(t *testing.T) {
	t.Parallel()

	folders := []*models.Folder{
		testgen.NewFolder(1, owner, pointerutil.Int(3), "A"),
		testgen.NewFolder(2, owner, pointerutil.Int(1), "B"),
		testgen.NewFolder(3, owner, pointerutil.Int(2), "C"),
		testgen.NewFolder(4, owner, pointerutil.Int(4), "Self"),
	}
	arena := New(folders, 0)

	_, err := arena.Breadcrumb(2, owner)
	requireCode(t, err, "cycle_detected")

	_, err = arena.Breadcrumb(4, owner)
	requireCode(t, err, "cycle_detected")
}

func TestBreadcrumb_DepthGuard(t *testing.T) {
	t.Parallel()

	folders := []*models.Folder{testgen.NewFolder(1, owner, nil, "f1")}
	for id := 2; id <= 5; id++ {
		folders = append(folders, testgen.NewFolder(id, owner, pointerutil.Int(id-1), "f"))
	}
	arena := New(folders, 3)

	path, err := arena.Breadcrumb(3, owner)
	require.NoError(t, err)
	assert.Len(t, path, 3)

	_, err = arena.Breadcrumb(5, owner)
	requireCode(t, err, "cycle_detected")
}

func TestBreadcrumb_DanglingParent(t *testing.T) {
	t.Parallel()

	folders := []*models.Folder{
		testgen.NewFolder(1, owner, pointerutil.Int(42), "Orphan"),
		testgen.NewFolder(2, owner, pointerutil.Int(1), "Child"),
		// parent exists but belongs to someone else
		testgen.NewFolder(3, owner+1, nil, "Theirs"),
		testgen.NewFolder(4, owner, pointerutil.Int(3), "Mine"),
	}
	arena := New(folders, 0)

	_, err := arena.Breadcrumb(2, owner)
	requireCode(t, err, "inconsistent_tree")

	_, err = arena.Breadcrumb(4, owner)
	requireCode(t, err, "inconsistent_tree")
}

func TestBreadcrumb_NeverRepeatsIDs(t *testing.T) {
	t.Parallel()

	arena := New(sampleFolders(), 0)
	for _, id := range []int{1, 2, 3, 4, 5} {
		path, err := arena.Breadcrumb(id, owner)
		require.NoError(t, err)
		seen := map[int]bool{}
		for _, c := range path {
			assert.False(t, seen[c.ID], "folder %d repeated in path for %d", c.ID, id)
			seen[c.ID] = true
		}
		assert.Equal(t, id, path[len(path)-1].ID)
	}
}

func TestTree_Forest(t *testing.T) {
	t.Parallel()

	arena := New(sampleFolders(), 0)

	items, err := arena.Tree(nil, owner)
	require.NoError(t, err)
	require.Len(t, items, 2)

	archive := items[0]
	assert.Equal(t, 1, archive.ID)
	assert.Equal(t, 2, archive.ChildFolderCount)
	require.Len(t, archive.Children, 2)
	// case-folded name order: "attachments" before "Budget"
	assert.Equal(t, 4, archive.Children[0].ID)
	assert.Equal(t, 2, archive.Children[1].ID)

	budget := archive.Children[1]
	assert.Equal(t, 7, budget.FileCount)
	assert.Equal(t, 1, budget.ChildFolderCount)
	require.Len(t, budget.Children, 1)
	assert.Equal(t, 3, budget.Children[0].ID)
	assert.Empty(t, budget.Children[0].Children)
	assert.NotNil(t, budget.Children[0].Children)

	assert.Equal(t, 5, items[1].ID)
}

func TestTree_Subtree(t *testing.T) {
	t.Parallel()

	arena := New(sampleFolders(), 0)

	items, err := arena.Tree(pointerutil.Int(2), owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ID)
	require.Len(t, items[0].Children, 1)

	_, err = arena.Tree(pointerutil.Int(2), owner+1)
	requireCode(t, err, "not_found")

	items, err = arena.Tree(nil, owner+1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTree_Cycle(t *testing.T) {
	t.Parallel()

	folders := []*models.Folder{
		testgen.NewFolder(1, owner, pointerutil.Int(2), "A"),
		testgen.NewFolder(2, owner, pointerutil.Int(1), "B"),
	}
	arena := New(folders, 0)

	_, err := arena.Tree(pointerutil.Int(1), owner)
	requireCode(t, err, "cycle_detected")
}

func TestTree_ForestWithOrphanCycle(t *testing.T) {
	t.Parallel()

	folders := []*models.Folder{
		testgen.NewFolder(1, owner, nil, "Root"),
		testgen.NewFolder(2, owner, pointerutil.Int(3), "X"),
		testgen.NewFolder(3, owner, pointerutil.Int(2), "Y"),
	}
	arena := New(folders, 0)

	_, err := arena.Tree(nil, owner)
	requireCode(t, err, "cycle_detected")

	// The subtree of an unaffected folder still resolves.
	items, err := arena.Tree(pointerutil.Int(1), owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].ID)
}

func TestTree_ForestWithDanglingParent(t *testing.T) {
	t.Parallel()

	folders := []*models.Folder{
		testgen.NewFolder(1, owner, nil, "Root"),
		testgen.NewFolder(2, owner, pointerutil.Int(42), "Orphan"),
		testgen.NewFolder(3, owner+1, nil, "Theirs"),
	}
	arena := New(folders, 0)

	_, err := arena.Tree(nil, owner)
	requireCode(t, err, "inconsistent_tree")

	// Other owners' forests aren't affected.
	items, err := arena.Tree(nil, owner+1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].ID)
}

func TestTree_DepthGuard(t *testing.T) {
	t.Parallel()

	folders := []*models.Folder{testgen.NewFolder(1, owner, nil, "f1")}
	for id := 2; id <= 5; id++ {
		folders = append(folders, testgen.NewFolder(id, owner, pointerutil.Int(id-1), "f"))
	}

	_, err := New(folders, 3).Tree(nil, owner)
	requireCode(t, err, "cycle_detected")

	_, err = New(folders, 3).Tree(pointerutil.Int(1), owner)
	requireCode(t, err, "cycle_detected")

	// Three levels below the root fit.
	items, err := New(folders, 3).Tree(pointerutil.Int(3), owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Children[0].Children[0].ID)

	items, err = New(folders, 5).Tree(nil, owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestTree_SiblingTieBreaksOnID(t *testing.T) {
	t.Parallel()

	folders := []*models.Folder{
		testgen.NewFolder(9, owner, nil, "same"),
		testgen.NewFolder(3, owner, nil, "Same"),
	}
	items, err := New(folders, 0).Tree(nil, owner)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].ID)
	assert.Equal(t, 9, items[1].ID)
}

func TestNew_CopiesRows(t *testing.T) {
	t.Parallel()

	folders := sampleFolders()
	arena := New(folders, 0)
	folders[0].Name = "changed"

	f, ok := arena.Get(3, owner)
	require.True(t, ok)
	assert.Equal(t, "Current", f.Name)
	assert.Equal(t, 5, arena.Len())
}
