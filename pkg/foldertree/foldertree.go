// Package foldertree resolves ancestor paths and nested subtrees over an
// immutable snapshot of an owner's folders.
package foldertree

import (
	"sort"
	"strings"

	"github.com/shishobooks/cabinet/pkg/errcodes"
	"github.com/shishobooks/cabinet/pkg/models"
)

// DefaultMaxDepth bounds every walk through the hierarchy.
const DefaultMaxDepth = 64

// Crumb is one entry of a breadcrumb path.
type Crumb struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TreeItem is a folder with its nested children.
type TreeItem struct {
	ID               int         `json:"id"`
	Name             string      `json:"name"`
	ParentID         *int        `json:"parentId"`
	FileCount        int         `json:"fileCount"`
	ChildFolderCount int         `json:"childFolderCount"`
	Children         []*TreeItem `json:"children"`
}

// Arena indexes folders by id and by parent. It is never modified after New
// returns, so one Arena can be shared between goroutines.
type Arena struct {
	folders  map[int]*models.Folder
	children map[int][]int
	roots    map[int][]int
	maxDepth int
}

// New builds an Arena from folder rows. Rows are copied, so the caller may
// reuse the slice. A maxDepth below 1 falls back to DefaultMaxDepth.
func New(folders []*models.Folder, maxDepth int) *Arena {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}

	a := &Arena{
		folders:  make(map[int]*models.Folder, len(folders)),
		children: map[int][]int{},
		roots:    map[int][]int{},
		maxDepth: maxDepth,
	}

	for _, f := range folders {
		if f == nil {
			continue
		}
		cp := *f
		if cp.ParentID != nil {
			parentID := *cp.ParentID
			cp.ParentID = &parentID
		}
		a.folders[cp.ID] = &cp
	}

	for id, f := range a.folders {
		if f.ParentID == nil {
			a.roots[f.UserID] = append(a.roots[f.UserID], id)
			continue
		}
		a.children[*f.ParentID] = append(a.children[*f.ParentID], id)
	}
	for parentID := range a.children {
		a.sortIDs(a.children[parentID])
	}
	for ownerID := range a.roots {
		a.sortIDs(a.roots[ownerID])
	}

	return a
}

// Len returns the number of folders in the arena.
func (a *Arena) Len() int {
	return len(a.folders)
}

// Get returns the folder with the given id if it's owned by ownerID.
func (a *Arena) Get(id, ownerID int) (*models.Folder, bool) {
	f, ok := a.folders[id]
	if !ok || f.UserID != ownerID {
		return nil, false
	}
	return f, true
}

// Breadcrumb returns the path from the top-level ancestor down to and
// including the folder itself.
func (a *Arena) Breadcrumb(id, ownerID int) ([]Crumb, error) {
	current, ok := a.Get(id, ownerID)
	if !ok {
		return nil, errcodes.NotFound("Folder")
	}

	visited := map[int]struct{}{}
	path := []Crumb{}
	for {
		if _, seen := visited[current.ID]; seen || len(path) >= a.maxDepth {
			return nil, errcodes.CycleDetected(id)
		}
		visited[current.ID] = struct{}{}
		path = append(path, Crumb{ID: current.ID, Name: current.Name})

		if current.ParentID == nil {
			break
		}
		parent, ok := a.Get(*current.ParentID, ownerID)
		if !ok {
			return nil, errcodes.InconsistentTree(current.ID, *current.ParentID)
		}
		current = parent
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// Tree returns the nested subtree under rootID, as a single-element list. A
// nil rootID returns every top-level folder of the owner with its subtree, and
// fails if any of the owner's folders is left out of that forest.
func (a *Arena) Tree(rootID *int, ownerID int) ([]*TreeItem, error) {
	var ids []int
	if rootID == nil {
		ids = a.roots[ownerID]
	} else {
		if _, ok := a.Get(*rootID, ownerID); !ok {
			return nil, errcodes.NotFound("Folder")
		}
		ids = []int{*rootID}
	}

	visited := map[int]struct{}{}
	items := make([]*TreeItem, 0, len(ids))
	for _, id := range ids {
		item, err := a.build(id, ownerID, 1, visited)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if rootID == nil {
		if err := a.checkUnreachable(ownerID, visited); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// checkUnreachable fails when some of the owner's folders can't be reached
// from a top-level folder, which only happens when their ancestors loop or
// point at a missing parent. The smallest such id is reported.
func (a *Arena) checkUnreachable(ownerID int, visited map[int]struct{}) error {
	unreachable := []int{}
	for id, f := range a.folders {
		if _, ok := visited[id]; !ok && f.UserID == ownerID {
			unreachable = append(unreachable, id)
		}
	}
	if len(unreachable) == 0 {
		return nil
	}
	sort.Ints(unreachable)

	id := unreachable[0]
	if _, err := a.Breadcrumb(id, ownerID); err != nil {
		return err
	}
	return errcodes.CycleDetected(id)
}

func (a *Arena) build(id, ownerID, depth int, visited map[int]struct{}) (*TreeItem, error) {
	if _, seen := visited[id]; seen || depth > a.maxDepth {
		return nil, errcodes.CycleDetected(id)
	}
	visited[id] = struct{}{}

	f := a.folders[id]
	childIDs := a.ownedChildren(id, ownerID)
	item := &TreeItem{
		ID:               f.ID,
		Name:             f.Name,
		ParentID:         f.ParentID,
		FileCount:        f.FileCount,
		ChildFolderCount: len(childIDs),
		Children:         make([]*TreeItem, 0, len(childIDs)),
	}
	for _, childID := range childIDs {
		child, err := a.build(childID, ownerID, depth+1, visited)
		if err != nil {
			return nil, err
		}
		item.Children = append(item.Children, child)
	}
	return item, nil
}

func (a *Arena) ownedChildren(parentID, ownerID int) []int {
	all := a.children[parentID]
	out := make([]int, 0, len(all))
	for _, id := range all {
		if a.folders[id].UserID == ownerID {
			out = append(out, id)
		}
	}
	return out
}

// sortIDs orders sibling folders by case-folded name, then id.
func (a *Arena) sortIDs(ids []int) {
	sort.Slice(ids, func(i, j int) bool {
		ni := strings.ToLower(a.folders[ids[i]].Name)
		nj := strings.ToLower(a.folders[ids[j]].Name)
		if ni != nj {
			return ni < nj
		}
		return ids[i] < ids[j]
	})
}
