package query

import (
	"strconv"
	"time"
)

type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortName      SortKey = "name"
	SortCreatedAt SortKey = "createdAt"
	SortSize      SortKey = "size"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	// TypeAll is the kind filter value that disables the kind facet.
	TypeAll = "all"
	// FolderRoot is the folderId value that scopes a search to root-level
	// files.
	FolderRoot = "root"
)

// Descriptor is a normalized search request. Only facets that are set take
// part in filtering.
type Descriptor struct {
	Query     string
	Terms     []string
	Kind      *KindFacet
	Folder    *FolderFacet
	Tags      *TagFacet
	Size      *SizeFacet
	Date      *DateFacet
	SortBy    SortKey
	SortOrder SortOrder
	Page      int
	Limit     int
}

// Facets returns the active facets in a fixed order.
func (d *Descriptor) Facets() []Facet {
	facets := []Facet{}
	if d.Kind != nil {
		facets = append(facets, *d.Kind)
	}
	if d.Folder != nil {
		facets = append(facets, *d.Folder)
	}
	if d.Tags != nil {
		facets = append(facets, *d.Tags)
	}
	if d.Size != nil {
		facets = append(facets, *d.Size)
	}
	if d.Date != nil {
		facets = append(facets, *d.Date)
	}
	return facets
}

// Filters is the JSON echo of the effective descriptor.
type Filters struct {
	Query     string     `json:"q"`
	Type      string     `json:"type"`
	FolderID  *string    `json:"folderId"`
	Tags      []int      `json:"tags"`
	MinSize   *int64     `json:"minSize"`
	MaxSize   *int64     `json:"maxSize"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	SortBy    SortKey    `json:"sortBy"`
	SortOrder SortOrder  `json:"sortOrder"`
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
}

// Filters returns the response echo of the descriptor.
func (d *Descriptor) Filters() Filters {
	f := Filters{
		Query:     d.Query,
		Type:      TypeAll,
		Tags:      []int{},
		SortBy:    d.SortBy,
		SortOrder: d.SortOrder,
		Page:      d.Page,
		Limit:     d.Limit,
	}
	if d.Kind != nil {
		f.Type = d.Kind.Kind
	}
	if d.Folder != nil {
		folder := FolderRoot
		if d.Folder.FolderID != nil {
			folder = strconv.Itoa(*d.Folder.FolderID)
		}
		f.FolderID = &folder
	}
	if d.Tags != nil {
		f.Tags = append(f.Tags, d.Tags.TagIDs...)
	}
	if d.Size != nil {
		f.MinSize = d.Size.Min
		f.MaxSize = d.Size.Max
	}
	if d.Date != nil {
		f.StartDate = d.Date.Start
		f.EndDate = d.Date.End
	}
	return f
}
