package search

import (
	"time"

	"github.com/shishobooks/cabinet/pkg/pagination"
	"github.com/shishobooks/cabinet/pkg/query"
)

// MaxBatchQueries is the most queries a single batch request may carry.
const MaxBatchQueries = 10

// BatchSearchPayload is the body of a batch search. Each entry holds the same
// parameters a single search takes in its query string.
type BatchSearchPayload struct {
	Queries []map[string]any `json:"queries" validate:"required,min=1,max=10"`
}

type TagSummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Result is one ranked file in a search response.
type Result struct {
	ID                     int          `json:"id"`
	Name                   string       `json:"name"`
	Filename               string       `json:"filename"`
	Description            *string      `json:"description"`
	MimeType               string       `json:"mimeType"`
	Kind                   string       `json:"kind"`
	IsImage                bool         `json:"isImage"`
	IsVideo                bool         `json:"isVideo"`
	IsDocument             bool         `json:"isDocument"`
	SizeBytes              int64        `json:"sizeBytes"`
	FolderID               *int         `json:"folderId"`
	CreatedAt              time.Time    `json:"createdAt"`
	UpdatedAt              time.Time    `json:"updatedAt"`
	Tags                   []TagSummary `json:"tags"`
	RelevanceScore         float64      `json:"relevanceScore"`
	HighlightedName        string       `json:"highlightedName"`
	HighlightedDescription *string      `json:"highlightedDescription"`
}

// Response is the envelope returned for a search.
type Response struct {
	Query      string          `json:"query"`
	Results    []Result        `json:"results"`
	Pagination pagination.Meta `json:"pagination"`
	Filters    query.Filters   `json:"filters"`
}

type BatchResponse struct {
	BatchID   string      `json:"batchId"`
	Responses []*Response `json:"responses"`
}
