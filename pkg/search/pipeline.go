package search

import (
	"github.com/shishobooks/cabinet/pkg/facets"
	"github.com/shishobooks/cabinet/pkg/filekind"
	"github.com/shishobooks/cabinet/pkg/highlight"
	"github.com/shishobooks/cabinet/pkg/models"
	"github.com/shishobooks/cabinet/pkg/pagination"
	"github.com/shishobooks/cabinet/pkg/query"
	"github.com/shishobooks/cabinet/pkg/ranking"
)

// Pipeline turns a candidate snapshot and a normalized descriptor into a
// response. It keeps no state between runs and never modifies the candidates,
// so one Pipeline and one snapshot can serve several runs at once.
type Pipeline struct {
	Weights     ranking.Weights
	Highlighter *highlight.Highlighter
}

func NewPipeline(weights ranking.Weights, highlighter *highlight.Highlighter) *Pipeline {
	if highlighter == nil {
		highlighter = highlight.New("", "")
	}
	return &Pipeline{Weights: weights, Highlighter: highlighter}
}

// Run filters, ranks, and pages the candidates. Soft-deleted files are
// dropped before anything else, and a non-empty query keeps only files hit by
// at least one of its terms. Highlighting is done for the returned page only.
func (p *Pipeline) Run(candidates []*models.File, d *query.Descriptor) *Response {
	live := make([]*models.File, 0, len(candidates))
	for _, f := range candidates {
		if f != nil && !f.IsDeleted() && ranking.Matches(f, d.Terms) {
			live = append(live, f)
		}
	}

	filtered := facets.Apply(live, d)
	ranked := ranking.Rank(filtered, d, p.Weights)
	page := pagination.Paginate(ranked, d.Page, d.Limit)
	results := pagination.Map(page, func(s ranking.Scored) Result {
		return p.result(s, d.Terms)
	})

	return &Response{
		Query:      d.Query,
		Results:    results.Items,
		Pagination: results.Meta(),
		Filters:    d.Filters(),
	}
}

func (p *Pipeline) result(s ranking.Scored, terms []string) Result {
	f := s.File
	kind := f.Kind()

	tags := make([]TagSummary, 0, len(f.Tags))
	for _, ft := range f.Tags {
		if ft == nil || ft.Tag == nil {
			continue
		}
		tags = append(tags, TagSummary{ID: ft.Tag.ID, Name: ft.Tag.Name, Color: ft.Tag.Color})
	}

	return Result{
		ID:                     f.ID,
		Name:                   f.Name,
		Filename:               f.Filename,
		Description:            f.Description,
		MimeType:               f.MimeType,
		Kind:                   kind,
		IsImage:                kind == filekind.Image,
		IsVideo:                kind == filekind.Video,
		IsDocument:             kind == filekind.Document,
		SizeBytes:              f.SizeBytes,
		FolderID:               f.FolderID,
		CreatedAt:              f.CreatedAt,
		UpdatedAt:              f.UpdatedAt,
		Tags:                   tags,
		RelevanceScore:         s.Score,
		HighlightedName:        p.Highlighter.Highlight(terms, f.Name),
		HighlightedDescription: p.Highlighter.HighlightPtr(terms, f.Description),
	}
}
