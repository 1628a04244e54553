// Package facets reduces a candidate set of files to the ones that satisfy
// every active facet of a search.
package facets

import (
	"github.com/shishobooks/cabinet/pkg/models"
	"github.com/shishobooks/cabinet/pkg/query"
)

// Apply returns the candidates that match every facet in d, in their original
// order. Facets combine with AND; the tag facet matches when a file carries
// any of the requested tags. The input slice is never modified.
func Apply(candidates []*models.File, d *query.Descriptor) []*models.File {
	active := d.Facets()
	matched := make([]*models.File, 0, len(candidates))
	for _, f := range candidates {
		if Matches(f, active) {
			matched = append(matched, f)
		}
	}
	return matched
}

// Matches reports whether f satisfies all of the given facets. A file that
// can't be evaluated against a facet doesn't match it, and a nil file matches
// nothing.
func Matches(f *models.File, active []query.Facet) bool {
	if f == nil {
		return false
	}
	for _, facet := range active {
		if !matchFacet(f, facet) {
			return false
		}
	}
	return true
}

func matchFacet(f *models.File, facet query.Facet) bool {
	switch facet := facet.(type) {
	case query.KindFacet:
		return f.Kind() == facet.Kind
	case query.FolderFacet:
		if facet.IsRoot() {
			return f.FolderID == nil
		}
		return f.FolderID != nil && *f.FolderID == *facet.FolderID
	case query.TagFacet:
		for _, id := range facet.TagIDs {
			if f.HasTag(id) {
				return true
			}
		}
		return false
	case query.SizeFacet:
		if facet.Min != nil && f.SizeBytes < *facet.Min {
			return false
		}
		if facet.Max != nil && f.SizeBytes > *facet.Max {
			return false
		}
		return true
	case query.DateFacet:
		if f.CreatedAt.IsZero() {
			return false
		}
		if facet.Start != nil && f.CreatedAt.Before(*facet.Start) {
			return false
		}
		if facet.End != nil && f.CreatedAt.After(*facet.End) {
			return false
		}
		return true
	default:
		return false
	}
}
