package query

import "time"

// Facet is one independent filter dimension of a search. The set of facet
// kinds is closed; the filter engine switches over them exhaustively.
type Facet interface {
	isFacet()
}

// KindFacet restricts results to a single mime-derived kind.
type KindFacet struct {
	Kind string
}

// FolderFacet restricts results to files directly inside one folder. A nil
// FolderID means root-level files (files without a folder).
type FolderFacet struct {
	FolderID *int
}

// TagFacet matches files that carry any of the listed tags.
type TagFacet struct {
	TagIDs []int
}

// SizeFacet is an inclusive byte range. A nil bound is unconstrained.
type SizeFacet struct {
	Min *int64
	Max *int64
}

// DateFacet is an inclusive creation-time range. A nil bound is
// unconstrained.
type DateFacet struct {
	Start *time.Time
	End   *time.Time
}

func (KindFacet) isFacet()   {}
func (FolderFacet) isFacet() {}
func (TagFacet) isFacet()    {}
func (SizeFacet) isFacet()   {}
func (DateFacet) isFacet()   {}

// IsRoot reports whether the facet scopes to root-level files.
func (f FolderFacet) IsRoot() bool {
	return f.FolderID == nil
}
