// Package ranking scores search candidates against free-text terms and puts
// them in a total, reproducible order.
package ranking

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/shishobooks/cabinet/pkg/models"
	"github.com/shishobooks/cabinet/pkg/query"
)

// Weights are the per-term points for each kind of hit. ExactName must be
// greater than NameSubstring, which must be greater than Description.
type Weights struct {
	ExactName     float64 `json:"exactName"`
	NameSubstring float64 `json:"nameSubstring"`
	Description   float64 `json:"description"`
	Tag           float64 `json:"tag"`
}

var DefaultWeights = Weights{
	ExactName:     10,
	NameSubstring: 5,
	Description:   3,
	Tag:           2,
}

// Validate checks that the weights are non-negative and keep exact name
// matches above name substrings above description-only matches.
func (w Weights) Validate() error {
	if w.ExactName < 0 || w.NameSubstring < 0 || w.Description < 0 || w.Tag < 0 {
		return errors.New("ranking weights can't be negative")
	}
	if w.ExactName <= w.NameSubstring || w.NameSubstring <= w.Description {
		return errors.New("ranking weights must satisfy exact name > name substring > description")
	}
	return nil
}

// Scored is a candidate with its relevance score.
type Scored struct {
	File  *models.File
	Score float64
}

// Score returns the relevance of f for the given (already case-folded) terms.
// Each term adds ExactName when it equals the whole name, filename, or
// filename without extension, and NameSubstring when it only appears inside
// one of them. Description and tag name hits add on top of that.
func Score(f *models.File, terms []string, w Weights) float64 {
	if f == nil || len(terms) == 0 {
		return 0
	}

	name := strings.ToLower(f.Name)
	filename := strings.ToLower(f.Filename)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	description := ""
	if f.Description != nil {
		description = strings.ToLower(*f.Description)
	}
	tagNames := f.TagNames()
	for i := range tagNames {
		tagNames[i] = strings.ToLower(tagNames[i])
	}

	score := 0.0
	for _, term := range terms {
		if term == "" {
			continue
		}
		switch {
		case term == name || term == filename || term == stem:
			score += w.ExactName
		case strings.Contains(name, term) || strings.Contains(filename, term):
			score += w.NameSubstring
		}
		if strings.Contains(description, term) {
			score += w.Description
		}
		for _, tagName := range tagNames {
			if strings.Contains(tagName, term) {
				score += w.Tag
				break
			}
		}
	}
	return score
}

var hitWeights = Weights{ExactName: 1, NameSubstring: 1, Description: 1, Tag: 1}

// Matches reports whether at least one of the terms hits the name, filename,
// description, or a tag name of f. With no terms every file matches.
func Matches(f *models.File, terms []string) bool {
	if f == nil {
		return false
	}
	for _, term := range terms {
		if term != "" {
			return Score(f, terms, hitWeights) > 0
		}
	}
	return true
}

// Rank orders the candidates for d. Scores are only computed when sorting by
// relevance; other sort keys leave every score at 0. Ties on the primary key
// are broken by creation time (newest first) and then by id. The input slice
// is left untouched and nil entries are skipped.
func Rank(files []*models.File, d *query.Descriptor, w Weights) []Scored {
	scored := make([]Scored, 0, len(files))
	for _, f := range files {
		if f == nil {
			continue
		}
		s := Scored{File: f}
		if d.SortBy == query.SortRelevance {
			s.Score = Score(f, d.Terms, w)
		}
		scored = append(scored, s)
	}

	slices.SortStableFunc(scored, func(a, b Scored) int {
		if c := comparePrimary(a, b, d); c != 0 {
			return c
		}
		if c := b.File.CreatedAt.Compare(a.File.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.File.ID, b.File.ID)
	})

	return scored
}

func comparePrimary(a, b Scored, d *query.Descriptor) int {
	var c int
	switch d.SortBy {
	case query.SortRelevance:
		// Relevance is always highest first.
		return cmp.Compare(b.Score, a.Score)
	case query.SortName:
		c = strings.Compare(strings.ToLower(a.File.Name), strings.ToLower(b.File.Name))
	case query.SortCreatedAt:
		c = a.File.CreatedAt.Compare(b.File.CreatedAt)
	case query.SortSize:
		c = cmp.Compare(a.File.SizeBytes, b.File.SizeBytes)
	}
	if d.SortOrder == query.SortDesc {
		c = -c
	}
	return c
}
