package search

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/shishobooks/cabinet/internal/testgen"
	"github.com/shishobooks/cabinet/pkg/highlight"
	"github.com/shishobooks/cabinet/pkg/models"
	"github.com/shishobooks/cabinet/pkg/query"
	"github.com/shishobooks/cabinet/pkg/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalize(t *testing.T, params url.Values) *query.Descriptor {
	t.Helper()
	d, err := query.Normalize(params)
	require.NoError(t, err)
	return d
}

func newPipeline() *Pipeline {
	return NewPipeline(ranking.DefaultWeights, highlight.New("", ""))
}

func TestRun_PagesAfterFiltering(t *testing.T) {
	t.Parallel()

	files := []*models.File{}
	for i := 1; i <= 45; i++ {
		files = append(files, testgen.NewFile(testgen.FileOptions{
			ID:        i,
			Name:      fmt.Sprintf("invoice-%02d.pdf", i),
			MimeType:  "application/pdf",
			CreatedAt: testgen.BaseTime.Add(time.Duration(i) * time.Hour),
		}))
	}
	files = append(files, testgen.NewFile(testgen.FileOptions{ID: 100, Name: "holiday.png", MimeType: "image/png"}))

	resp := newPipeline().Run(files, normalize(t, url.Values{
		"q":     {"invoice"},
		"page":  {"3"},
		"limit": {"20"},
	}))

	assert.Equal(t, "invoice", resp.Query)
	assert.Len(t, resp.Results, 5)
	assert.Equal(t, 45, resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.False(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)

	// equal scores fall back to newest first
	assert.Equal(t, 5, resp.Results[0].ID)
	assert.Equal(t, 1, resp.Results[4].ID)
}

func TestRun_NameMatchOutranksDescriptionMatch(t *testing.T) {
	t.Parallel()

	files := []*models.File{
		testgen.NewFile(testgen.FileOptions{ID: 1, Name: "notes.txt", Description: "see the invoice", MimeType: "text/plain"}),
		testgen.NewFile(testgen.FileOptions{ID: 2, Name: "Invoice_2024.pdf", MimeType: "application/pdf"}),
	}

	resp := newPipeline().Run(files, normalize(t, url.Values{"q": {"invoice"}}))
	require.Len(t, resp.Results, 2)

	first, second := resp.Results[0], resp.Results[1]
	assert.Equal(t, 2, first.ID)
	assert.Greater(t, first.RelevanceScore, second.RelevanceScore)
	assert.Equal(t, "<mark>Invoice</mark>_2024.pdf", first.HighlightedName)
	assert.Nil(t, first.HighlightedDescription)
	assert.True(t, first.IsDocument)
	assert.Equal(t, "document", first.Kind)

	require.NotNil(t, second.HighlightedDescription)
	assert.Equal(t, "see the <mark>invoice</mark>", *second.HighlightedDescription)
	assert.Equal(t, "notes.txt", second.HighlightedName)
}

func TestRun_EmptyQueryMatchesEverything(t *testing.T) {
	t.Parallel()

	files := []*models.File{
		testgen.NewFile(testgen.FileOptions{ID: 1, Name: "a.png", MimeType: "image/png"}),
		testgen.NewFile(testgen.FileOptions{ID: 2, Name: "b.mp4", MimeType: "video/mp4"}),
	}

	resp := newPipeline().Run(files, normalize(t, url.Values{}))
	require.Len(t, resp.Results, 2)
	for _, r := range resp.Results {
		assert.Zero(t, r.RelevanceScore)
		assert.Equal(t, r.Name, r.HighlightedName)
	}
	assert.True(t, resp.Results[0].IsImage)
	assert.True(t, resp.Results[1].IsVideo)
}

func TestRun_SkipsSoftDeleted(t *testing.T) {
	t.Parallel()

	files := []*models.File{
		testgen.NewFile(testgen.FileOptions{ID: 1, Name: "kept.txt"}),
		testgen.NewFile(testgen.FileOptions{ID: 2, Name: "gone.txt", Deleted: true}),
		nil,
	}

	resp := newPipeline().Run(files, normalize(t, url.Values{}))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 1, resp.Results[0].ID)
	assert.Equal(t, 1, resp.Pagination.Total)
}

func TestRun_NoMatchesIsEmptyPage(t *testing.T) {
	t.Parallel()

	files := []*models.File{testgen.NewFile(testgen.FileOptions{ID: 1, Name: "a.txt"})}

	resp := newPipeline().Run(files, normalize(t, url.Values{"type": {"video"}}))
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 0, resp.Pagination.Total)
	assert.Equal(t, 0, resp.Pagination.TotalPages)
	assert.False(t, resp.Pagination.HasNext)
	assert.Equal(t, "video", resp.Filters.Type)
}

func TestRun_HighlightDoesNotChangeResults(t *testing.T) {
	t.Parallel()

	tag := testgen.NewTag(7, 1, "Finance")
	files := []*models.File{
		testgen.NewFile(testgen.FileOptions{ID: 1, Name: "Q1 finance report", Description: "finance summary", Tags: []*models.Tag{tag}}),
		testgen.NewFile(testgen.FileOptions{ID: 2, Name: "budget", Tags: []*models.Tag{tag}}),
		testgen.NewFile(testgen.FileOptions{ID: 3, Name: "finance"}),
	}
	d := normalize(t, url.Values{"q": {"finance"}})

	plain := NewPipeline(ranking.DefaultWeights, highlight.New("", "")).Run(files, d)
	custom := NewPipeline(ranking.DefaultWeights, highlight.New("[", "]")).Run(files, d)

	require.Len(t, plain.Results, 3)
	require.Len(t, custom.Results, 3)
	h := highlight.New("[", "]")
	for i := range plain.Results {
		assert.Equal(t, plain.Results[i].ID, custom.Results[i].ID)
		assert.Equal(t, plain.Results[i].RelevanceScore, custom.Results[i].RelevanceScore)
		assert.Equal(t, plain.Results[i].Name, h.Strip(custom.Results[i].HighlightedName))
	}

	budget := plain.Results[2]
	assert.Equal(t, 2, budget.ID)
	assert.Equal(t, []TagSummary{{ID: 7, Name: "Finance", Color: "#888888"}}, budget.Tags)
}

func TestRun_DoesNotMutateCandidates(t *testing.T) {
	t.Parallel()

	files := []*models.File{
		testgen.NewFile(testgen.FileOptions{ID: 1, Name: "b"}),
		testgen.NewFile(testgen.FileOptions{ID: 2, Name: "a"}),
	}
	newPipeline().Run(files, normalize(t, url.Values{"sortBy": {"name"}, "sortOrder": {"asc"}}))

	assert.Equal(t, 1, files[0].ID)
	assert.Equal(t, "b", files[0].Name)
	assert.Equal(t, 2, files[1].ID)
}
