package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := seq(45)

	tests := []struct {
		name       string
		page       int
		limit      int
		first      int
		count      int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"first page", 1, 20, 1, 20, 3, true, false},
		{"middle page", 2, 20, 21, 20, 3, true, true},
		{"last partial page", 3, 20, 41, 5, 3, false, true},
		{"past the end", 4, 20, 0, 0, 3, false, true},
		{"far past the end", math.MaxInt, 100, 0, 0, 1, false, true},
		{"single item pages", 45, 1, 45, 1, 45, false, true},
		{"one page holds everything", 1, 100, 1, 45, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := Paginate(items, tt.page, tt.limit)
			assert.Equal(t, 45, p.Total)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, tt.hasNext, p.HasNext)
			assert.Equal(t, tt.hasPrev, p.HasPrev)
			assert.Len(t, p.Items, tt.count)
			if tt.count > 0 {
				assert.Equal(t, tt.first, p.Items[0])
			}
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	t.Parallel()

	p := Paginate([]string{}, 1, 20)
	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)

	p = Paginate[string](nil, 1, 20)
	assert.NotNil(t, p.Items)
}

func TestPaginate_ClampsInvalidInput(t *testing.T) {
	t.Parallel()

	p := Paginate(seq(3), 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.Limit)
	assert.Equal(t, []int{1}, p.Items)
	assert.Equal(t, 3, p.TotalPages)
}

func TestPaginate_PagesCoverEverythingOnce(t *testing.T) {
	t.Parallel()

	items := seq(37)
	for _, limit := range []int{1, 5, 10, 36, 37, 100} {
		seen := []int{}
		first := Paginate(items, 1, limit)
		for page := 1; page <= first.TotalPages; page++ {
			seen = append(seen, Paginate(items, page, limit).Items...)
		}
		assert.Equal(t, items, seen, "limit %d", limit)
	}
}

func TestPaginate_AppendDoesNotClobberSource(t *testing.T) {
	t.Parallel()

	items := seq(10)
	p := Paginate(items, 1, 5)
	_ = append(p.Items, 99)
	assert.Equal(t, 6, items[5])
}

func TestMap(t *testing.T) {
	t.Parallel()

	p := Paginate(seq(45), 3, 20)
	doubled := Map(p, func(i int) int { return i * 2 })
	assert.Equal(t, []int{82, 84, 86, 88, 90}, doubled.Items)
	assert.Equal(t, p.Total, doubled.Total)
	assert.Equal(t, p.TotalPages, doubled.TotalPages)
	assert.Equal(t, p.HasPrev, doubled.HasPrev)
}

func TestPage_Meta(t *testing.T) {
	t.Parallel()

	meta := Paginate(seq(45), 2, 20).Meta()
	assert.Equal(t, Meta{Page: 2, Limit: 20, Total: 45, TotalPages: 3, HasNext: true, HasPrev: true}, meta)
}
