package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shishobooks/cabinet/pkg/errcodes"
	"github.com/shishobooks/cabinet/pkg/filekind"
)

const dateLayout = "2006-01-02"

// Normalize turns raw request parameters into a Descriptor. It only fails for
// structurally malformed numeric input (page, limit, sizes, tag and folder
// ids). Bad enum values and unparseable dates fall back to "no constraint",
// and an inverted size or date range is swapped.
func Normalize(params url.Values) (*Descriptor, error) {
	d := &Descriptor{
		SortBy:    SortRelevance,
		SortOrder: SortDesc,
		Page:      DefaultPage,
		Limit:     DefaultLimit,
	}

	d.Query = strings.TrimSpace(params.Get("q"))
	d.Terms = Tokenize(d.Query)

	if kind := strings.ToLower(strings.TrimSpace(params.Get("type"))); filekind.IsFilterable(kind) {
		d.Kind = &KindFacet{Kind: kind}
	}

	folder, err := parseFolder(params.Get("folderId"))
	if err != nil {
		return nil, err
	}
	d.Folder = folder

	tags, err := parseTags(params["tags"])
	if err != nil {
		return nil, err
	}
	d.Tags = tags

	size, err := parseSize(params.Get("minSize"), params.Get("maxSize"))
	if err != nil {
		return nil, err
	}
	d.Size = size

	d.Date = parseDates(params.Get("startDate"), params.Get("endDate"))

	page, err := parseInt("page", params.Get("page"))
	if err != nil {
		return nil, err
	}
	if page != nil {
		d.Page = max(*page, 1)
	}

	limit, err := parseInt("limit", params.Get("limit"))
	if err != nil {
		return nil, err
	}
	if limit != nil {
		d.Limit = min(max(*limit, 1), MaxLimit)
	}

	switch sortBy := SortKey(strings.TrimSpace(params.Get("sortBy"))); sortBy {
	case SortRelevance, SortName, SortCreatedAt, SortSize:
		d.SortBy = sortBy
	}
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(params.Get("sortOrder")))); order {
	case SortAsc, SortDesc:
		d.SortOrder = order
	}

	return d, nil
}

// Tokenize splits a free-text query on whitespace, case-folds the tokens, and
// drops duplicates while keeping first-seen order.
func Tokenize(q string) []string {
	fields := strings.Fields(strings.ToLower(q))
	terms := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

func parseInt(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errcodes.InvalidQuery(field, "must be an integer.")
	}
	return &v, nil
}

func parseSize(rawMin, rawMax string) (*SizeFacet, error) {
	parse := func(field, raw string) (*int64, error) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errcodes.InvalidQuery(field, "must be an integer number of bytes.")
		}
		v = max(v, 0)
		return &v, nil
	}

	minSize, err := parse("minSize", rawMin)
	if err != nil {
		return nil, err
	}
	maxSize, err := parse("maxSize", rawMax)
	if err != nil {
		return nil, err
	}
	if minSize == nil && maxSize == nil {
		return nil, nil
	}
	if minSize != nil && maxSize != nil && *minSize > *maxSize {
		minSize, maxSize = maxSize, minSize
	}
	return &SizeFacet{Min: minSize, Max: maxSize}, nil
}

func parseTags(raw []string) (*TagFacet, error) {
	ids := []int{}
	seen := map[int]struct{}{}
	for _, entry := range strings.Split(strings.Join(raw, ","), ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, err := strconv.Atoi(entry)
		if err != nil {
			return nil, errcodes.InvalidQuery("tags", fmt.Sprintf("%q is not a valid tag id.", entry))
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return &TagFacet{TagIDs: ids}, nil
}

func parseFolder(raw string) (*FolderFacet, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return nil, nil
	case strings.EqualFold(raw, FolderRoot):
		return &FolderFacet{}, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return nil, errcodes.InvalidQuery("folderId", `must be a folder id or "root".`)
	}
	return &FolderFacet{FolderID: &id}, nil
}

type parsedDate struct {
	t        time.Time
	dateOnly bool
}

func parseDate(raw string) *parsedDate {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return &parsedDate{t: t, dateOnly: true}
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &parsedDate{t: t}
	}
	return nil
}

// parseDates builds the creation date facet. A date-only end bound covers the
// whole day.
func parseDates(rawStart, rawEnd string) *DateFacet {
	start := parseDate(rawStart)
	end := parseDate(rawEnd)
	if start == nil && end == nil {
		return nil
	}
	if start != nil && end != nil && start.t.After(end.t) {
		start, end = end, start
	}

	facet := &DateFacet{}
	if start != nil {
		t := start.t
		facet.Start = &t
	}
	if end != nil {
		t := end.t
		if end.dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		facet.End = &t
	}
	return facet
}
