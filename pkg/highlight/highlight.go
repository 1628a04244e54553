// Package highlight marks query term occurrences in display strings.
package highlight

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

const (
	DefaultOpen  = "<mark>"
	DefaultClose = "</mark>"

	// escape precedes marker text that was already in the source, so Strip
	// can tell it apart from inserted markers.
	escape = '\\'
)

// Highlighter wraps matched spans in Open/Close markers.
type Highlighter struct {
	Open  string
	Close string
}

// New returns a Highlighter with the given markers, falling back to the
// defaults for empty ones.
func New(open, close string) *Highlighter {
	if open == "" {
		open = DefaultOpen
	}
	if close == "" {
		close = DefaultClose
	}
	return &Highlighter{Open: open, Close: close}
}

type span struct {
	start, end int // rune offsets, end exclusive
}

// Validate reports whether the markers can always be told apart from the
// text around them. A marker must not contain a backslash, overlap itself or
// the other marker, or contain the other marker.
func (h *Highlighter) Validate() error {
	for _, m := range []string{h.Open, h.Close} {
		if m == "" {
			return errors.New("highlight markers can't be empty")
		}
		if strings.ContainsRune(m, escape) {
			return errors.Errorf("highlight marker %q can't contain a backslash", m)
		}
	}
	if h.Open != h.Close && (strings.Contains(h.Open, h.Close) || strings.Contains(h.Close, h.Open)) {
		return errors.Errorf("highlight markers %q and %q can't contain each other", h.Open, h.Close)
	}
	pairs := [][2]string{{h.Open, h.Open}, {h.Close, h.Close}, {h.Open, h.Close}, {h.Close, h.Open}}
	for _, p := range pairs {
		if overlaps(p[0], p[1]) {
			return errors.Errorf("highlight marker %q can't end with the start of %q", p[0], p[1])
		}
	}
	return nil
}

// overlaps reports whether a proper suffix of a is a proper prefix of b.
func overlaps(a, b string) bool {
	for k := 1; k < len(a) && k < len(b); k++ {
		if a[len(a)-k:] == b[:k] {
			return true
		}
	}
	return false
}

// Highlight returns s with every case-insensitive occurrence of each non-empty
// term wrapped in markers. Overlapping or adjacent matches are merged into one
// span. Unmatched text and the original casing are kept as is, and s is
// returned unchanged when nothing matches and it holds no marker text.
//
// Marker text already present in s is escaped with a backslash (and
// backslashes directly before a marker are doubled) so Strip restores s
// exactly.
func (h *Highlighter) Highlight(terms []string, s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	folded := fold(runes)

	spans := []span{}
	for _, term := range terms {
		needle := fold([]rune(term))
		if len(needle) == 0 {
			continue
		}
		for i := 0; i+len(needle) <= len(folded); i++ {
			if equalAt(folded, needle, i) {
				spans = append(spans, span{i, i + len(needle)})
			}
		}
	}

	literals := h.literals(runes)
	if len(spans) == 0 && len(literals) == 0 {
		return s
	}
	if len(spans) > 0 {
		spans = merge(cover(merge(spans), literals))
	}

	var b strings.Builder
	b.Grow(len(s) + len(spans)*(len(h.Open)+len(h.Close)) + len(literals))

	pending := 0
	flush := func(beforeMarker bool, extra int) {
		n := pending
		if beforeMarker {
			n *= 2
		}
		b.WriteString(strings.Repeat(string(escape), n+extra))
		pending = 0
	}

	next, lit, open := 0, 0, false
	for i := 0; ; {
		if open && spans[next].end == i {
			flush(true, 0)
			b.WriteString(h.Close)
			open = false
			next++
			continue
		}
		if !open && next < len(spans) && spans[next].start == i {
			flush(true, 0)
			b.WriteString(h.Open)
			open = true
			continue
		}
		if i == len(runes) {
			flush(false, 0)
			break
		}
		if lit < len(literals) && literals[lit].start == i {
			flush(true, 1)
			b.WriteString(string(runes[i:literals[lit].end]))
			i = literals[lit].end
			lit++
			continue
		}
		if runes[i] == escape {
			pending++
			i++
			continue
		}
		flush(false, 0)
		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}

// HighlightPtr is Highlight for optional fields. A nil input stays nil.
func (h *Highlighter) HighlightPtr(terms []string, s *string) *string {
	if s == nil {
		return nil
	}
	out := h.Highlight(terms, *s)
	return &out
}

// Strip removes inserted markers from a highlighted string and unescapes
// marker text that came from the source.
func (h *Highlighter) Strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == escape {
			j := i
			for j < len(s) && s[j] == escape {
				j++
			}
			n := j - i
			if m := h.markerAt(s, j); m != "" {
				b.WriteString(strings.Repeat(string(escape), n/2))
				if n%2 == 1 {
					b.WriteString(m)
				}
				i = j + len(m)
				continue
			}
			b.WriteString(s[i:j])
			i = j
			continue
		}
		if m := h.markerAt(s, i); m != "" {
			i += len(m)
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// markerAt returns the marker starting at byte offset i, preferring the longer
// one, or "" when there is none.
func (h *Highlighter) markerAt(s string, i int) string {
	first, second := h.Open, h.Close
	if len(second) > len(first) {
		first, second = second, first
	}
	for _, m := range []string{first, second} {
		if strings.HasPrefix(s[i:], m) {
			return m
		}
	}
	return ""
}

// literals finds marker text in the source, in order and without overlaps.
func (h *Highlighter) literals(runes []rune) []span {
	first, second := []rune(h.Open), []rune(h.Close)
	if len(second) > len(first) {
		first, second = second, first
	}

	out := []span{}
	for i := 0; i < len(runes); {
		matched := false
		for _, m := range [][]rune{first, second} {
			if i+len(m) <= len(runes) && equalAt(runes, m, i) {
				out = append(out, span{i, i + len(m)})
				i += len(m)
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
	return out
}

// cover widens spans so none of them cuts through marker text from the
// source.
func cover(spans, literals []span) []span {
	for i := range spans {
		for _, lit := range literals {
			if lit.start < spans[i].end && spans[i].start < lit.end {
				spans[i].start = min(spans[i].start, lit.start)
				spans[i].end = max(spans[i].end, lit.end)
			}
		}
	}
	return spans
}

// fold lower-cases rune by rune so offsets in the folded slice line up with the
// original.
func fold(runes []rune) []rune {
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func equalAt(haystack, needle []rune, at int) bool {
	for j, r := range needle {
		if haystack[at+j] != r {
			return false
		}
	}
	return true
}

func merge(spans []span) []span {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end < spans[j].end
	})

	merged := []span{spans[0]}
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp.start <= last.end {
			last.end = max(last.end, sp.end)
			continue
		}
		merged = append(merged, sp)
	}
	return merged
}
