// Package filekind maps a mime type (or, failing that, a filename extension)
// to the coarse kind used for search facets and result flags.
package filekind

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	Image    = "image"
	Video    = "video"
	Document = "document"
	Other    = "other"
)

// Of returns the kind for a file given its stored mime type and filename. The
// mime type wins when it's set; the extension is only consulted when it isn't.
func Of(mimeType, filename string) string {
	mimeType = normalize(mimeType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = normalize(mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))))
	}
	return FromMIME(mimeType)
}

// FromMIME returns the kind for a mime type. Aliases known to mimetype (e.g.
// "application/x-pdf") are resolved to their canonical type first.
func FromMIME(mimeType string) string {
	mimeType = normalize(mimeType)
	if mimeType == "" {
		return Other
	}
	if m := mimetype.Lookup(mimeType); m != nil {
		mimeType = normalize(m.String())
	}

	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return Image
	case strings.HasPrefix(mimeType, "video/"):
		return Video
	case strings.HasPrefix(mimeType, "text/"):
		return Document
	}
	if isDocument(mimeType) {
		return Document
	}
	return Other
}

// IsFilterable reports whether kind can be used as a search filter. Other is a
// catch-all for stored files and isn't offered as a filter.
func IsFilterable(kind string) bool {
	switch kind {
	case Image, Video, Document:
		return true
	}
	return false
}

// isDocument covers the non-text mime types that count as documents.
func isDocument(mimeType string) bool {
	switch mimeType {
	case "application/pdf",
		"application/rtf",
		"application/msword",
		"application/epub+zip",
		"application/vnd.ms-excel",
		"application/vnd.ms-powerpoint",
		"application/vnd.oasis.opendocument.text",
		"application/vnd.oasis.opendocument.spreadsheet",
		"application/vnd.oasis.opendocument.presentation",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation":
		return true
	}
	return false
}

func normalize(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
