// Package export names downloaded documents and renders previews.
package export

import (
	"regexp"
	"strings"

	"doc_wizard/catalog"
)

// extensions maps formats that have a native text form. Everything else is
// downloaded as plain text.
var extensions = map[catalog.Format]string{
	catalog.FormatMarkdown: "md",
	catalog.FormatLaTeX:    "tex",
	catalog.FormatHTML:     "html",
	catalog.FormatJATS:     "xml",
}

const fallbackExtension = "txt"

// Extension returns the file extension, without dot, for a format.
func Extension(f catalog.Format) string {
	if ext, ok := extensions[f]; ok {
		return ext
	}
	return fallbackExtension
}

// ContentType is the MIME type served with a download.
func ContentType(f catalog.Format) string {
	switch Extension(f) {
	case "md":
		return "text/markdown; charset=utf-8"
	case "tex":
		return "application/x-tex; charset=utf-8"
	case "html":
		return "text/html; charset=utf-8"
	case "xml":
		return "application/xml; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

var unsafeName = regexp.MustCompile(`[^\p{L}\p{N}._ -]+`)

const maxNameLen = 100

// Filename builds "<title>.<ext>", falling back to "document" for empty titles.
func Filename(title string, f catalog.Format) string {
	name := unsafeName.ReplaceAllString(title, "")
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, ". ")
	if runes := []rune(name); len(runes) > maxNameLen {
		name = strings.TrimSpace(string(runes[:maxNameLen]))
	}
	if name == "" {
		name = "document"
	}
	return name + "." + Extension(f)
}
