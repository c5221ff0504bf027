package provider

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// CleanText strips markup from provider-supplied titles and snippets and
// collapses whitespace. Providers often embed <b>, <a> or entity-encoded
// fragments in descriptions.
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}
	text := html.UnescapeString(strictPolicy.Sanitize(raw))
	return strings.Join(strings.Fields(text), " ")
}

// SourceOrUnknown defaults an empty publisher name.
func SourceOrUnknown(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Unknown"
	}
	return name
}
