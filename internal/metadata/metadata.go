// Package metadata extracts front-matter style fields from raw Markdown text.
package metadata

import (
	"regexp"
	"strings"
	"sync"
)

// Front-matter field names the upload workflow reads.
const (
	FieldAuthor   = "author"
	FieldDate     = "date"
	FieldCategory = "category"
	FieldImage    = "image"
)

// Fields are plain `key: value` lines anywhere in the document, value
// optionally double-quoted. Only the first occurrence of a field counts.
// There is no escaping: a value containing the quote delimiter is extracted
// incorrectly. That matches the convention the authoring frontend emits.
var (
	mu       sync.Mutex
	patterns = map[string]*regexp.Regexp{
		FieldAuthor:   compileField(FieldAuthor),
		FieldDate:     compileField(FieldDate),
		FieldCategory: compileField(FieldCategory),
		FieldImage:    compileField(FieldImage),
	}
)

func compileField(field string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(field) + `:\s*"?(.+?)"?$`)
}

func pattern(field string) *regexp.Regexp {
	mu.Lock()
	defer mu.Unlock()
	re, ok := patterns[field]
	if !ok {
		re = compileField(field)
		patterns[field] = re
	}
	return re
}

// Extract returns the trimmed value of the first matching field line in the
// Markdown buffer, or def when the field is absent. It has no side effects
// and no shared parse state between fields.
func Extract(markdown []byte, field, def string) string {
	match := pattern(field).FindSubmatch(markdown)
	if match == nil {
		return def
	}

	value := strings.TrimSpace(string(match[1]))
	if value == "" {
		return def
	}
	return value
}
