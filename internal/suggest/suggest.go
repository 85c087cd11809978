// Package suggest filters the tag catalog for autocomplete and gates the
// filter behind a debounce timer.
package suggest

import (
	"strings"

	"tagcalc/internal/tag"
)

// Filter returns the tags whose display name contains query, ignoring case,
// in catalog order. An empty query or catalog yields nil.
func Filter(query string, catalog *tag.Catalog) []tag.Tag {
	if query == "" || catalog.Len() == 0 {
		return nil
	}
	q := strings.ToLower(query)
	var out []tag.Tag
	catalog.Each(func(t tag.Tag) bool {
		if strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, t)
		}
		return true
	})
	return out
}
