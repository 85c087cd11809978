package formula

import "tagcalc/internal/tag"

// ApplySuggestion writes the accepted tag into the formula. The trailing
// candidate run in raw becomes the tag's display name and the last token
// becomes its normalized name; nothing before them changes. When raw has
// no candidate run the name is appended to both instead.
func ApplySuggestion(raw string, tokens []string, t tag.Tag) (string, []string) {
	key := t.Key()
	out := make([]string, len(tokens), len(tokens)+1)
	copy(out, tokens)

	start, ok := referenceStart(raw)
	if !ok || len(out) == 0 {
		return raw + t.Name, append(out, key)
	}
	out[len(out)-1] = key
	return raw[:start] + t.Name, out
}
