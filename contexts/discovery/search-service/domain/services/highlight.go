package services

import "strings"

const (
	HighlightPreTag  = "<em>"
	HighlightPostTag = "</em>"
)

// Highlight wraps every case-insensitive occurrence of term in value with
// the highlight tags. It returns value unchanged and false when term does
// not occur.
func Highlight(value, term string) (string, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return value, false
	}
	lowerValue := []rune(strings.ToLower(value))
	lowerTerm := []rune(strings.ToLower(term))
	original := []rune(value)
	if len(lowerValue) != len(original) {
		return value, false
	}
	var out strings.Builder
	found := false
	for i := 0; i < len(original); {
		if i+len(lowerTerm) <= len(lowerValue) && string(lowerValue[i:i+len(lowerTerm)]) == string(lowerTerm) {
			out.WriteString(HighlightPreTag)
			out.WriteString(string(original[i : i+len(lowerTerm)]))
			out.WriteString(HighlightPostTag)
			i += len(lowerTerm)
			found = true
			continue
		}
		out.WriteRune(original[i])
		i++
	}
	if !found {
		return value, false
	}
	return out.String(), true
}
