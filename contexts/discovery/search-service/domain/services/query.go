package services

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
	domainerrors "hanafiyah/contexts/discovery/search-service/domain/errors"
)

const (
	DefaultPageSize       = 10
	MaxPageSize           = 100
	MinSuggestionLength   = 2
	MinSimilarTextLength  = 10
	DefaultSuggestLimit   = 5
	DefaultSimilarLimit   = 3
	QuestionSuggestHits   = 5
	ContentSuggestPerKind = 2
)

// NormalizeQuery trims the text, defaults the scope to all and clamps the
// page window.
func NormalizeQuery(query entities.Query) (entities.Query, error) {
	query.Text = strings.TrimSpace(query.Text)
	if query.Text == "" {
		return entities.Query{}, domainerrors.ErrQueryRequired
	}
	if query.Scope == "" {
		query.Scope = entities.ScopeAll
	}
	if !query.Scope.Valid() {
		return entities.Query{}, domainerrors.ErrInvalidScope
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Size < 1 {
		query.Size = DefaultPageSize
	}
	if query.Size > MaxPageSize {
		query.Size = MaxPageSize
	}
	return query, nil
}

func CacheKey(query entities.Query) string {
	return fmt.Sprintf("search:%s:%s:%d:%d", strings.ToLower(query.Text), query.Scope, query.Page, query.Size)
}

// TooShort reports whether text has fewer than min characters.
func TooShort(text string, min int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) < min
}

// MergeSuggestions orders suggestions by score, highest first, and keeps
// the first limit. Equal scores keep their input order.
func MergeSuggestions(limit int, groups ...[]entities.Suggestion) []entities.Suggestion {
	merged := make([]entities.Suggestion, 0)
	for _, group := range groups {
		merged = append(merged, group...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

func QuestionURL(id int64) string {
	return fmt.Sprintf("/questions/%d", id)
}

func ArticleURL(slug string) string {
	return "/articles/" + slug
}

func LessonURL(slug string) string {
	return "/lessons/" + slug
}

func EventURL(id int64) string {
	return fmt.Sprintf("/events/%d", id)
}

// Snippet cuts value to limit characters without splitting a rune.
func Snippet(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	return string([]rune(value)[:limit])
}
