package services

import (
	"fmt"
	"path"
	"strings"

	"hanafiyah/contexts/publishing/article-service/domain/entities"
	domainerrors "hanafiyah/contexts/publishing/article-service/domain/errors"
)

const MaxTitleLength = 200

func ValidateArticle(article entities.Article) error {
	title := strings.TrimSpace(article.Title)
	if title == "" || len([]rune(title)) > MaxTitleLength || strings.TrimSpace(article.Content) == "" {
		return domainerrors.ErrInvalidRequest
	}
	return nil
}

// BaseSlug falls back to "article" for titles without transliterable characters.
func BaseSlug(slugified string) string {
	if strings.TrimSpace(slugified) == "" {
		return "article"
	}
	return slugified
}

func CounterSlug(base string, counter int) string {
	return fmt.Sprintf("%s-%d", base, counter)
}

// TitleFromFilename turns "01-namaz_times.md" into "01 namaz times".
func TitleFromFilename(name string) string {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}
