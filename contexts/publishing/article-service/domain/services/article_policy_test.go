package services

import (
	"errors"
	"strings"
	"testing"

	"hanafiyah/contexts/publishing/article-service/domain/entities"
	domainerrors "hanafiyah/contexts/publishing/article-service/domain/errors"
)

func TestValidateArticle(t *testing.T) {
	if err := ValidateArticle(entities.Article{Title: "Намаз", Content: "<p>text</p>"}); err != nil {
		t.Fatalf("expected valid article, got %v", err)
	}
	if err := ValidateArticle(entities.Article{Title: " ", Content: "x"}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected blank title rejected, got %v", err)
	}
	long := strings.Repeat("я", MaxTitleLength+1)
	if err := ValidateArticle(entities.Article{Title: long, Content: "x"}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected long title rejected, got %v", err)
	}
}

func TestTitleFromFilename(t *testing.T) {
	if got := TitleFromFilename("docs/01-namaz_times.md"); got != "01 namaz times" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := BaseSlug(""); got != "article" {
		t.Fatalf("unexpected fallback slug %q", got)
	}
}
