package services

import (
	"errors"
	"testing"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
	domainerrors "hanafiyah/contexts/discovery/search-service/domain/errors"
)

func TestNormalizeQueryDefaultsAndClamps(t *testing.T) {
	query, err := NormalizeQuery(entities.Query{Text: "  намаз ", Size: 500})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if query.Text != "намаз" || query.Scope != entities.ScopeAll || query.Page != 1 || query.Size != MaxPageSize {
		t.Fatalf("unexpected query %+v", query)
	}
	if _, err := NormalizeQuery(entities.Query{Text: "   "}); !errors.Is(err, domainerrors.ErrQueryRequired) {
		t.Fatalf("expected query required, got %v", err)
	}
	if _, err := NormalizeQuery(entities.Query{Text: "x", Scope: "videos"}); !errors.Is(err, domainerrors.ErrInvalidScope) {
		t.Fatalf("expected invalid scope, got %v", err)
	}
}

func TestMergeSuggestionsSortsByScore(t *testing.T) {
	merged := MergeSuggestions(3,
		[]entities.Suggestion{{Text: "q1", Score: 1.5}, {Text: "q2", Score: 0.4}},
		[]entities.Suggestion{{Text: "a1", Score: 2.0}, {Text: "a2", Score: 1.5}},
	)
	if len(merged) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(merged))
	}
	got := []string{merged[0].Text, merged[1].Text, merged[2].Text}
	want := []string{"a1", "q1", "a2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order %v", got)
		}
	}
}

func TestHighlightIsCaseInsensitive(t *testing.T) {
	out, ok := Highlight("Намаз в пути и намаз дома", "намаз")
	if !ok {
		t.Fatalf("expected a match")
	}
	if out != "<em>Намаз</em> в пути и <em>намаз</em> дома" {
		t.Fatalf("unexpected highlight %q", out)
	}
	if _, ok := Highlight("Закят", "намаз"); ok {
		t.Fatalf("expected no match")
	}
}

func TestTooShortCountsRunes(t *testing.T) {
	if TooShort("на", MinSuggestionLength) {
		t.Fatalf("two cyrillic letters are long enough")
	}
	if !TooShort(" н ", MinSuggestionLength) {
		t.Fatalf("one letter is too short")
	}
}
