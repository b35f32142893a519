package services

import "testing"

func TestPaging(t *testing.T) {
	if got := TotalPages(7, MyQuestionsPerPage); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
	if got := TotalPages(0, MyQuestionsPerPage); got != 0 {
		t.Fatalf("expected 0 pages, got %d", got)
	}
	if got := ClampPage(5, 3); got != 2 {
		t.Fatalf("expected clamp to last page, got %d", got)
	}
	if got := ClampPage(-1, 3); got != 0 {
		t.Fatalf("expected clamp to first page, got %d", got)
	}
}

func TestCutCountsCharacters(t *testing.T) {
	if got, cut := Cut("ассаламу", 4); got != "асса" || !cut {
		t.Fatalf("unexpected cut %q %v", got, cut)
	}
	if got, cut := Cut("салам", 10); got != "салам" || cut {
		t.Fatalf("unexpected cut %q %v", got, cut)
	}
}
