package text

import (
	"strings"
	"testing"
)

func TestSluggerTransliteratesCyrillic(t *testing.T) {
	got := Slugger{}.Make("Основы намаза")
	if got == "" || strings.ContainsAny(got, " АБВосн") {
		t.Fatalf("expected ascii slug, got %q", got)
	}
	if got != strings.ToLower(got) {
		t.Fatalf("expected lowercase slug, got %q", got)
	}
}

func TestCleanerPlainText(t *testing.T) {
	cleaner := NewCleaner()
	cases := map[string]string{
		"<p>Как совершать <b>намаз</b>?</p>": "Как совершать намаз?",
		"&lt;i&gt;escaped&lt;/i&gt; text":    "escaped text",
		"  plain  ":                          "plain",
		"Tom &amp; Jerry":                    "Tom & Jerry",
	}
	for input, want := range cases {
		if got := cleaner.PlainText(input); got != want {
			t.Fatalf("PlainText(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	if got := Truncate("вопрос", 3); got != "воп" {
		t.Fatalf("expected rune truncation, got %q", got)
	}
	if got := Truncate("ok", 10); got != "ok" {
		t.Fatalf("expected unchanged, got %q", got)
	}
}

func TestMarkdownRenderExtractsTitle(t *testing.T) {
	doc, err := NewMarkdown().Render([]byte("# Пост в Рамадан\n\nПервый *абзац*.\n"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc.Title != "Пост в Рамадан" {
		t.Fatalf("unexpected title %q", doc.Title)
	}
	if strings.Contains(doc.HTML, "<h1>") || !strings.Contains(doc.HTML, "<em>абзац</em>") {
		t.Fatalf("unexpected html %q", doc.HTML)
	}
}
