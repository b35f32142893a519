package telegram

import "testing"

func TestMarkupSkipsEmptyRows(t *testing.T) {
	if Markup(nil) != nil {
		t.Fatalf("expected nil markup for no rows")
	}
	markup := Markup([][]Button{
		{},
		{{Text: "Открыть", URL: "https://al-hanafiyah.com/lessons/intro"}},
		{{Text: "Ответить", Data: "answer_7"}, {Text: "1/2", Data: "page_info"}},
	})
	if markup == nil || len(markup.InlineKeyboard) != 2 {
		t.Fatalf("expected two keyboard rows, got %+v", markup)
	}
	first := markup.InlineKeyboard[0][0]
	if first.URL == nil || *first.URL != "https://al-hanafiyah.com/lessons/intro" {
		t.Fatalf("expected url button, got %+v", first)
	}
	second := markup.InlineKeyboard[1][0]
	if second.CallbackData == nil || *second.CallbackData != "answer_7" {
		t.Fatalf("expected callback button, got %+v", second)
	}
}
