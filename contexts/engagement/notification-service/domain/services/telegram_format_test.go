package services

import (
	"strings"
	"testing"
)

func TestEmojiFor(t *testing.T) {
	cases := map[string]string{
		"Новый урок доступен":   "🎓",
		"Новая оффлайн встреча": "📅",
		"Ответ на ваш вопрос":   "❓",
		"Новый комментарий":     "💬",
		"Ответ получен":         "🔔",
		"Системное":             "🔔",
	}
	for title, want := range cases {
		if got := EmojiFor(title); got != want {
			t.Fatalf("EmojiFor(%q) = %q, want %q", title, got, want)
		}
	}
}

func TestTelegramTextLinksUnderSite(t *testing.T) {
	got := TelegramText("Новый урок доступен", "В модуле \"Намаз\" появился новый урок", "/lessons/wudu", "https://al-hanafiyah.com/")
	want := "🎓 <b>Новый урок доступен</b>\n\nВ модуле &#34;Намаз&#34; появился новый урок\n\n<a href='https://al-hanafiyah.com/lessons/wudu'>Посмотреть</a>"
	if got != want {
		t.Fatalf("unexpected text:\n%s", got)
	}
	if plain := TelegramText("Системное", "текст", "", "https://x"); plain != "🔔 <b>Системное</b>\n\nтекст" {
		t.Fatalf("expected no link without url, got %q", plain)
	}
}

func TestExcerptCountsCharacters(t *testing.T) {
	if got := Excerpt("вопрос о посте", 6); got != "вопрос..." {
		t.Fatalf("unexpected excerpt %q", got)
	}
	if got := Excerpt("коротко", 100); got != "коротко..." {
		t.Fatalf("unexpected excerpt %q", got)
	}
}

func TestTelegramTextEscapesUserText(t *testing.T) {
	got := TelegramText("Вопрос <срочно>", "Поступил новый вопрос: если 2 < 3 & <script>alert(1)</script>", "/questions/1?a=1&b='x'", "https://al-hanafiyah.com")
	for _, raw := range []string{"<script>", "2 < 3 &", "<срочно>", "'x'"} {
		if strings.Contains(got, raw) {
			t.Fatalf("expected %q escaped in %q", raw, got)
		}
	}
	for _, want := range []string{
		"<b>Вопрос &lt;срочно&gt;</b>",
		"если 2 &lt; 3 &amp; &lt;script&gt;alert(1)&lt;/script&gt;",
		"<a href='https://al-hanafiyah.com/questions/1?a=1&amp;b=&#39;x&#39;'>Посмотреть</a>",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
}

func TestQuoteHTMLEscapesAfterCut(t *testing.T) {
	if got := QuoteHTML("a & b", 3); got != "a &amp;..." {
		t.Fatalf("unexpected quote %q", got)
	}
	if got := QuoteHTML("2 < 3", 10); got != "2 &lt; 3..." {
		t.Fatalf("unexpected quote %q", got)
	}
}
