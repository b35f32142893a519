package services

import (
	"html"
	"strings"
)

// EmojiFor picks the leading emoji of a Telegram notification from keywords
// in its title.
func EmojiFor(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "урок"):
		return "🎓"
	case strings.Contains(lower, "встреч"):
		return "📅"
	case strings.Contains(lower, "ответ") && strings.Contains(lower, "вопрос"):
		return "❓"
	case strings.Contains(lower, "коммент"):
		return "💬"
	default:
		return "🔔"
	}
}

// TelegramText renders a notification as Telegram HTML. A relative url is
// linked under siteURL. Title and message are plain text and get escaped.
func TelegramText(title string, message string, url string, siteURL string) string {
	text := EmojiFor(title) + " <b>" + html.EscapeString(title) + "</b>\n\n" + html.EscapeString(message)
	if url != "" {
		text += "\n\n<a href='" + html.EscapeString(strings.TrimRight(siteURL, "/")+url) + "'>Посмотреть</a>"
	}
	return text
}

// Excerpt cuts value to at most limit characters and marks the cut with an
// ellipsis the way every notification quote does, even when nothing was cut.
func Excerpt(value string, limit int) string {
	runes := []rune(value)
	if limit > 0 && len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + "..."
}

// QuoteHTML excerpts plain text and escapes it for an HTML-mode message.
// Escaping runs after the cut so no entity is split.
func QuoteHTML(value string, limit int) string {
	return html.EscapeString(Excerpt(value, limit))
}
