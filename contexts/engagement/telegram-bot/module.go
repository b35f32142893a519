package telegrambot

import (
	"log/slog"
	"time"

	"hanafiyah/contexts/engagement/telegram-bot/adapters/memory"
	"hanafiyah/contexts/engagement/telegram-bot/application"
	"hanafiyah/contexts/engagement/telegram-bot/ports"
)

type Module struct {
	Bot      application.Bot
	Sessions *memory.SessionStore
}

type Dependencies struct {
	Messenger ports.Messenger
	Accounts  ports.AccountDirectory
	Questions ports.QuestionDirectory
	Events    ports.EventDirectory
	Lessons   ports.LessonDirectory
	SiteURL   string
	Location  *time.Location
	Logger    *slog.Logger
}

// NewModule keeps sessions in process memory; the bot runs as one process.
func NewModule(deps Dependencies) Module {
	sessions := memory.NewSessionStore()
	return Module{
		Bot: application.Bot{
			Messenger: deps.Messenger,
			Accounts:  deps.Accounts,
			Questions: deps.Questions,
			Events:    deps.Events,
			Lessons:   deps.Lessons,
			Sessions:  sessions,
			SiteURL:   deps.SiteURL,
			Location:  deps.Location,
			Logger:    deps.Logger,
		},
		Sessions: sessions,
	}
}
