package notificationservice

import (
	"log/slog"

	httpadapter "hanafiyah/contexts/engagement/notification-service/adapters/http"
	"hanafiyah/contexts/engagement/notification-service/adapters/memory"
	"hanafiyah/contexts/engagement/notification-service/application"
	workerapp "hanafiyah/contexts/engagement/notification-service/application/workers"
	"hanafiyah/contexts/engagement/notification-service/domain/entities"
	"hanafiyah/contexts/engagement/notification-service/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Service   application.Service
	Announcer workerapp.Announcer
	Store     *memory.Store
}

type Dependencies struct {
	Notifications ports.NotificationRepository
	Settings      ports.SettingsRepository
	Subscriptions ports.SubscriptionRepository
	Recipients    ports.RecipientDirectory
	Telegram      ports.TelegramSender
	Subscriber    ports.EventSubscriber
	Dedup         ports.EventDedupStore
	Clock         ports.Clock
	SiteURL       string
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Notifications: deps.Notifications,
		Settings:      deps.Settings,
		Subscriptions: deps.Subscriptions,
		Recipients:    deps.Recipients,
		Telegram:      deps.Telegram,
		SiteURL:       deps.SiteURL,
		Clock:         deps.Clock,
		Logger:        deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
		Announcer: workerapp.Announcer{
			Subscriber: deps.Subscriber,
			Service:    service,
			Dedup:      deps.Dedup,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		},
	}
}

// NewInMemoryModule records Telegram sends in the store instead of
// delivering them.
func NewInMemoryModule(recipients []entities.Recipient, subscriber ports.EventSubscriber, logger *slog.Logger) Module {
	store := memory.NewStore(recipients, logger)
	module := NewModule(Dependencies{
		Notifications: store,
		Settings:      store,
		Subscriptions: store,
		Recipients:    store,
		Telegram:      store,
		Subscriber:    subscriber,
		Dedup:         store,
		Clock:         store,
		SiteURL:       "https://al-hanafiyah.com",
		Logger:        logger,
	})
	module.Store = store
	return module
}
