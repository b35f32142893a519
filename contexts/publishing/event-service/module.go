package eventservice

import (
	"log/slog"

	httpadapter "hanafiyah/contexts/publishing/event-service/adapters/http"
	"hanafiyah/contexts/publishing/event-service/adapters/memory"
	"hanafiyah/contexts/publishing/event-service/application"
	"hanafiyah/contexts/publishing/event-service/domain/entities"
	"hanafiyah/contexts/publishing/event-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Events ports.EventRepository
	Clock  ports.Clock
	IDs    ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Events: deps.Events,
		Clock:  deps.Clock,
		IDs:    deps.IDs,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

func NewInMemoryModule(seed []entities.OfflineEvent, logger *slog.Logger) Module {
	store := memory.NewStore(seed, logger)
	module := NewModule(Dependencies{
		Events: store,
		Clock:  store,
		IDs:    store,
		Logger: logger,
	})
	module.Store = store
	return module
}
