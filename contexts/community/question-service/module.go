package questionservice

import (
	"log/slog"

	httpadapter "hanafiyah/contexts/community/question-service/adapters/http"
	"hanafiyah/contexts/community/question-service/adapters/memory"
	"hanafiyah/contexts/community/question-service/application"
	"hanafiyah/contexts/community/question-service/domain/entities"
	"hanafiyah/contexts/community/question-service/ports"
	"hanafiyah/internal/platform/text"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Questions ports.QuestionRepository
	Clock     ports.Clock
	IDs       ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Questions: deps.Questions,
		Cleaner:   text.NewCleaner(),
		Clock:     deps.Clock,
		IDs:       deps.IDs,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

func NewInMemoryModule(seed []entities.Question, logger *slog.Logger) Module {
	store := memory.NewStore(seed, logger)
	module := NewModule(Dependencies{
		Questions: store,
		Clock:     store,
		IDs:       store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
