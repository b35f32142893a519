package lessonservice

import (
	"log/slog"

	httpadapter "hanafiyah/contexts/learning/lesson-service/adapters/http"
	"hanafiyah/contexts/learning/lesson-service/adapters/memory"
	"hanafiyah/contexts/learning/lesson-service/application"
	"hanafiyah/contexts/learning/lesson-service/ports"
	"hanafiyah/internal/platform/text"
)

// Module is the composition surface for the lesson catalog.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies take one repository per concern; the postgres and memory
// adapters each implement all of them.
type Dependencies struct {
	Profiles ports.ProfileRepository
	Catalog  ports.CatalogRepository
	Lessons  ports.LessonRepository
	Comments ports.CommentRepository
	Progress ports.ProgressRepository
	Suffixes ports.SuffixGenerator
	Clock    ports.Clock
	IDs      ports.IDGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Profiles: deps.Profiles,
		Catalog:  deps.Catalog,
		Lessons:  deps.Lessons,
		Comments: deps.Comments,
		Progress: deps.Progress,
		Slugger:  text.Slugger{},
		Suffixes: deps.Suffixes,
		Clock:    deps.Clock,
		IDs:      deps.IDs,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

func NewInMemoryModule(seed memory.Seed, logger *slog.Logger) Module {
	store := memory.NewStore(seed, logger)
	module := NewModule(Dependencies{
		Profiles: store,
		Catalog:  store,
		Lessons:  store,
		Comments: store,
		Progress: store,
		Suffixes: store,
		Clock:    store,
		IDs:      store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
