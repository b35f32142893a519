package articleservice

import (
	"log/slog"

	httpadapter "hanafiyah/contexts/publishing/article-service/adapters/http"
	"hanafiyah/contexts/publishing/article-service/adapters/markdown"
	"hanafiyah/contexts/publishing/article-service/adapters/memory"
	"hanafiyah/contexts/publishing/article-service/application"
	"hanafiyah/contexts/publishing/article-service/domain/entities"
	"hanafiyah/contexts/publishing/article-service/ports"
	"hanafiyah/internal/platform/text"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Articles ports.ArticleRepository
	Clock    ports.Clock
	IDs      ports.IDGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Articles: deps.Articles,
		Markdown: markdown.NewRenderer(),
		Slugger:  text.Slugger{},
		Clock:    deps.Clock,
		IDs:      deps.IDs,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

func NewInMemoryModule(seed []entities.Article, logger *slog.Logger) Module {
	store := memory.NewStore(seed, logger)
	module := NewModule(Dependencies{
		Articles: store,
		Clock:    store,
		IDs:      store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
