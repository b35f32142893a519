package searchservice

import (
	"log/slog"
	"time"

	httpadapter "hanafiyah/contexts/discovery/search-service/adapters/http"
	"hanafiyah/contexts/discovery/search-service/adapters/memory"
	"hanafiyah/contexts/discovery/search-service/application"
	"hanafiyah/contexts/discovery/search-service/application/workers"
	"hanafiyah/contexts/discovery/search-service/domain/entities"
	"hanafiyah/contexts/discovery/search-service/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Service   application.Service
	IndexSync workers.IndexSync
	Engine    *memory.Engine
}

type Dependencies struct {
	Engine     ports.Engine
	Indexer    ports.Indexer
	Source     ports.CorpusSource
	Cache      ports.ResultCache
	CacheTTL   time.Duration
	Subscriber ports.EventSubscriber
	Dedup      ports.EventDedupStore
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Engine:   deps.Engine,
		Indexer:  deps.Indexer,
		Source:   deps.Source,
		Cache:    deps.Cache,
		CacheTTL: deps.CacheTTL,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
		IndexSync: workers.IndexSync{
			Subscriber: deps.Subscriber,
			Service:    service,
			Dedup:      deps.Dedup,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		},
	}
}

// NewInMemoryModule indexes seed in a process-local engine. Rebuild reloads
// whatever source returns; a nil source rebuilds from seed.
func NewInMemoryModule(seed entities.Corpus, source ports.CorpusSource, subscriber ports.EventSubscriber, logger *slog.Logger) Module {
	engine := memory.NewEngine(seed, logger)
	if source == nil {
		source = memory.StaticSource{Corpus: seed}
	}
	module := NewModule(Dependencies{
		Engine:     engine,
		Indexer:    engine,
		Source:     source,
		Cache:      memory.NewCache(0),
		Subscriber: subscriber,
		Dedup:      engine,
		Clock:      engine,
		Logger:     logger,
	})
	module.Engine = engine
	return module
}
