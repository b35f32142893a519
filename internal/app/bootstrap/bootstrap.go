package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	questionservice "hanafiyah/contexts/community/question-service"
	questionpostgres "hanafiyah/contexts/community/question-service/adapters/postgres"
	searchservice "hanafiyah/contexts/discovery/search-service"
	searchelastic "hanafiyah/contexts/discovery/search-service/adapters/elastic"
	searchmemory "hanafiyah/contexts/discovery/search-service/adapters/memory"
	searchpostgres "hanafiyah/contexts/discovery/search-service/adapters/postgres"
	searchports "hanafiyah/contexts/discovery/search-service/ports"
	notificationservice "hanafiyah/contexts/engagement/notification-service"
	notificationpostgres "hanafiyah/contexts/engagement/notification-service/adapters/postgres"
	notificationtelegram "hanafiyah/contexts/engagement/notification-service/adapters/telegram"
	notificationports "hanafiyah/contexts/engagement/notification-service/ports"
	telegrambot "hanafiyah/contexts/engagement/telegram-bot"
	bottelegram "hanafiyah/contexts/engagement/telegram-bot/adapters/telegram"
	accountservice "hanafiyah/contexts/identity-access/account-service"
	accountcrypto "hanafiyah/contexts/identity-access/account-service/adapters/crypto"
	accountjwt "hanafiyah/contexts/identity-access/account-service/adapters/jwt"
	accountpostgres "hanafiyah/contexts/identity-access/account-service/adapters/postgres"
	lessonservice "hanafiyah/contexts/learning/lesson-service"
	lessonpostgres "hanafiyah/contexts/learning/lesson-service/adapters/postgres"
	articleservice "hanafiyah/contexts/publishing/article-service"
	articlepostgres "hanafiyah/contexts/publishing/article-service/adapters/postgres"
	eventservice "hanafiyah/contexts/publishing/event-service"
	eventpostgres "hanafiyah/contexts/publishing/event-service/adapters/postgres"
	"hanafiyah/internal/platform/config"
	"hanafiyah/internal/platform/db"
	"hanafiyah/internal/platform/httpserver"
	"hanafiyah/internal/platform/messaging"
	platformsearch "hanafiyah/internal/platform/search"
	"hanafiyah/internal/platform/telegram"
	"hanafiyah/internal/shared/outbox"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const dedupTTL = 7 * 24 * time.Hour

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	search       *platformsearch.Client
	outboxRelay  outbox.Relay
	announcer    startable
	indexSync    startable
	pollInterval time.Duration
	logger       *slog.Logger
}

type BotApp struct {
	postgres *db.Postgres
	runner   bottelegram.Runner
	logger   *slog.Logger
}

// Tools backs the operator CLI.
type Tools struct {
	Postgres *db.Postgres
	Articles articleservice.Module
	Search   searchservice.Module
	Logger   *slog.Logger
}

type startable interface {
	Start(ctx context.Context) error
}

// modules holds every context built over one Postgres connection.
type modules struct {
	accounts      accountservice.Module
	lessons       lessonservice.Module
	articles      articleservice.Module
	events        eventservice.Module
	questions     questionservice.Module
	notifications notificationservice.Module
	search        searchservice.Module
}

// wiring carries the optional process-specific collaborators.
type wiring struct {
	subscriber *messaging.Bus
	search     *platformsearch.Client
	telegram   *telegram.Client
}

func NewLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", cfg.ServiceName)
}

func connect(cfg config.Config) (*db.Postgres, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	return db.Connect(cfg.PostgresDSN)
}

func buildModules(cfg config.Config, pg *db.Postgres, w wiring, logger *slog.Logger) (modules, error) {
	tokens, err := accountjwt.NewHMACTokens(cfg.JWTSecret, cfg.ServiceName)
	if err != nil {
		return modules{}, err
	}
	accountRepo := accountpostgres.NewRepository(pg.DB, logger)
	accounts := accountservice.NewModule(accountservice.Dependencies{
		Users:      accountRepo,
		Blacklist:  accountRepo,
		Hasher:     accountcrypto.BcryptHasher{},
		Tokens:     tokens,
		Clock:      accountpostgres.SystemClock{},
		IDs:        accountpostgres.UUIDGenerator{},
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		Logger:     logger,
	})

	lessonRepo := lessonpostgres.NewRepository(pg.DB, logger)
	lessons := lessonservice.NewModule(lessonservice.Dependencies{
		Profiles: lessonRepo,
		Catalog:  lessonRepo,
		Lessons:  lessonRepo,
		Comments: lessonRepo,
		Progress: lessonRepo,
		Suffixes: lessonpostgres.UUIDGenerator{},
		Clock:    lessonpostgres.SystemClock{},
		IDs:      lessonpostgres.UUIDGenerator{},
		Logger:   logger,
	})

	articles := articleservice.NewModule(articleservice.Dependencies{
		Articles: articlepostgres.NewRepository(pg.DB, logger),
		Clock:    articlepostgres.SystemClock{},
		IDs:      articlepostgres.UUIDGenerator{},
		Logger:   logger,
	})

	events := eventservice.NewModule(eventservice.Dependencies{
		Events: eventpostgres.NewRepository(pg.DB, logger),
		Clock:  eventpostgres.SystemClock{},
		IDs:    eventpostgres.UUIDGenerator{},
		Logger: logger,
	})

	questions := questionservice.NewModule(questionservice.Dependencies{
		Questions: questionpostgres.NewRepository(pg.DB, logger),
		Clock:     questionpostgres.SystemClock{},
		IDs:       questionpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	var sender notificationports.TelegramSender
	if w.telegram != nil {
		sender = notificationtelegram.Sender{Client: w.telegram}
	}
	var notificationSubscriber notificationports.EventSubscriber
	var searchSubscriber searchports.EventSubscriber
	if w.subscriber != nil {
		notificationSubscriber = w.subscriber
		searchSubscriber = w.subscriber
	}
	notificationRepo := notificationpostgres.NewRepository(pg.DB, logger)
	notifications := notificationservice.NewModule(notificationservice.Dependencies{
		Notifications: notificationRepo,
		Settings:      notificationRepo,
		Subscriptions: notificationRepo,
		Recipients:    accountRecipients{accounts: accounts.Service},
		Telegram:      sender,
		Subscriber:    notificationSubscriber,
		Dedup:         notificationRepo,
		Clock:         notificationpostgres.SystemClock{},
		SiteURL:       cfg.SiteURL,
		Logger:        logger,
	})

	searchClient := w.search
	if searchClient == nil {
		searchClient, err = platformsearch.NewClient(cfg.ElasticsearchURL, cfg.ElasticsearchTimeout, logger)
		if err != nil {
			return modules{}, err
		}
	}
	engine := searchelastic.NewEngine(searchClient, logger)
	search := searchservice.NewModule(searchservice.Dependencies{
		Engine:  engine,
		Indexer: engine,
		Source: contentCorpus{
			questions: questions.Service,
			articles:  articles.Service,
			lessons:   lessons.Service,
			events:    events.Service,
		},
		Cache:      searchmemory.NewCache(0),
		CacheTTL:   cfg.SearchCacheTTL,
		Subscriber: searchSubscriber,
		Dedup:      searchpostgres.NewDedupStore(pg.DB, logger),
		Clock:      searchpostgres.SystemClock{},
		Logger:     logger,
	})

	return modules{
		accounts:      accounts,
		lessons:       lessons,
		articles:      articles,
		events:        events,
		questions:     questions,
		notifications: notifications,
		search:        search,
	}, nil
}

// Models lists every gorm row the process owns, outbox included.
func Models() []any {
	var models []any
	models = append(models, &outbox.Model{})
	models = append(models, accountpostgres.Models()...)
	models = append(models, lessonpostgres.Models()...)
	models = append(models, articlepostgres.Models()...)
	models = append(models, eventpostgres.Models()...)
	models = append(models, questionpostgres.Models()...)
	models = append(models, notificationpostgres.Models()...)
	models = append(models, searchpostgres.Models()...)
	return models
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg).With("process", "api")

	pg, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := pg.Migrate(context.Background(), Models()...); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}

	// The API only writes outbox rows; Telegram delivery happens in the worker.
	built, err := buildModules(cfg, pg, wiring{}, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	server := httpserver.New(httpserver.Modules{
		Accounts:      built.accounts,
		Lessons:       built.lessons,
		Articles:      built.articles,
		Events:        built.events,
		Questions:     built.questions,
		Notifications: built.notifications,
		Search:        built.search,
	}, httpserver.Options{
		Addr:           normalizeAddr(cfg.HTTPPort),
		PageSize:       cfg.PageSize,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, logger)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg).With("process", "worker")

	pg, err := connect(cfg)
	if err != nil {
		return nil, err
	}

	var tg *telegram.Client
	if strings.TrimSpace(cfg.TelegramBotToken) != "" {
		if tg, err = telegram.NewClient(cfg.TelegramBotToken, logger); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}
	searchClient, err := platformsearch.NewClient(cfg.ElasticsearchURL, cfg.ElasticsearchTimeout, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	bus := messaging.NewBus(256, logger)
	built, err := buildModules(cfg, pg, wiring{subscriber: bus, search: searchClient, telegram: tg}, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	app := &WorkerApp{
		postgres: pg,
		outboxRelay: outbox.Relay{
			Store:      outbox.NewGormStore(pg.DB),
			Publisher:  bus,
			BatchSize:  100,
			MaxRetries: 5,
			Logger:     logger,
		},
		pollInterval: cfg.WorkerPollInterval,
		logger:       logger,
	}
	if cfg.EnableAnnouncements {
		built.notifications.Announcer.DedupTTL = dedupTTL
		app.announcer = built.notifications.Announcer
	}
	if cfg.EnableSearchSync {
		built.search.IndexSync.DedupTTL = dedupTTL
		app.indexSync = built.search.IndexSync
		app.search = searchClient
	}
	return app, nil
}

func BuildBot() (*BotApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg).With("process", "bot")

	tg, err := telegram.NewClient(cfg.TelegramBotToken, logger)
	if err != nil {
		return nil, err
	}
	pg, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	built, err := buildModules(cfg, pg, wiring{telegram: tg}, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	location, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		location = time.UTC
	}
	bot := telegrambot.NewModule(telegrambot.Dependencies{
		Messenger: bottelegram.Messenger{Client: tg},
		Accounts:  botAccounts{accounts: built.accounts.Service},
		Questions: botQuestions{questions: built.questions.Service},
		Events:    botEvents{events: built.events.Service},
		Lessons:   botLessons{lessons: built.lessons.Service},
		SiteURL:   cfg.SiteURL,
		Location:  location,
		Logger:    logger,
	})
	return &BotApp{
		postgres: pg,
		runner: bottelegram.Runner{
			Client:  tg,
			Bot:     bot.Bot,
			Timeout: 60,
			Logger:  logger,
		},
		logger: logger,
	}, nil
}

func BuildTools() (*Tools, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg).With("process", "hanafictl")

	pg, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	built, err := buildModules(cfg, pg, wiring{}, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	return &Tools{
		Postgres: pg,
		Articles: built.articles,
		Search:   built.search,
		Logger:   logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start(ctx)
}

func (a *APIApp) Close() error {
	return a.postgres.Close()
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.announcer != nil {
		if err := w.announcer.Start(ctx); err != nil {
			return fmt.Errorf("start announcer: %w", err)
		}
	}
	if w.indexSync != nil {
		if err := w.search.WaitReady(ctx, 30, 2*time.Second); err != nil {
			return err
		}
		if err := w.indexSync.Start(ctx); err != nil {
			return fmt.Errorf("start index sync: %w", err)
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"announcements", w.announcer != nil,
		"search_sync", w.indexSync != nil,
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	return w.postgres.Close()
}

func (b *BotApp) Run(ctx context.Context) error {
	b.logger.Info("bot app started",
		"event", "bootstrap_bot_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return b.runner.Run(ctx)
}

func (b *BotApp) Close() error {
	return b.postgres.Close()
}

func (t *Tools) Close() error {
	return t.Postgres.Close()
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
