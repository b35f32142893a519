package application_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	articleservice "hanafiyah/contexts/publishing/article-service"
	"hanafiyah/contexts/publishing/article-service/domain/entities"
	domainerrors "hanafiyah/contexts/publishing/article-service/domain/errors"
	"hanafiyah/contexts/publishing/article-service/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"

	"github.com/google/go-cmp/cmp"
)

func newModule() articleservice.Module {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	seed := make([]entities.Article, 0, 7)
	for i := 1; i <= 7; i++ {
		seed = append(seed, entities.Article{
			ID:        int64(i),
			Title:     "Article " + string(rune('A'+i-1)),
			Content:   "<p>body</p>",
			Slug:      "article-" + strings.ToLower(string(rune('a'+i-1))),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			UpdatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	return articleservice.NewInMemoryModule(seed, slog.Default())
}

func slugs(articles []entities.Article) []string {
	out := make([]string, 0, len(articles))
	for _, article := range articles {
		out = append(out, article.Slug)
	}
	return out
}

func TestGetAttachesThreeOtherArticles(t *testing.T) {
	module := newModule()
	detail, err := module.Service.Get(context.Background(), "article-g")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff([]string{"article-f", "article-e", "article-d"}, slugs(detail.Similar)); diff != "" {
		t.Fatalf("unexpected similar (-want +got):\n%s", diff)
	}

	similar, err := module.Service.Similar(context.Background(), "article-a")
	if err != nil || len(similar) != 5 {
		t.Fatalf("expected five similar, got %d err=%v", len(similar), err)
	}
	latest, err := module.Service.Latest(context.Background())
	if err != nil || latest[0].Slug != "article-g" || len(latest) != 5 {
		t.Fatalf("unexpected latest %v err=%v", slugs(latest), err)
	}
	if _, err := module.Service.Get(context.Background(), "missing"); !errors.Is(err, domainerrors.ErrArticleNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListSearchesTitleAndContent(t *testing.T) {
	module := newModule()
	items, total, err := module.Service.List(context.Background(), ports.ArticleFilter{Search: "article c", Page: ports.Page{Limit: 10}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || items[0].Slug != "article-c" {
		t.Fatalf("unexpected search result %v total=%d", slugs(items), total)
	}
	items, total, _ = module.Service.List(context.Background(), ports.ArticleFilter{Page: ports.Page{Offset: 5, Limit: 5}})
	if total != 7 || len(items) != 2 {
		t.Fatalf("expected second page of two, got %d of %d", len(items), total)
	}
}

func TestCreateUpdateEmitEvents(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	first, err := module.Service.Create(ctx, ports.CreateArticleInput{Title: "Namaz", Content: "<p>x</p>"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := module.Service.Create(ctx, ports.CreateArticleInput{Title: "Namaz", Content: "<p>y</p>"})
	if err != nil {
		t.Fatalf("create duplicate title: %v", err)
	}
	if first.Slug != "namaz" || second.Slug != "namaz-1" {
		t.Fatalf("unexpected slugs %q %q", first.Slug, second.Slug)
	}
	title := "Namaz times"
	updated, err := module.Service.Update(ctx, "namaz", ports.UpdateArticleInput{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Slug != "namaz" || updated.Title != title {
		t.Fatalf("unexpected update %+v", updated)
	}
	if _, err := module.Service.Create(ctx, ports.CreateArticleInput{Title: "", Content: "x"}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}

	var types []string
	for _, envelope := range module.Store.Envelopes() {
		types = append(types, envelope.EventType)
	}
	want := []string{contractsv1.EventArticleCreated, contractsv1.EventArticleCreated, contractsv1.EventArticleUpdated}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("unexpected events (-want +got):\n%s", diff)
	}
}

func TestImportMarkdownCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	module := articleservice.NewInMemoryModule(nil, slog.Default())
	files := []ports.MarkdownFile{
		{Name: "zakat.md", Source: []byte("# Zakat\n\nPay **zakat**.")},
		{Name: "fasting_rules.md", Source: []byte("Fasting in *Ramadan*.")},
		{Name: "empty.md", Source: []byte("")},
	}
	result, err := module.Service.ImportMarkdown(ctx, files)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if diff := cmp.Diff(ports.ImportResult{
		Created: []string{"zakat", "fasting-rules"},
		Skipped: []string{"empty.md"},
	}, result); diff != "" {
		t.Fatalf("unexpected import (-want +got):\n%s", diff)
	}
	article, err := module.Service.Get(ctx, "zakat")
	if err != nil || !strings.Contains(article.Content, "<strong>zakat</strong>") || strings.Contains(article.Content, "<h1>") {
		t.Fatalf("unexpected rendered article %+v err=%v", article, err)
	}

	result, err = module.Service.ImportMarkdown(ctx, files[:1])
	if err != nil || len(result.Updated) != 1 || len(result.Created) != 0 {
		t.Fatalf("expected reimport to update, got %+v err=%v", result, err)
	}
}
