package application_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	lessonservice "hanafiyah/contexts/learning/lesson-service"
	"hanafiyah/contexts/learning/lesson-service/adapters/memory"
	"hanafiyah/contexts/learning/lesson-service/domain/entities"
	domainerrors "hanafiyah/contexts/learning/lesson-service/domain/errors"
	"hanafiyah/contexts/learning/lesson-service/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"

	"github.com/google/go-cmp/cmp"
)

func newModule() lessonservice.Module {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return lessonservice.NewInMemoryModule(memory.Seed{
		Categories: []entities.Category{{ID: 1, Name: "Fiqh", Slug: "fiqh"}},
		Topics:     []entities.Topic{{ID: 2, Name: "Salah", CategoryID: 1, Slug: "salah"}},
		Modules:    []entities.Module{{ID: 3, Name: "Wudu", TopicID: 2, Slug: "salah-wudu"}},
		Lessons: []entities.Lesson{
			{ID: 4, ModuleID: 3, MediaType: entities.MediaVideo, MediaFile: "lessons/videos/1.mp4", Order: 1,
				Slug: "lesson-salah-wudu-1", CreatedAt: created, UpdatedAt: created},
		},
		Comments: []entities.Comment{{ID: 5, LessonID: 4, Content: "JazakAllah", CreatedAt: created}},
	}, slog.Default())
}

func TestCategoryTreeNestsTopicsModulesLessonsComments(t *testing.T) {
	module := newModule()
	node, err := module.Service.GetCategory(context.Background(), "fiqh")
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	var slugs []string
	for _, topic := range node.Topics {
		for _, mod := range topic.Modules {
			for _, lesson := range mod.Lessons {
				slugs = append(slugs, topic.Topic.Slug+"/"+mod.Module.Slug+"/"+lesson.Lesson.Slug)
				if len(lesson.Comments) != 1 {
					t.Fatalf("expected lesson comments nested, got %+v", lesson.Comments)
				}
			}
		}
	}
	if diff := cmp.Diff([]string{"salah/salah-wudu/lesson-salah-wudu-1"}, slugs); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
	if _, err := module.Service.GetCategory(context.Background(), "missing"); !errors.Is(err, domainerrors.ErrCategoryNotFound) {
		t.Fatalf("expected category not found, got %v", err)
	}
}

func TestCreateCatalogSlugs(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	category, err := module.Service.CreateCategory(ctx, "Fiqh")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if !strings.HasPrefix(category.Slug, "fiqh-1-") || len(category.Slug) != len("fiqh-1-")+4 {
		t.Fatalf("expected collision slug with random suffix, got %q", category.Slug)
	}

	topic, err := module.Service.CreateTopic(ctx, 1, "Salah")
	if err != nil {
		t.Fatalf("create topic: %v", err)
	}
	if topic.Slug != "salah-1" {
		t.Fatalf("expected counter slug, got %q", topic.Slug)
	}

	mod, err := module.Service.CreateModule(ctx, 2, "Tayammum", 2)
	if err != nil {
		t.Fatalf("create module: %v", err)
	}
	if mod.Slug != "salah-tayammum" {
		t.Fatalf("expected topic-prefixed module slug, got %q", mod.Slug)
	}
	if _, err := module.Service.CreateTopic(ctx, 99, "Zakat"); !errors.Is(err, domainerrors.ErrCategoryNotFound) {
		t.Fatalf("expected missing category, got %v", err)
	}
}

func TestCreateLessonOrderingAndEvent(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	intro, err := module.Service.CreateLesson(ctx, ports.CreateLessonInput{
		ModuleID: 3, MediaType: "audio", MediaFile: "lessons/audio/intro.mp3", IsIntro: true,
	})
	if err != nil {
		t.Fatalf("create intro: %v", err)
	}
	if intro.Order != 0 || intro.Slug != "intro-salah-wudu" {
		t.Fatalf("unexpected intro %+v", intro)
	}
	if _, err := module.Service.CreateLesson(ctx, ports.CreateLessonInput{
		ModuleID: 3, MediaType: "audio", MediaFile: "x.mp3", IsIntro: true,
	}); !errors.Is(err, domainerrors.ErrIntroAlreadyExists) {
		t.Fatalf("expected second intro rejected, got %v", err)
	}

	next, err := module.Service.CreateLesson(ctx, ports.CreateLessonInput{
		ModuleID: 3, MediaType: "video", MediaFile: "lessons/videos/2.mp4",
	})
	if err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	if next.Order != 2 || next.Slug != "lesson-salah-wudu-2" {
		t.Fatalf("expected appended lesson, got %+v", next)
	}

	one := 1
	if _, err := module.Service.CreateLesson(ctx, ports.CreateLessonInput{
		ModuleID: 3, MediaType: "video", MediaFile: "dup.mp4", Order: &one,
	}); !errors.Is(err, domainerrors.ErrLessonOrderConflict) {
		t.Fatalf("expected order conflict, got %v", err)
	}
	if _, err := module.Service.CreateLesson(ctx, ports.CreateLessonInput{
		ModuleID: 3, MediaType: "pdf", MediaFile: "file.pdf",
	}); !errors.Is(err, domainerrors.ErrInvalidMediaType) {
		t.Fatalf("expected invalid media type, got %v", err)
	}

	envelopes := module.Store.Envelopes()
	if len(envelopes) != 2 {
		t.Fatalf("expected 2 lesson events, got %d", len(envelopes))
	}
	var payload contractsv1.LessonPayload
	if err := envelopes[1].Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelopes[1].EventType != contractsv1.EventLessonCreated ||
		payload.ModuleName != "Wudu" || payload.TopicName != "Salah" || payload.CategoryName != "Fiqh" {
		t.Fatalf("unexpected event %+v payload %+v", envelopes[1], payload)
	}

	nodes, _, err := module.Service.ListLessons(ctx, ports.LessonFilter{ModuleID: &intro.ModuleID})
	if err != nil {
		t.Fatalf("list lessons: %v", err)
	}
	if len(nodes) != 3 || !nodes[0].Lesson.IsIntro {
		t.Fatalf("expected intro first, got %+v", nodes)
	}
}

func TestCommentsHelpfulAndProgress(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	comment, err := module.Service.AddComment(ctx, "lesson-salah-wudu-1", ports.AddCommentInput{Content: "Baraka", Telegram: "@murid"})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if comment.Telegram != "murid" {
		t.Fatalf("expected telegram handle stripped, got %q", comment.Telegram)
	}
	helpful, err := module.Service.MarkHelpful(ctx, "lesson-salah-wudu-1", comment.ID)
	if err != nil || helpful.HelpfulCount != 1 {
		t.Fatalf("mark helpful: %+v %v", helpful, err)
	}
	if _, err := module.Service.MarkHelpful(ctx, "lesson-salah-wudu-1", 999); !errors.Is(err, domainerrors.ErrCommentNotFound) {
		t.Fatalf("expected comment not found, got %v", err)
	}

	if _, err := module.Service.SaveProgress(ctx, "lesson-salah-wudu-1", "", 10); !errors.Is(err, domainerrors.ErrInvalidProgress) {
		t.Fatalf("expected invalid progress without device, got %v", err)
	}
	if _, err := module.Service.SaveProgress(ctx, "lesson-salah-wudu-1", "device", 0); !errors.Is(err, domainerrors.ErrInvalidProgress) {
		t.Fatalf("expected invalid progress for zero timestamp, got %v", err)
	}
	if _, found, err := module.Service.GetProgress(ctx, "lesson-salah-wudu-1", "device"); err != nil || found {
		t.Fatalf("expected no progress yet, found=%v err=%v", found, err)
	}
	if _, err := module.Service.SaveProgress(ctx, "lesson-salah-wudu-1", "device", 42); err != nil {
		t.Fatalf("save progress: %v", err)
	}
	progress, found, err := module.Service.GetProgress(ctx, "lesson-salah-wudu-1", "device")
	if err != nil || !found || progress.Timestamp != 42 {
		t.Fatalf("unexpected progress %+v found=%v err=%v", progress, found, err)
	}
}

func TestUstazProfileIsSingleton(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	if _, err := module.Service.GetUstazProfile(ctx); !errors.Is(err, domainerrors.ErrProfileNotFound) {
		t.Fatalf("expected no profile, got %v", err)
	}
	first, err := module.Service.UpsertUstazProfile(ctx, ports.UpsertProfileInput{Name: "Ustaz", Biography: "bio"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second, err := module.Service.UpsertUstazProfile(ctx, ports.UpsertProfileInput{Name: "Ustaz", Biography: "updated"})
	if err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	if first.ID != second.ID || second.Biography != "updated" {
		t.Fatalf("expected same profile updated, got %+v then %+v", first, second)
	}
	if _, err := module.Service.AddGalleryPhoto(ctx, "ustaz/gallery/1.jpg", "Лекция"); err != nil {
		t.Fatalf("add photo: %v", err)
	}
	profile, err := module.Service.GetUstazProfile(ctx)
	if err != nil || len(profile.Photos) != 1 {
		t.Fatalf("expected one photo, got %+v err=%v", profile, err)
	}
}

func TestReorderAndLatestPayloads(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	if err := module.Service.ReorderLessons(ctx, []entities.OrderUpdate{{ID: 4, Order: 7}}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if err := module.Service.ReorderModules(ctx, nil); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected empty reorder rejected, got %v", err)
	}
	payloads, err := module.Service.LatestLessonPayloads(ctx, 5)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(payloads) != 1 || payloads[0].Order != 7 || payloads[0].ModuleSlug != "salah-wudu" {
		t.Fatalf("unexpected payloads %+v", payloads)
	}
}
