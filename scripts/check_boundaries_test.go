package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, root string, rel string, imports ...string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	src := "package x\n\nimport (\n"
	for _, imp := range imports {
		src += "\t_ \"" + imp + "\"\n"
	}
	src += ")\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCollectViolationsAcceptsLayeredService(t *testing.T) {
	root := filepath.Join(t.TempDir(), "contexts")
	writeSource(t, root, "community/question-service/domain/entities/question.go", "time")
	writeSource(t, root, "community/question-service/application/service.go",
		"context",
		"hanafiyah/contexts/community/question-service/ports",
		"hanafiyah/contracts/gen/events/v1",
	)
	writeSource(t, root, "community/question-service/adapters/postgres/repository.go",
		"gorm.io/gorm",
		"hanafiyah/internal/shared/outbox",
	)
	writeSource(t, root, "community/question-service/module.go",
		"hanafiyah/contexts/community/question-service/adapters/memory",
	)

	if violations := collectViolations(root); len(violations) != 0 {
		t.Fatalf("expected no violations, got %+v", violations)
	}
}

func TestCollectViolationsReportsLayerBreaches(t *testing.T) {
	root := filepath.Join(t.TempDir(), "contexts")
	writeSource(t, root, "learning/lesson-service/domain/services/slug.go", "github.com/gosimple/slug")
	writeSource(t, root, "learning/lesson-service/application/service.go",
		"hanafiyah/contexts/learning/lesson-service/adapters/postgres",
		"hanafiyah/internal/platform/db",
	)
	writeSource(t, root, "learning/lesson-service/adapters/http/handler.go",
		"hanafiyah/contexts/publishing/article-service/ports",
	)

	rules := map[string]int{}
	for _, v := range collectViolations(root) {
		rules[v.Rule]++
	}
	for _, want := range []string{
		"domain import is outside explicit allowlist",
		"application must not import adapters",
		"application must not import runtime infrastructure",
		"cross-context imports are forbidden",
	} {
		if rules[want] == 0 {
			t.Fatalf("expected %q violation, got %v", want, rules)
		}
	}
}

func TestIsStdlib(t *testing.T) {
	cases := map[string]bool{
		"context":                 true,
		"net/http":                true,
		"hanafiyah/internal":      false,
		"github.com/spf13/cobra":  false,
		"gorm.io/driver/postgres": false,
	}
	for path, want := range cases {
		if got := isStdlib(path); got != want {
			t.Fatalf("isStdlib(%q) = %v, want %v", path, got, want)
		}
	}
}
