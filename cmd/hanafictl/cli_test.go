package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
	"hanafiyah/internal/app/bootstrap"

	"github.com/google/go-cmp/cmp"
)

func TestLoadMarkdownFilesReadsOnlyMarkdownInNameOrder(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("b-namaz.md", "# Намаз\n")
	write("a-orozo.MD", "# Орозо\n")
	write("notes.txt", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "nested.md"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := loadMarkdownFiles(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var names []string
	for _, file := range files {
		names = append(names, file.Name)
	}
	if diff := cmp.Diff([]string{"a-orozo.MD", "b-namaz.md"}, names); diff != "" {
		t.Fatalf("unexpected files (-want +got):\n%s", diff)
	}
	if string(files[1].Source) != "# Намаз\n" {
		t.Fatalf("unexpected source %q", files[1].Source)
	}
}

func TestLoadMarkdownFilesMissingDir(t *testing.T) {
	if _, err := loadMarkdownFiles(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestPrintProbe(t *testing.T) {
	var out bytes.Buffer
	printProbe(&out, "намаз", entities.ResultPage{})
	if !strings.Contains(out.String(), "No results found") {
		t.Fatalf("expected empty marker, got %q", out.String())
	}

	out.Reset()
	printProbe(&out, "намаз", entities.ResultPage{
		Total:   1,
		Results: []entities.Result{{ID: 7, Kind: entities.KindQuestion, Content: "Сапарда намаз", Score: 1.5}},
	})
	for _, want := range []string{"Searching for: 'намаз'", "Found 1 results", "ID: 7", "Score: 1.500", "Сапарда намаз"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"db", "migrate"},
		{"search", "rebuild"},
		{"search", "wait"},
		{"search", "probe"},
		{"articles", "import"},
	} {
		cmd, _, err := rootCmd.Find(path)
		if err != nil || cmd.Name() != path[len(path)-1] {
			t.Fatalf("command %v not registered: %v", path, err)
		}
	}
	if searchRebuildCmd.Flags().Lookup("force") == nil {
		t.Fatalf("expected --force on search rebuild")
	}
	if len(defaultProbeQueries) == 0 {
		t.Fatalf("expected default probe queries")
	}
}

func TestCommandsSurfaceConnectionErrors(t *testing.T) {
	original := buildTools
	t.Cleanup(func() { buildTools = original })
	boom := errors.New("postgres unreachable")
	buildTools = func() (*bootstrap.Tools, error) { return nil, boom }

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"db", "migrate"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); !errors.Is(err, boom) {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestSearchProbeRejectsUnknownScope(t *testing.T) {
	original := probeScope
	t.Cleanup(func() { probeScope = original })
	probeScope = "podcasts"

	if err := runSearchProbe(searchProbeCmd, nil); err == nil {
		t.Fatalf("expected invalid scope error")
	}
}
