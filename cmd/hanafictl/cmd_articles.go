package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hanafiyah/contexts/publishing/article-service/ports"
	"hanafiyah/internal/app/bootstrap"

	"github.com/spf13/cobra"
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Manage articles",
}

var articlesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import every Markdown file in a directory as an article",
	Long: `Render each *.md file to HTML and upsert it as an article.

The first heading becomes the title, falling back to the file name.
An article whose slug matches the title is updated in place.`,
	RunE: runArticlesImport,
}

var importDir string

func init() {
	articlesImportCmd.Flags().StringVar(&importDir, "dir", "", "directory holding Markdown files")
	_ = articlesImportCmd.MarkFlagRequired("dir")

	articlesCmd.AddCommand(articlesImportCmd)
	rootCmd.AddCommand(articlesCmd)
}

func runArticlesImport(cmd *cobra.Command, _ []string) error {
	files, err := loadMarkdownFiles(importDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no Markdown files in %s\n", importDir)
		return nil
	}
	return withTools(cmd, func(ctx context.Context, tools *bootstrap.Tools) error {
		result, err := tools.Articles.Service.ImportMarkdown(ctx, files)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, slug := range result.Created {
			fmt.Fprintf(out, "created %s\n", slug)
		}
		for _, slug := range result.Updated {
			fmt.Fprintf(out, "updated %s\n", slug)
		}
		for _, name := range result.Skipped {
			fmt.Fprintf(out, "skipped %s (empty)\n", name)
		}
		return nil
	})
}

// loadMarkdownFiles reads the *.md files directly inside dir in name order.
func loadMarkdownFiles(dir string) ([]ports.MarkdownFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	files := make([]ports.MarkdownFile, 0, len(names))
	for _, name := range names {
		source, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		files = append(files, ports.MarkdownFile{Name: name, Source: source})
	}
	return files, nil
}
