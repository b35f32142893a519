package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
	"hanafiyah/internal/app/bootstrap"

	"github.com/spf13/cobra"
)

// defaultProbeQueries cover common spellings and misspellings of worship terms.
var defaultProbeQueries = []string{
	"намаз",
	"намас",
	"беш убак",
	"дарат",
	"даарат алуу",
	"орозо",
	"ураза",
	"жума",
	"нике кыюу",
	"курман",
	"садага",
	"ажыга баруу",
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Manage the Elasticsearch indices",
}

var searchRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Create the indices and bulk index every question, article, lesson and event",
	Long: `Create the search indices and bulk index the current database content.

With --force the existing indices are dropped first, which also applies
changed analyzers and mappings.`,
	RunE: runSearchRebuild,
}

var searchWaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Block until Elasticsearch answers a ping",
	RunE:  runSearchWait,
}

var searchProbeCmd = &cobra.Command{
	Use:   "probe [queries...]",
	Short: "Run sample queries against the questions index and print the hits",
	RunE:  runSearchProbe,
}

var (
	rebuildForce  bool
	waitAttempts  int
	waitInterval  time.Duration
	probeScope    string
	probePageSize int
)

func init() {
	searchRebuildCmd.Flags().BoolVar(&rebuildForce, "force", false, "drop existing indices before rebuilding")
	searchWaitCmd.Flags().IntVar(&waitAttempts, "attempts", 60, "pings before giving up")
	searchWaitCmd.Flags().DurationVar(&waitInterval, "interval", time.Second, "delay between pings")
	searchProbeCmd.Flags().StringVar(&probeScope, "type", string(entities.ScopeQuestions), "all, questions, articles, lessons or events")
	searchProbeCmd.Flags().IntVar(&probePageSize, "size", 5, "hits to print per query")

	searchCmd.AddCommand(searchRebuildCmd, searchWaitCmd, searchProbeCmd)
	rootCmd.AddCommand(searchCmd)
}

func runSearchRebuild(cmd *cobra.Command, _ []string) error {
	return withTools(cmd, func(ctx context.Context, tools *bootstrap.Tools) error {
		report, err := tools.Search.Service.Rebuild(ctx, rebuildForce)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "questions: %d\n", report.Questions)
		fmt.Fprintf(out, "articles:  %d\n", report.Articles)
		fmt.Fprintf(out, "lessons:   %d\n", report.Lessons)
		fmt.Fprintf(out, "events:    %d\n", report.Events)
		fmt.Fprintf(out, "indexed %d documents\n", report.Total())
		return nil
	})
}

func runSearchWait(cmd *cobra.Command, _ []string) error {
	return withTools(cmd, func(ctx context.Context, tools *bootstrap.Tools) error {
		fmt.Fprintln(cmd.OutOrStdout(), "Waiting for Elasticsearch...")
		if err := tools.Search.Service.WaitForEngine(ctx, waitAttempts, waitInterval); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Elasticsearch is available!")
		return nil
	})
}

func runSearchProbe(cmd *cobra.Command, args []string) error {
	queries := args
	if len(queries) == 0 {
		queries = defaultProbeQueries
	}
	scope := entities.Scope(probeScope)
	if !scope.Valid() {
		return fmt.Errorf("invalid --type %q", probeScope)
	}
	return withTools(cmd, func(ctx context.Context, tools *bootstrap.Tools) error {
		for _, text := range queries {
			page, err := tools.Search.Service.Search(ctx, entities.Query{
				Text:  text,
				Scope: scope,
				Page:  1,
				Size:  probePageSize,
			})
			if err != nil {
				return fmt.Errorf("probe %q: %w", text, err)
			}
			printProbe(cmd.OutOrStdout(), text, page)
		}
		return nil
	})
}

func printProbe(w io.Writer, text string, page entities.ResultPage) {
	separator := strings.Repeat("-", 50)
	fmt.Fprintf(w, "\nSearching for: '%s'\n%s\n", text, separator)
	if len(page.Results) == 0 {
		fmt.Fprintln(w, "No results found")
		return
	}
	fmt.Fprintf(w, "Found %d results\n\n", page.Total)
	for _, result := range page.Results {
		fmt.Fprintf(w, "ID: %d\n", result.ID)
		fmt.Fprintf(w, "Kind: %s\n", result.Kind)
		fmt.Fprintf(w, "Score: %.3f\n", result.Score)
		fmt.Fprintf(w, "Content: %s\n", result.Content)
		fmt.Fprintln(w, separator)
	}
}
