package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"newswire/internal/domain/entity"
	"newswire/internal/usecase/orchestrator"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON:
		return nil
	default:
		return fmt.Errorf("invalid --output %q: must be %s or %s", format, outputText, outputJSON)
	}
}

type runReport struct {
	RunID      string                 `json:"run_id"`
	State      string                 `json:"state"`
	Providers  int                    `json:"providers"`
	Categories int                    `json:"categories"`
	Entries    int                    `json:"entries"`
	Extracted  int                    `json:"extracted"`
	Failed     int                    `json:"failed"`
	DurationMS int64                  `json:"duration_ms"`
	Articles   []entity.ParsedArticle `json:"articles"`
}

func writeRun(w io.Writer, format string, stats orchestrator.RunStats, articles []entity.ParsedArticle) error {
	if format == outputJSON {
		if articles == nil {
			articles = []entity.ParsedArticle{}
		}
		return writeJSON(w, runReport{
			RunID:      stats.RunID,
			State:      stats.State.String(),
			Providers:  stats.Providers,
			Categories: stats.Categories,
			Entries:    stats.Entries,
			Extracted:  stats.Extracted,
			Failed:     stats.Failed,
			DurationMS: stats.Duration.Milliseconds(),
			Articles:   articles,
		})
	}

	for i, article := range articles {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# %s\n%s\n", article.Title, article.URL)
		if len(article.Authors) > 0 {
			fmt.Fprintf(w, "By %s\n", strings.Join(article.Authors, ", "))
		}
		fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(article.Body))
	}
	_, err := fmt.Fprintf(w, "\n%d extracted, %d failed, %d entries from %d categories of %d providers in %s\n",
		stats.Extracted, stats.Failed, stats.Entries, stats.Categories, stats.Providers, stats.Duration.Round(time.Millisecond))
	return err
}

type categoryListing struct {
	Provider   string   `json:"provider"`
	BaseURL    string   `json:"base_url"`
	Categories []string `json:"categories"`
}

func writeCategories(w io.Writer, format string, listings []categoryListing) error {
	if format == outputJSON {
		return writeJSON(w, listings)
	}
	for _, l := range listings {
		fmt.Fprintf(w, "%s (%s)\n", l.Provider, l.BaseURL)
		for _, name := range l.Categories {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	return nil
}

func writeEntries(w io.Writer, format string, entries entity.EntryCollection) error {
	present := make([]*entity.Entry, 0, len(entries))
	for _, e := range entries.Present() {
		present = append(present, e)
	}

	if format == outputJSON {
		return writeJSON(w, present)
	}
	for _, e := range present {
		fmt.Fprintf(w, "%s\t%s\n", e.Title, e.Link)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
