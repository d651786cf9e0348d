package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pevans/medalfed/config"
	"github.com/pevans/medalfed/history"
	"github.com/pevans/medalfed/medals"
)

// newTable returns a rounded go-pretty table writing to w.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// printJSON prints v as indented JSON
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printRanking prints a ranked view with its position column
func printRanking(w io.Writer, view medals.RankedView) {
	if len(view) == 0 {
		fmt.Fprintln(w, "No countries to display.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Country", "Gold", "Silver", "Bronze", "Total"})
	for i, record := range view {
		t.AppendRow(table.Row{i + 1, record.Country, record.Gold, record.Silver, record.Bronze, record.Total})
	}
	t.Render()
}

// printCountries prints country names in source-table order
func printCountries(w io.Writer, countries []string) {
	if len(countries) == 0 {
		fmt.Fprintln(w, "No countries to display.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Country"})
	for _, country := range countries {
		t.AppendRow(table.Row{country})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d countries", len(countries))})
	t.Render()
}

// printRecord prints one country's medal breakdown
func printRecord(w io.Writer, record medals.Record) {
	t := newTable(w)
	t.AppendHeader(table.Row{record.Country, "Count"})
	t.AppendRows([]table.Row{
		{"Gold", record.Gold},
		{"Silver", record.Silver},
		{"Bronze", record.Bronze},
	})
	t.AppendFooter(table.Row{"Total", record.Total})
	t.Render()
}

// printAttempts prints load history, newest first
func printAttempts(w io.Writer, attempts []history.Attempt) {
	if len(attempts) == 0 {
		fmt.Fprintln(w, "No load attempts recorded.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Started", "Status", "Countries", "URL", "Error"})
	for _, attempt := range attempts {
		errMsg := ""
		if attempt.Error != nil {
			errMsg = truncate(*attempt.Error, 40)
		}

		t.AppendRow(table.Row{
			attempt.AttemptID.String()[:8],
			attempt.StartedAt.Local().Format(time.DateTime),
			attempt.Status,
			attempt.Countries,
			truncate(attempt.URL, 50),
			errMsg,
		})
	}
	t.Render()
}

// printPreferences prints the stored user preferences
func printPreferences(w io.Writer, cfg config.Config) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Key", "Value"})
	t.AppendRows([]table.Row{
		{"default_url", cfg.DefaultURL},
		{"top_k", cfg.TopK},
	})
	t.Render()
}
