package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/LeoCastillo21/Proyecto/internal/league"
	"github.com/LeoCastillo21/Proyecto/internal/stats"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

const separatorWidth = 60

// parseOutputFormat validates the --format flag
func parseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// CategoriesResult is the JSON document printed by the categories command
type CategoriesResult struct {
	League     string   `json:"league"`
	Categories []string `json:"categories"`
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeLeagues lists the available leagues
func writeLeagues(w io.Writer, leagues []league.League, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, leagues)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tNAME\tURL")
	for _, l := range leagues {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l.Slug, l.Name, l.URL)
	}
	return tw.Flush()
}

// writePage prints the statistics tables in the shape of a tree
// view: a category header line, the rows, and a separator after each table.
func writePage(w io.Writer, page *stats.Page, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, page)
	}

	if len(page.Tables) == 0 {
		fmt.Fprintln(w, "No statistics found.")
		return nil
	}

	fmt.Fprintf(w, "%s (%s)\n\n", page.League, page.URL)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Position\tName\tTotal")
	for _, t := range page.Tables {
		fmt.Fprintf(tw, "Category\t%s\t\n", t.Category)
		for _, r := range t.Rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Position, r.Name, r.Total)
		}
		if verbose && t.Skipped > 0 {
			fmt.Fprintf(tw, "\t(%d malformed rows skipped)\t\n", t.Skipped)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w, strings.Repeat("-", separatorWidth))
	}

	fmt.Fprintf(w, "\nTotal: %d rows across %d categories\n", page.RowCount(), len(page.Tables))
	if verbose {
		fmt.Fprintf(w, "Fetched at: %s\n", page.FetchedAt.Format(time.RFC3339))
	}

	return nil
}

// writeCategories lists the category titles of a page
func writeCategories(w io.Writer, page *stats.Page, format OutputFormat) error {
	categories := page.Categories()

	if format == FormatJSON {
		return writeJSON(w, &CategoriesResult{League: page.League, Categories: categories})
	}

	if len(categories) == 0 {
		fmt.Fprintln(w, "No categories found.")
		return nil
	}
	for _, c := range categories {
		fmt.Fprintln(w, c)
	}
	return nil
}

// writeSummary prints the descriptive statistics under a text chart
func writeSummary(w io.Writer, s stats.Summary) {
	fmt.Fprintf(w, "\n%d players, total %s, mean %.2f, median %s, max %s\n",
		s.Count, trimFloat(s.Sum), s.Mean, trimFloat(s.Median), trimFloat(s.Max))
}

func trimFloat(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
