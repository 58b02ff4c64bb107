package stats

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// Row is a single line of a category table
type Row struct {
	Category string `json:"category"`
	Position string `json:"position"`
	Name     string `json:"name"`
	Total    string `json:"total"` // numeric-as-text, see ParseTotal
}

// Table is one statistical category as it appears on the page
type Table struct {
	Category string `json:"category"`
	Rows     []*Row `json:"rows"`
	Skipped  int    `json:"skipped,omitempty"` // malformed rows dropped while parsing
}

// Page is the result of scraping one league statistics page
type Page struct {
	League    string    `json:"league"`
	URL       string    `json:"url"`
	Tables    []*Table  `json:"tables"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewTable creates an empty table for a category
func NewTable(category string) *Table {
	return &Table{
		Category: category,
		Rows:     make([]*Row, 0),
	}
}

// Add appends a row, stamping it with the table's category
func (t *Table) Add(position, name, total string) *Row {
	row := &Row{
		Category: t.Category,
		Position: position,
		Name:     name,
		Total:    total,
	}
	t.Rows = append(t.Rows, row)
	return row
}

// Categories returns the category titles in page order without duplicates
func (p *Page) Categories() []string {
	titles := lo.Map(p.Tables, func(t *Table, _ int) string {
		return t.Category
	})
	return lo.Uniq(titles)
}

// RowCount returns the number of rows across all tables
func (p *Page) RowCount() int {
	return lo.SumBy(p.Tables, func(t *Table) int {
		return len(t.Rows)
	})
}

// Search returns a copy of the page keeping only rows whose name contains term.
// Matching ignores case and accents. Every category is kept, even when none of
// its rows match, so listings still show the category headers.
func (p *Page) Search(term string) *Page {
	needle := Fold(strings.TrimSpace(term))

	out := &Page{
		League:    p.League,
		URL:       p.URL,
		FetchedAt: p.FetchedAt,
		Tables:    make([]*Table, 0, len(p.Tables)),
	}

	for _, t := range p.Tables {
		filtered := &Table{
			Category: t.Category,
			Skipped:  t.Skipped,
			Rows: lo.Filter(t.Rows, func(r *Row, _ int) bool {
				return needle == "" || strings.Contains(Fold(r.Name), needle)
			}),
		}
		out.Tables = append(out.Tables, filtered)
	}

	return out
}

// Select returns the rows of every table whose title contains category,
// ignoring case. An empty category matches nothing.
func (p *Page) Select(category string) []*Row {
	needle := Fold(strings.TrimSpace(category))
	if needle == "" {
		return nil
	}

	rows := make([]*Row, 0)
	for _, t := range p.Tables {
		if strings.Contains(Fold(t.Category), needle) {
			rows = append(rows, t.Rows...)
		}
	}
	return rows
}
