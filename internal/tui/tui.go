// Package tui is the interactive terminal browser for league statistics.
//
// The window mirrors the desktop layout it replaces: one entry per league,
// a search box with a "Buscar" button, the results table, a category
// dropdown and a button that charts the selected category. Every action
// fetches the page again off the UI goroutine and applies the result with
// QueueUpdateDraw, so a slow site never freezes the interface.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/LeoCastillo21/Proyecto/internal/chart"
	"github.com/LeoCastillo21/Proyecto/internal/league"
	"github.com/LeoCastillo21/Proyecto/internal/stats"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Loader fetches the statistics page of the league identified by key
type Loader func(ctx context.Context, key string) (*stats.Page, error)

// Deps is what the browser needs from the rest of the program
type Deps struct {
	Leagues   []league.League
	Load      Loader
	ChartDir  string // when set, charts are also saved there as PNG
	ChartOpts chart.Options
}

const chartBarWidth = 40

// Browser holds the widgets and the current selection
type Browser struct {
	deps Deps
	app  *tview.Application

	leagues  *tview.List
	search   *tview.InputField
	results  *tview.Table
	category *tview.DropDown
	chart    *tview.TextView
	status   *tview.TextView
	focus    []tview.Primitive

	// queue applies UI updates; run starts background work. Both are
	// replaced in tests to make the browser synchronous.
	queue func(func())
	run   func(func())

	mu       sync.Mutex
	ctx      context.Context
	selected string // league slug
	gen      int    // incremented per request; stale responses are dropped
}

// New builds the browser widgets
func New(deps Deps) *Browser {
	b := &Browser{
		deps: deps,
		app:  tview.NewApplication(),
		ctx:  context.Background(),
	}
	b.queue = func(f func()) { b.app.QueueUpdateDraw(f) }
	b.run = func(f func()) { go f() }

	b.leagues = tview.NewList().ShowSecondaryText(false)
	for _, l := range deps.Leagues {
		slug := l.Slug
		b.leagues.AddItem(l.Name, l.URL, 0, func() { b.selectLeague(slug) })
	}
	b.leagues.SetBorder(true).SetTitle(" Ligas ")

	b.search = tview.NewInputField().SetLabel("Jugador: ").SetFieldWidth(30)
	b.search.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			b.doSearch()
		}
	})
	searchButton := tview.NewButton("Buscar").SetSelectedFunc(b.doSearch)

	b.results = tview.NewTable().SetFixed(1, 0).SetSelectable(true, false)
	b.results.SetBorder(true).SetTitle(" Estadisticas ")
	setHeader(b.results)

	b.category = tview.NewDropDown().SetLabel("Categoria: ")
	chartButton := tview.NewButton("Mostrar estadistica seleccionada").SetSelectedFunc(b.showChart)

	b.chart = tview.NewTextView().SetWrap(false)
	b.chart.SetBorder(true).SetTitle(" Grafico ")

	b.status = tview.NewTextView().SetText("Elige una liga")

	searchRow := tview.NewFlex().
		AddItem(b.search, 0, 1, false).
		AddItem(searchButton, 10, 0, false)

	chartRow := tview.NewFlex().
		AddItem(b.category, 0, 1, false).
		AddItem(chartButton, 34, 0, false)

	content := tview.NewFlex().
		AddItem(b.results, 0, 3, false).
		AddItem(b.chart, 0, 2, false)

	body := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(searchRow, 1, 0, false).
		AddItem(content, 0, 1, false).
		AddItem(chartRow, 1, 0, false).
		AddItem(b.status, 1, 0, false)

	root := tview.NewFlex().
		AddItem(b.leagues, 24, 0, true).
		AddItem(body, 0, 1, false)

	b.focus = []tview.Primitive{b.leagues, b.search, searchButton, b.results, b.category, chartButton}
	b.app.SetRoot(root, true).EnableMouse(true).SetInputCapture(b.cycleFocus)

	return b
}

// Run shows the browser until the user quits or ctx is canceled
func (b *Browser) Run(ctx context.Context) error {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()

	stop := context.AfterFunc(ctx, b.app.Stop)
	defer stop()

	if err := b.app.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}

// cycleFocus moves between widgets with Tab / Shift-Tab
func (b *Browser) cycleFocus(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() != tcell.KeyTab && ev.Key() != tcell.KeyBacktab {
		return ev
	}

	current := b.app.GetFocus()
	idx := 0
	for i, p := range b.focus {
		if p == current {
			idx = i
			break
		}
	}

	if ev.Key() == tcell.KeyTab {
		idx = (idx + 1) % len(b.focus)
	} else {
		idx = (idx - 1 + len(b.focus)) % len(b.focus)
	}
	b.app.SetFocus(b.focus[idx])
	return nil
}

// fetch loads the selected league in the background and hands the page to apply
func (b *Browser) fetch(what string, apply func(page *stats.Page)) {
	b.mu.Lock()
	slug := b.selected
	ctx := b.ctx
	b.gen++
	gen := b.gen
	b.mu.Unlock()

	if slug == "" {
		b.setStatus("Elige una liga primero")
		return
	}

	b.setStatus(fmt.Sprintf("Cargando %s...", what))

	b.run(func() {
		page, err := b.deps.Load(ctx, slug)

		b.queue(func() {
			b.mu.Lock()
			stale := gen != b.gen
			b.mu.Unlock()
			if stale {
				return
			}

			if err != nil {
				b.status.SetText("Error: " + err.Error())
				return
			}
			apply(page)
		})
	})
}

func (b *Browser) setStatus(text string) {
	b.status.SetText(text)
}

// selectLeague loads the full tables and the category list of a league
func (b *Browser) selectLeague(slug string) {
	b.mu.Lock()
	b.selected = slug
	b.mu.Unlock()

	b.search.SetText("")
	b.fetch(slug, func(page *stats.Page) {
		fillResults(b.results, page)
		b.setCategories(page.Categories())
		b.status.SetText(fmt.Sprintf("%s: %d categorias, %d jugadores", page.League, len(page.Tables), page.RowCount()))
	})
}

// doSearch reloads the league keeping only matching players
func (b *Browser) doSearch() {
	term := b.search.GetText()
	b.fetch("busqueda", func(page *stats.Page) {
		filtered := page.Search(term)
		fillResults(b.results, filtered)
		b.status.SetText(fmt.Sprintf("%d jugadores coinciden con %q", filtered.RowCount(), term))
	})
}

// showChart reloads the league and charts the category in the dropdown
func (b *Browser) showChart() {
	_, category := b.category.GetCurrentOption()
	if strings.TrimSpace(category) == "" {
		b.setStatus("Elige una categoria primero")
		return
	}

	b.fetch("grafico", func(page *stats.Page) {
		text, points, err := renderChart(page, category)
		if err != nil {
			b.status.SetText("Error: " + err.Error())
			return
		}
		b.chart.SetText(text).ScrollToBeginning()
		b.status.SetText(fmt.Sprintf("%s: %d jugadores", category, len(points)))

		if b.deps.ChartDir != "" {
			path := filepath.Join(b.deps.ChartDir, chartFileName(category))
			if err := chart.Save(points, path, b.deps.ChartOpts); err != nil {
				b.status.SetText("Error guardando grafico: " + err.Error())
				return
			}
			b.status.SetText(fmt.Sprintf("%s: %d jugadores, guardado en %s", category, len(points), path))
		}
	})
}

// setCategories replaces the dropdown options, keeping the selection when possible
func (b *Browser) setCategories(categories []string) {
	_, previous := b.category.GetCurrentOption()

	b.category.SetOptions(categories, nil)
	for i, c := range categories {
		if c == previous {
			b.category.SetCurrentOption(i)
			return
		}
	}
	if len(categories) > 0 {
		b.category.SetCurrentOption(0)
	}
}

func setHeader(table *tview.Table) {
	for col, title := range []string{"Position", "Name", "Total"} {
		table.SetCell(0, col, tview.NewTableCell(title).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1))
	}
}

// fillResults writes the page as a tree: a category line,
// the rows and a separator after each table
func fillResults(table *tview.Table, page *stats.Page) {
	table.Clear()
	setHeader(table)

	row := 1
	for _, t := range page.Tables {
		table.SetCell(row, 0, tview.NewTableCell("Category").SetTextColor(tcell.ColorAqua))
		table.SetCell(row, 1, tview.NewTableCell(t.Category).SetTextColor(tcell.ColorAqua))
		table.SetCell(row, 2, tview.NewTableCell(""))
		row++

		for _, r := range t.Rows {
			table.SetCell(row, 0, tview.NewTableCell(r.Position))
			table.SetCell(row, 1, tview.NewTableCell(r.Name))
			table.SetCell(row, 2, tview.NewTableCell(r.Total).SetAlign(tview.AlignRight))
			row++
		}

		for col := 0; col < 3; col++ {
			table.SetCell(row, col, tview.NewTableCell(strings.Repeat("─", 12)).SetSelectable(false))
		}
		row++
	}

	table.ScrollToBeginning()
}

// renderChart draws the text chart of the rows matching category
func renderChart(page *stats.Page, category string) (string, []stats.Point, error) {
	points, err := stats.Series(page.Select(category))
	if err != nil {
		return "", nil, err
	}
	if len(points) == 0 {
		return "", nil, chart.ErrNoData
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s - %s\n\n", chart.DefaultTitle, category)
	if err := chart.WriteText(&sb, points, chartBarWidth); err != nil {
		return "", nil, err
	}
	return sb.String(), points, nil
}

// chartFileName builds a file name such as goleadores-20260301-120000.png
func chartFileName(category string) string {
	slug := strings.Join(strings.Fields(stats.Fold(category)), "-")
	slug = strings.Map(func(r rune) rune {
		if r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, slug)
	if slug == "" {
		slug = "chart"
	}
	return fmt.Sprintf("%s-%s.png", slug, time.Now().Format("20060102-150405"))
}
