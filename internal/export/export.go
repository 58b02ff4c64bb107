package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/LeoCastillo21/Proyecto/internal/config"
	"github.com/LeoCastillo21/Proyecto/internal/stats"
)

// Format is an export file format
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("invalid export format: %s (must be json, csv or xlsx)", s)
	}
}

// FormatFromPath derives the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot infer export format from %q", path)
	}
	return ParseFormat(ext)
}

// Exporter writes pages below a data directory
type Exporter struct {
	dataDir string
}

// New creates a new Exporter instance
func New(dataDir string) (*Exporter, error) {
	dataDir, err := config.ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	return &Exporter{
		dataDir: dataDir,
	}, nil
}

// Path resolves name against the data directory unless it is absolute
func (e *Exporter) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(e.dataDir, name)
}

// DefaultName returns the file name used when no output is given, e.g. la-liga.json
func DefaultName(slug string, format Format) string {
	return fmt.Sprintf("%s.%s", slug, format)
}

// Write exports page to name in format and returns the path written
func (e *Exporter) Write(page *stats.Page, name string, format Format) (string, error) {
	path := e.Path(name)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	var err error
	switch format {
	case FormatJSON:
		err = writeFile(path, func(w io.Writer) error { return WriteJSON(w, page) })
	case FormatCSV:
		err = writeFile(path, func(w io.Writer) error { return WriteCSV(w, page) })
	case FormatXLSX:
		err = writeXLSX(path, page)
	default:
		err = fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return "", err
	}

	return path, nil
}

// ReadJSON loads a page previously exported as JSON
func ReadJSON(path string) (*stats.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	var page stats.Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}
	if page.Tables == nil {
		page.Tables = make([]*stats.Table, 0)
	}

	return &page, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	return nil
}

// WriteJSON encodes the whole page as indented JSON
func WriteJSON(w io.Writer, page *stats.Page) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(page); err != nil {
		return fmt.Errorf("encoding page: %w", err)
	}
	return nil
}

// WriteCSV writes one record per row with a category,position,name,total header
func WriteCSV(w io.Writer, page *stats.Page) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"category", "position", "name", "total"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, t := range page.Tables {
		for _, r := range t.Rows {
			if err := cw.Write([]string{t.Category, r.Position, r.Name, r.Total}); err != nil {
				return fmt.Errorf("writing CSV row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
