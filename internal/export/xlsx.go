package export

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/LeoCastillo21/Proyecto/internal/stats"
	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")",
)

// writeXLSX writes one sheet per category table
func writeXLSX(path string, page *stats.Page) error {
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	used := make(map[string]bool)

	if len(page.Tables) == 0 {
		if err := f.SetSheetName(first, "Empty"); err != nil {
			return fmt.Errorf("naming sheet: %w", err)
		}
	}

	for i, t := range page.Tables {
		name := sheetName(t.Category, used)

		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return fmt.Errorf("naming sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %q: %w", name, err)
		}

		if err := f.SetSheetRow(name, "A1", &[]interface{}{"Position", "Name", "Total"}); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}

		for j, r := range t.Rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}

			var total interface{} = r.Total
			if v, err := stats.ParseTotal(r.Total); err == nil {
				total = v
			}

			if err := f.SetSheetRow(name, cell, &[]interface{}{r.Position, r.Name, total}); err != nil {
				return fmt.Errorf("writing row %d of %q: %w", j+1, name, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// sheetName makes a category title a valid, unique worksheet name
func sheetName(category string, used map[string]bool) string {
	base := strings.TrimSpace(sheetNameReplacer.Replace(category))
	base = strings.Trim(base, "'")
	if base == "" {
		base = "Sheet"
	}
	base = strings.TrimSpace(truncate(base, maxSheetName))

	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true

	return name
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
