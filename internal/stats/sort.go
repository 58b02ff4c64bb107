package stats

import (
	"fmt"
	"sort"
	"strings"
)

// SortOrder represents the available row orderings for listings
type SortOrder string

const (
	SortByPosition SortOrder = "position"
	SortByTotal    SortOrder = "total"
	SortByName     SortOrder = "name"
)

// ParseSortOrder validates a user-supplied sort order
func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case "", SortByPosition:
		return SortByPosition, nil
	case SortByTotal, SortByName:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be position, total or name)", s)
	}
}

// SortRows sorts rows in place. SortByPosition keeps page order, which is
// already the ranking published by the site.
func SortRows(rows []*Row, order SortOrder) {
	switch order {
	case SortByTotal:
		sort.SliceStable(rows, func(i, j int) bool {
			return compareByTotal(rows[i], rows[j])
		})
	case SortByName:
		sort.SliceStable(rows, func(i, j int) bool {
			return Fold(rows[i].Name) < Fold(rows[j].Name)
		})
	}
}

// SortPage sorts every table of the page in place
func SortPage(p *Page, order SortOrder) {
	for _, t := range p.Tables {
		SortRows(t.Rows, order)
	}
}

// compareByTotal returns true if row i should come before row j.
// Numeric totals come first, highest first.
func compareByTotal(i, j *Row) bool {
	vi, errI := ParseTotal(i.Total)
	vj, errJ := ParseTotal(j.Total)

	if errI == nil && errJ == nil {
		if vi != vj {
			return vi > vj
		}
		return Fold(i.Name) < Fold(j.Name)
	}

	// If only one total is valid, put the valid one first
	if errI == nil {
		return true
	}
	if errJ == nil {
		return false
	}

	return Fold(i.Name) < Fold(j.Name)
}
