package stats

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	mstats "github.com/montanaflynn/stats"
)

// ErrNotNumeric is returned when a row total cannot be charted
var ErrNotNumeric = errors.New("total is not numeric")

// Point is one bar of a chart
type Point struct {
	Category string  `json:"category"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
}

// Summary describes the values of a chart selection
type Summary struct {
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// decimalPattern is the accepted shape of a total after comma conversion
var decimalPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// ParseTotal parses a row total. A decimal comma ("7,5") is accepted.
func ParseTotal(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrNotNumeric)
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	if !decimalPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, text)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, text)
	}
	return v, nil
}

// Series converts rows to chart points sorted by value descending.
// Ties are broken by name so the output is stable.
func Series(rows []*Row) ([]Point, error) {
	points := make([]Point, 0, len(rows))
	for _, r := range rows {
		v, err := ParseTotal(r.Total)
		if err != nil {
			return nil, fmt.Errorf("row %s (%s): %w", r.Name, r.Category, err)
		}
		points = append(points, Point{Category: r.Category, Name: r.Name, Value: v})
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Value != points[j].Value {
			return points[i].Value > points[j].Value
		}
		return points[i].Name < points[j].Name
	})

	return points, nil
}

// Summarize computes descriptive statistics over point values
func Summarize(points []Point) (Summary, error) {
	if len(points) == 0 {
		return Summary{}, mstats.ErrEmptyInput
	}

	data := make(mstats.Float64Data, len(points))
	for i, p := range points {
		data[i] = p.Value
	}

	sum, err := data.Sum()
	if err != nil {
		return Summary{}, fmt.Errorf("sum: %w", err)
	}
	mean, err := data.Mean()
	if err != nil {
		return Summary{}, fmt.Errorf("mean: %w", err)
	}
	median, err := data.Median()
	if err != nil {
		return Summary{}, fmt.Errorf("median: %w", err)
	}
	max, err := data.Max()
	if err != nil {
		return Summary{}, fmt.Errorf("max: %w", err)
	}

	return Summary{
		Count:  len(points),
		Sum:    sum,
		Mean:   mean,
		Median: median,
		Max:    max,
	}, nil
}
