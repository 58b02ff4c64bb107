package stats

import (
	"errors"
	"strings"
	"testing"
)

func TestParseTotal(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    float64
		wantErr bool
	}{
		{name: "integer", text: "24", want: 24},
		{name: "surrounding whitespace", text: "\n  17 \t", want: 17},
		{name: "decimal point", text: "0.85", want: 0.85},
		{name: "decimal comma", text: "7,5", want: 7.5},
		{name: "empty", text: "  ", wantErr: true},
		{name: "dash placeholder", text: "-", wantErr: true},
		{name: "text", text: "N/A", wantErr: true},
		{name: "signed", text: "-3", want: -3},
		{name: "infinity", text: "inf", wantErr: true},
		{name: "infinity word", text: "Infinity", wantErr: true},
		{name: "not a number", text: "NaN", wantErr: true},
		{name: "hex float", text: "0x1p4", wantErr: true},
		{name: "exponent", text: "1e3", wantErr: true},
		{name: "overflow", text: "1" + strings.Repeat("0", 400), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTotal(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrNotNumeric) {
					t.Errorf("ParseTotal(%q) error = %v, want ErrNotNumeric", tt.text, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTotal(%q) unexpected error: %v", tt.text, err)
			}
			if got != tt.want {
				t.Errorf("ParseTotal(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSeries(t *testing.T) {
	rows := []*Row{
		{Category: "Goleadores", Name: "B", Total: "10"},
		{Category: "Goleadores", Name: "C", Total: "24"},
		{Category: "Asistencias", Name: "A", Total: "10"},
	}

	points, err := Series(rows)
	if err != nil {
		t.Fatalf("Series() unexpected error: %v", err)
	}

	wantNames := []string{"C", "A", "B"}
	if len(points) != len(wantNames) {
		t.Fatalf("Series() returned %d points, want %d", len(points), len(wantNames))
	}
	for i, name := range wantNames {
		if points[i].Name != name {
			t.Errorf("points[%d].Name = %q, want %q", i, points[i].Name, name)
		}
	}
	if points[1].Category != "Asistencias" {
		t.Errorf("points[1].Category = %q, want Asistencias", points[1].Category)
	}
}

func TestSeries_NonNumeric(t *testing.T) {
	rows := []*Row{
		{Category: "Goleadores", Name: "A", Total: "3"},
		{Category: "Goleadores", Name: "B", Total: "tres"},
	}

	_, err := Series(rows)
	if !errors.Is(err, ErrNotNumeric) {
		t.Errorf("Series() error = %v, want ErrNotNumeric", err)
	}
}

func TestSeries_NonFinite(t *testing.T) {
	rows := []*Row{
		{Category: "Goleadores", Name: "A", Total: "Inf"},
		{Category: "Goleadores", Name: "B", Total: "10"},
	}

	points, err := Series(rows)
	if !errors.Is(err, ErrNotNumeric) {
		t.Errorf("Series() error = %v, want ErrNotNumeric", err)
	}
	if points != nil {
		t.Errorf("Series() points = %v, want nil", points)
	}
}

func TestSummarize(t *testing.T) {
	points := []Point{
		{Name: "A", Value: 24},
		{Name: "B", Value: 10},
		{Name: "C", Value: 5},
		{Name: "D", Value: 1},
	}

	got, err := Summarize(points)
	if err != nil {
		t.Fatalf("Summarize() unexpected error: %v", err)
	}

	want := Summary{Count: 4, Sum: 40, Mean: 10, Median: 7.5, Max: 24}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}

	if _, err := Summarize(nil); err == nil {
		t.Error("Summarize(nil) expected error, got nil")
	}
}
