package chart

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/LeoCastillo21/Proyecto/internal/stats"
)

func samplePoints() []stats.Point {
	return []stats.Point{
		{Category: "Goleadores", Name: "Kylian Mbappé", Value: 24},
		{Category: "Goleadores", Name: "Robert Lewandowski", Value: 19},
		{Category: "Goles en propia", Name: "Ante Budimir", Value: 3},
	}
}

func TestRender(t *testing.T) {
	p, err := Render(samplePoints(), DefaultOptions())
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	if p.Title.Text != "Estadisticas" {
		t.Errorf("Title = %q, want Estadisticas", p.Title.Text)
	}
	if p.X.Label.Text != "Total" || p.Y.Label.Text != "Nombres" {
		t.Errorf("labels = %q/%q", p.X.Label.Text, p.Y.Label.Text)
	}
	if p.X.Max < 24 {
		t.Errorf("X.Max = %v, should cover the largest value", p.X.Max)
	}
}

func TestRender_NoData(t *testing.T) {
	if _, err := Render(nil, DefaultOptions()); !errors.Is(err, ErrNoData) {
		t.Errorf("Render(nil) error = %v, want ErrNoData", err)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		magic   string
		wantErr bool
	}{
		{name: "png", file: "chart.png", magic: "\x89PNG"},
		{name: "svg", file: "chart.svg", magic: "<?xml"},
		{name: "missing directory", file: filepath.Join("charts", "la-liga", "chart.png"), magic: "\x89PNG"},
		{name: "unsupported extension", file: "chart.txt", wantErr: true},
		{name: "no extension", file: "chart", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			err := Save(samplePoints(), path, DefaultOptions())

			if tt.wantErr {
				if err == nil {
					t.Error("Save() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Save() unexpected error: %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(data, []byte(tt.magic)) {
				t.Errorf("%s does not start with %q", tt.file, tt.magic)
			}
		})
	}
}

func TestWriteImage(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteImage(&buf, samplePoints(), "PNG", DefaultOptions()); err != nil {
		t.Fatalf("WriteImage() unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("WriteImage() did not produce a PNG")
	}

	if err := WriteImage(&buf, samplePoints(), "bmp", DefaultOptions()); err == nil {
		t.Error("WriteImage(bmp) expected error, got nil")
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, samplePoints(), 24); err != nil {
		t.Fatalf("WriteText() unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("WriteText() wrote %d lines, want 3", len(lines))
	}

	if got := strings.Count(lines[0], "█"); got != 24 {
		t.Errorf("longest bar has %d blocks, want 24", got)
	}
	if got := strings.Count(lines[2], "█"); got != 3 {
		t.Errorf("shortest bar has %d blocks, want 3", got)
	}
	if !strings.HasSuffix(lines[0], "24 (Goleadores)") {
		t.Errorf("line %q should end with value and category", lines[0])
	}

	// Names are padded so the bars line up
	col := func(line string) int {
		return utf8.RuneCountInString(line[:strings.Index(line, "│")])
	}
	if col(lines[0]) != col(lines[1]) {
		t.Errorf("bars not aligned:\n%s", buf.String())
	}
}

func TestWriteText_SingleCategory(t *testing.T) {
	points := []stats.Point{
		{Category: "Goleadores", Name: "A", Value: 2},
		{Category: "Goleadores", Name: "B", Value: 0},
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, points, 10); err != nil {
		t.Fatalf("WriteText() unexpected error: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "(Goleadores)") {
		t.Errorf("single category output should not repeat the category:\n%s", out)
	}
	if !strings.Contains(out, "B │ 0") {
		t.Errorf("zero value should have an empty bar:\n%s", out)
	}
}

func TestWriteText_NoData(t *testing.T) {
	if err := WriteText(&bytes.Buffer{}, nil, 10); !errors.Is(err, ErrNoData) {
		t.Errorf("WriteText(nil) error = %v, want ErrNoData", err)
	}
}

func TestWriteText_ExtremeValues(t *testing.T) {
	tests := []struct {
		name   string
		points []stats.Point
		want   []int // blocks per line
	}{
		{
			name: "infinite value",
			points: []stats.Point{
				{Name: "A", Value: math.Inf(1)},
				{Name: "B", Value: 10},
			},
			want: []int{10, 10},
		},
		{
			name: "not a number",
			points: []stats.Point{
				{Name: "A", Value: math.NaN()},
				{Name: "B", Value: 5},
			},
			want: []int{0, 10},
		},
		{
			name: "negative",
			points: []stats.Point{
				{Name: "A", Value: 4},
				{Name: "B", Value: -4},
			},
			want: []int{10, 0},
		},
		{
			name: "tiny against huge",
			points: []stats.Point{
				{Name: "A", Value: math.MaxFloat64},
				{Name: "B", Value: math.SmallestNonzeroFloat64},
			},
			want: []int{10, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteText(&buf, tt.points, 10); err != nil {
				t.Fatalf("WriteText() unexpected error: %v", err)
			}

			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("WriteText() wrote %d lines, want %d", len(lines), len(tt.want))
			}
			for i, want := range tt.want {
				if got := strings.Count(lines[i], "█"); got != want {
					t.Errorf("line %d has %d blocks, want %d: %q", i, got, want, lines[i])
				}
			}
		})
	}
}
