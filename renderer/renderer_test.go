package renderer

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/theoremus-urban-solutions/transport-catalogue/catalogue"
)

func testSettings() Settings {
	return Settings{
		Width:             200,
		Height:            200,
		Padding:           10,
		LineWidth:         14,
		StopRadius:        5,
		BusLabelFontSize:  20,
		BusLabelOffset:    [2]float64{7, 15},
		StopLabelFontSize: 18,
		StopLabelOffset:   [2]float64{7, -3},
		UnderlayerColor:   RGBA(255, 255, 255, 0.85),
		UnderlayerWidth:   3,
		ColorPalette:      []Color{NamedColor("green"), RGB(255, 160, 0)},
	}
}

func TestRender_LineBus(t *testing.T) {
	cat := catalogue.New()
	cat.AddStop("A", catalogue.Coordinates{Lat: 0, Lng: 0})
	cat.AddStop("B", catalogue.Coordinates{Lat: 1, Lng: 1})
	cat.AddStop("Unserved", catalogue.Coordinates{Lat: 5, Lng: 5})
	cat.AddBus("1", []string{"A", "B"}, false)

	got := New(testSettings()).Render(cat).String()

	under := `fill="rgba(255,255,255,0.85)" stroke="rgba(255,255,255,0.85)" stroke-width="3" stroke-linecap="round" stroke-linejoin="round"`
	want := strings.Join([]string{
		`<?xml version="1.0" encoding="UTF-8" ?>`,
		`<svg xmlns="http://www.w3.org/2000/svg" version="1.1">`,
		`  <polyline points="10,190 190,10 10,190" fill="none" stroke="green" stroke-width="14" stroke-linecap="round" stroke-linejoin="round"/>`,
		`  <text ` + under + ` x="10" y="190" dx="7" dy="15" font-size="20" font-family="Verdana" font-weight="bold">1</text>`,
		`  <text fill="green" x="10" y="190" dx="7" dy="15" font-size="20" font-family="Verdana" font-weight="bold">1</text>`,
		`  <text ` + under + ` x="190" y="10" dx="7" dy="15" font-size="20" font-family="Verdana" font-weight="bold">1</text>`,
		`  <text fill="green" x="190" y="10" dx="7" dy="15" font-size="20" font-family="Verdana" font-weight="bold">1</text>`,
		`  <circle cx="10" cy="190" r="5" fill="white"/>`,
		`  <circle cx="190" cy="10" r="5" fill="white"/>`,
		`  <text ` + under + ` x="10" y="190" dx="7" dy="-3" font-size="18" font-family="Verdana">A</text>`,
		`  <text fill="black" x="10" y="190" dx="7" dy="-3" font-size="18" font-family="Verdana">A</text>`,
		`  <text ` + under + ` x="190" y="10" dx="7" dy="-3" font-size="18" font-family="Verdana">B</text>`,
		`  <text fill="black" x="190" y="10" dx="7" dy="-3" font-size="18" font-family="Verdana">B</text>`,
		`</svg>`,
	}, "\n")

	if got != want {
		t.Errorf("unexpected document\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_PaletteCyclesAndLoopLabels(t *testing.T) {
	cat := catalogue.New()
	cat.AddStop("A", catalogue.Coordinates{Lat: 0, Lng: 0})
	cat.AddStop("B", catalogue.Coordinates{Lat: 1, Lng: 1})
	cat.AddBus("c", []string{"A", "B", "A"}, true)
	cat.AddBus("b", []string{"B", "A"}, false)
	cat.AddBus("a", []string{"A", "B"}, false)
	cat.AddBus("empty", nil, true)

	doc := New(testSettings()).Render(cat)
	lines := strings.Split(doc.String(), "\n")

	// three polylines, labels: a(2 ends) b(2 ends) c(loop, 1) => 5 pairs
	polylines := 0
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "<polyline") {
			polylines++
		}
	}
	if polylines != 3 {
		t.Fatalf("expected 3 polylines, got %d", polylines)
	}
	if !strings.Contains(lines[2], `stroke="green"`) || !strings.Contains(lines[3], `stroke="rgb(255,160,0)"`) || !strings.Contains(lines[4], `stroke="green"`) {
		t.Errorf("palette did not cycle by bus name order:\n%s", strings.Join(lines[2:5], "\n"))
	}
	// 3 polylines + 10 bus label texts + 2 circles + 4 stop label texts
	if doc.Len() != 19 {
		t.Errorf("expected 19 objects, got %d", doc.Len())
	}
}

func TestText_Escaping(t *testing.T) {
	var b strings.Builder
	Text{Data: `Tom & "Jerry's" <x>`}.renderTo(&b)
	want := `Tom &amp; &quot;Jerry&apos;s&quot; &lt;x&gt;`
	if !strings.Contains(b.String(), want) {
		t.Errorf("expected escaped text %q in %q", want, b.String())
	}
}

func TestProjector_DegenerateExtent(t *testing.T) {
	tests := []struct {
		name   string
		points []catalogue.Coordinates
		probe  catalogue.Coordinates
		want   Point
	}{
		{
			name:   "single point sits on padding",
			points: []catalogue.Coordinates{{Lat: 3, Lng: 4}},
			probe:  catalogue.Coordinates{Lat: 3, Lng: 4},
			want:   Point{X: 10, Y: 10},
		},
		{
			name:   "vertical extent only",
			points: []catalogue.Coordinates{{Lat: 0, Lng: 4}, {Lat: 2, Lng: 4}},
			probe:  catalogue.Coordinates{Lat: 0, Lng: 4},
			want:   Point{X: 10, Y: 190},
		},
		{
			name:   "no points",
			points: nil,
			probe:  catalogue.Coordinates{Lat: 1, Lng: 1},
			want:   Point{X: 10, Y: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewProjector(tt.points, 200, 200, 10).Project(tt.probe)
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestColor_JSON(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: `"red"`, want: "red"},
		{in: `[1,2,3]`, want: "rgb(1,2,3)"},
		{in: `[1,2,3,0.5]`, want: "rgba(1,2,3,0.5)"},
		{in: `[1,2]`, wantErr: true},
		{in: `[256,0,0]`, wantErr: true},
		{in: `[0,0,0,1.5]`, wantErr: true},
		{in: `{}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c Color
			err := json.Unmarshal([]byte(tt.in), &c)
			if tt.wantErr {
				if !errors.Is(err, catalogue.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if c.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, c.String())
			}
			out, err := json.Marshal(c)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(out) != tt.in {
				t.Errorf("expected %s back, got %s", tt.in, out)
			}
		})
	}
}

func TestSettings_Validate(t *testing.T) {
	s := testSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}
	s.Padding = 150
	if err := s.Validate(); !errors.Is(err, catalogue.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for oversized padding, got %v", err)
	}
	s = testSettings()
	s.Width = 0
	if err := s.Validate(); !errors.Is(err, catalogue.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero width, got %v", err)
	}
}
