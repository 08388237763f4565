package renderer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ColorKind tells which variant a Color holds
type ColorKind int

const (
	ColorNone ColorKind = iota
	ColorNamed
	ColorRGB
	ColorRGBA
)

// Color is an SVG paint value: unset, a named color, rgb() or rgba().
type Color struct {
	Kind    ColorKind
	Name    string
	Red     uint8
	Green   uint8
	Blue    uint8
	Opacity float64
}

func NamedColor(name string) Color { return Color{Kind: ColorNamed, Name: name} }

func RGB(r, g, b uint8) Color { return Color{Kind: ColorRGB, Red: r, Green: g, Blue: b} }

func RGBA(r, g, b uint8, opacity float64) Color {
	return Color{Kind: ColorRGBA, Red: r, Green: g, Blue: b, Opacity: opacity}
}

func (c Color) String() string {
	switch c.Kind {
	case ColorNamed:
		return c.Name
	case ColorRGB:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.Red, c.Green, c.Blue)
	case ColorRGBA:
		return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.Red, c.Green, c.Blue, formatNum(c.Opacity))
	default:
		return "none"
	}
}

// Point is a position on the canvas
type Point struct {
	X float64
	Y float64
}

// formatNum prints a float with six significant digits, trimming zeros.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&apos;",
	"<", "&lt;",
	">", "&gt;",
)

// pathProps are the presentation attributes shared by all shapes.
type pathProps struct {
	Fill           Color
	Stroke         Color
	StrokeWidth    float64
	HasStrokeWidth bool
	RoundCaps      bool // stroke-linecap and stroke-linejoin "round"
}

func (p pathProps) render(b *strings.Builder) {
	if p.Fill.Kind != ColorNone {
		fmt.Fprintf(b, ` fill="%s"`, p.Fill)
	}
	if p.Stroke.Kind != ColorNone {
		fmt.Fprintf(b, ` stroke="%s"`, p.Stroke)
	}
	if p.HasStrokeWidth {
		fmt.Fprintf(b, ` stroke-width="%s"`, formatNum(p.StrokeWidth))
	}
	if p.RoundCaps {
		b.WriteString(` stroke-linecap="round" stroke-linejoin="round"`)
	}
}

// Object is a renderable SVG element
type Object interface {
	renderTo(b *strings.Builder)
}

type Circle struct {
	pathProps
	Center Point
	Radius float64
}

func (c Circle) renderTo(b *strings.Builder) {
	fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%s"`, formatNum(c.Center.X), formatNum(c.Center.Y), formatNum(c.Radius))
	c.pathProps.render(b)
	b.WriteString("/>")
}

type Polyline struct {
	pathProps
	Points []Point
}

func (p Polyline) renderTo(b *strings.Builder) {
	b.WriteString(`<polyline points="`)
	for i, pt := range p.Points {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatNum(pt.X))
		b.WriteByte(',')
		b.WriteString(formatNum(pt.Y))
	}
	b.WriteByte('"')
	p.pathProps.render(b)
	b.WriteString("/>")
}

type Text struct {
	pathProps
	Position   Point
	Offset     Point
	FontSize   int
	FontFamily string
	FontWeight string
	Data       string
}

func (t Text) renderTo(b *strings.Builder) {
	b.WriteString("<text")
	t.pathProps.render(b)
	fmt.Fprintf(b, ` x="%s" y="%s" dx="%s" dy="%s" font-size="%d"`,
		formatNum(t.Position.X), formatNum(t.Position.Y), formatNum(t.Offset.X), formatNum(t.Offset.Y), t.FontSize)
	if t.FontFamily != "" {
		fmt.Fprintf(b, ` font-family="%s"`, t.FontFamily)
	}
	if t.FontWeight != "" {
		fmt.Fprintf(b, ` font-weight="%s"`, t.FontWeight)
	}
	b.WriteByte('>')
	b.WriteString(textEscaper.Replace(t.Data))
	b.WriteString("</text>")
}

// Document is an ordered list of SVG objects
type Document struct {
	objects []Object
}

func (d *Document) Add(o Object) { d.objects = append(d.objects, o) }

func (d *Document) Len() int { return len(d.objects) }

// String renders the whole document.
func (d *Document) String() string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" ?>\n")
	b.WriteString("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\">\n")
	for _, o := range d.objects {
		b.WriteString("  ")
		o.renderTo(&b)
		b.WriteByte('\n')
	}
	b.WriteString("</svg>")
	return b.String()
}

// WriteTo writes the rendered document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}
