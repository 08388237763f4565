package renderer

import (
	"sort"

	"github.com/theoremus-urban-solutions/transport-catalogue/catalogue"
)

const labelFont = "Verdana"

// MapRenderer draws a catalogue as an SVG map.
type MapRenderer struct {
	settings Settings
}

func New(settings Settings) *MapRenderer {
	return &MapRenderer{settings: settings}
}

func (m *MapRenderer) Settings() Settings { return m.settings }

// Render draws every bus that has stops together with the stops it serves.
// Stops no bus serves are left out.
func (m *MapRenderer) Render(cat *catalogue.Catalogue) *Document {
	buses := routedBuses(cat)

	seen := make(map[catalogue.StopID]bool)
	var points []catalogue.Coordinates
	for _, bus := range buses {
		for _, sid := range bus.Stops {
			points = append(points, cat.StopByID(sid).Coordinates)
			seen[sid] = true
		}
	}
	stops := make([]catalogue.Stop, 0, len(seen))
	for sid := range seen {
		stops = append(stops, cat.StopByID(sid))
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].Name < stops[j].Name })

	proj := NewProjector(points, m.settings.Width, m.settings.Height, m.settings.Padding)
	doc := &Document{}

	for i, bus := range buses {
		doc.Add(m.routeLine(cat, bus, i, proj))
	}
	for i, bus := range buses {
		first := cat.StopByID(bus.Stops[0])
		m.addBusLabel(doc, bus.Name, i, proj.Project(first.Coordinates))
		last := bus.Stops[len(bus.Stops)-1]
		if !bus.IsRoundtrip && last != bus.Stops[0] {
			m.addBusLabel(doc, bus.Name, i, proj.Project(cat.StopByID(last).Coordinates))
		}
	}
	for _, stop := range stops {
		doc.Add(Circle{
			pathProps: pathProps{Fill: NamedColor("white")},
			Center:    proj.Project(stop.Coordinates),
			Radius:    m.settings.StopRadius,
		})
	}
	for _, stop := range stops {
		m.addStopLabel(doc, stop.Name, proj.Project(stop.Coordinates))
	}
	return doc
}

// routedBuses returns the buses with at least one stop, sorted by name.
func routedBuses(cat *catalogue.Catalogue) []catalogue.Bus {
	var buses []catalogue.Bus
	for _, bus := range cat.Buses() {
		if len(bus.Stops) > 0 {
			buses = append(buses, bus)
		}
	}
	sort.Slice(buses, func(i, j int) bool { return buses[i].Name < buses[j].Name })
	return buses
}

func (m *MapRenderer) paletteColor(i int) Color {
	if len(m.settings.ColorPalette) == 0 {
		return Color{}
	}
	return m.settings.ColorPalette[i%len(m.settings.ColorPalette)]
}

func (m *MapRenderer) routeLine(cat *catalogue.Catalogue, bus catalogue.Bus, i int, proj Projector) Polyline {
	line := Polyline{pathProps: pathProps{
		Fill:           NamedColor("none"),
		Stroke:         m.paletteColor(i),
		StrokeWidth:    m.settings.LineWidth,
		HasStrokeWidth: true,
		RoundCaps:      true,
	}}
	for _, sid := range bus.Traversal() {
		line.Points = append(line.Points, proj.Project(cat.StopByID(sid).Coordinates))
	}
	return line
}

func (m *MapRenderer) underlayer() pathProps {
	return pathProps{
		Fill:           m.settings.UnderlayerColor,
		Stroke:         m.settings.UnderlayerColor,
		StrokeWidth:    m.settings.UnderlayerWidth,
		HasStrokeWidth: true,
		RoundCaps:      true,
	}
}

func (m *MapRenderer) addBusLabel(doc *Document, name string, i int, at Point) {
	text := Text{
		Position:   at,
		Offset:     Point{X: m.settings.BusLabelOffset[0], Y: m.settings.BusLabelOffset[1]},
		FontSize:   m.settings.BusLabelFontSize,
		FontFamily: labelFont,
		FontWeight: "bold",
		Data:       name,
	}
	back := text
	back.pathProps = m.underlayer()
	text.pathProps = pathProps{Fill: m.paletteColor(i)}
	doc.Add(back)
	doc.Add(text)
}

func (m *MapRenderer) addStopLabel(doc *Document, name string, at Point) {
	text := Text{
		Position:   at,
		Offset:     Point{X: m.settings.StopLabelOffset[0], Y: m.settings.StopLabelOffset[1]},
		FontSize:   m.settings.StopLabelFontSize,
		FontFamily: labelFont,
		Data:       name,
	}
	back := text
	back.pathProps = m.underlayer()
	text.pathProps = pathProps{Fill: NamedColor("black")}
	doc.Add(back)
	doc.Add(text)
}
