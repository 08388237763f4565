package snapshot

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/theoremus-urban-solutions/transport-catalogue/catalogue"
	"github.com/theoremus-urban-solutions/transport-catalogue/renderer"
	"github.com/theoremus-urban-solutions/transport-catalogue/router"
)

// Field numbers of the wire layout. Nested messages restart at 1.
const (
	fieldCatalogue protowire.Number = 1
	fieldRouter    protowire.Number = 2
	fieldRender    protowire.Number = 3
	fieldID        protowire.Number = 4
	fieldVersion   protowire.Number = 5

	// catalogue
	fieldStop     protowire.Number = 1
	fieldBus      protowire.Number = 2
	fieldDistance protowire.Number = 3

	// router
	fieldSettings     protowire.Number = 1
	fieldGraph        protowire.Number = 2
	fieldTableRow     protowire.Number = 3
	fieldStopVertices protowire.Number = 4
	fieldEdgeLabel    protowire.Number = 5

	// graph
	fieldVertexCount protowire.Number = 1
	fieldEdge        protowire.Number = 2
	fieldIncidence   protowire.Number = 3
)

// Encode serialises s into a single protobuf-wire blob.
func Encode(s *Snapshot) []byte {
	var b []byte
	b = appendMessage(b, fieldCatalogue, encodeCatalogue(s.Catalogue))
	if s.Router != nil {
		b = appendMessage(b, fieldRouter, encodeRouter(s.Router, s.Catalogue))
	}
	if s.Render != nil {
		b = appendMessage(b, fieldRender, encodeRender(*s.Render))
	}
	b = appendString(b, fieldID, s.ID)
	b = appendVarint(b, fieldVersion, s.Version)
	return b
}

func encodeCatalogue(cat *catalogue.Catalogue) []byte {
	var b []byte
	for _, stop := range cat.Stops() {
		var m []byte
		m = appendString(m, 1, stop.Name)
		m = appendDouble(m, 2, stop.Coordinates.Lat)
		m = appendDouble(m, 3, stop.Coordinates.Lng)
		b = appendMessage(b, fieldStop, m)
	}
	for _, bus := range cat.Buses() {
		var m []byte
		m = appendString(m, 1, bus.Name)
		ids := make([]uint64, len(bus.Stops))
		for i, sid := range bus.Stops {
			ids[i] = uint64(sid)
		}
		m = appendPacked(m, 2, ids)
		m = appendBool(m, 3, bus.IsRoundtrip)
		b = appendMessage(b, fieldBus, m)
	}
	for _, d := range cat.Distances() {
		var m []byte
		m = appendVarint(m, 1, uint64(d.From))
		m = appendVarint(m, 2, uint64(d.To))
		m = appendVarint(m, 3, protowire.EncodeZigZag(int64(d.Meters)))
		b = appendMessage(b, fieldDistance, m)
	}
	return b
}

func encodeRouter(r *router.TransportRouter, cat *catalogue.Catalogue) []byte {
	var b []byte

	var settings []byte
	settings = appendVarint(settings, 1, uint64(r.Settings().BusWaitTime))
	settings = appendVarint(settings, 2, uint64(r.Settings().BusVelocity))
	b = appendMessage(b, fieldSettings, settings)

	g := r.Engine().Graph()
	var gb []byte
	gb = appendVarint(gb, fieldVertexCount, uint64(g.VertexCount()))
	for id := 0; id < g.EdgeCount(); id++ {
		e := g.Edge(id)
		var m []byte
		m = appendVarint(m, 1, uint64(e.From))
		m = appendVarint(m, 2, uint64(e.To))
		m = appendDouble(m, 3, e.Weight)
		gb = appendMessage(gb, fieldEdge, m)
	}
	for v := 0; v < g.VertexCount(); v++ {
		list := g.IncidentEdges(v)
		ids := make([]uint64, len(list))
		for i, id := range list {
			ids[i] = uint64(id)
		}
		gb = appendMessage(gb, fieldIncidence, appendPacked(nil, 1, ids))
	}
	b = appendMessage(b, fieldGraph, gb)

	// Each cell is a nested message; unreachable cells are empty.
	for _, row := range r.Engine().Table() {
		var rb []byte
		for _, cell := range row {
			var m []byte
			if cell.Reachable {
				m = appendBool(m, 1, true)
				m = appendDouble(m, 2, cell.Weight)
				if cell.HasPrev {
					m = appendVarint(m, 3, uint64(cell.PrevEdge)+1)
				}
			}
			rb = appendMessage(rb, 1, m)
		}
		b = appendMessage(b, fieldTableRow, rb)
	}

	// Stop vertices are keyed by catalogue stop index, in stop order.
	for id, stop := range cat.Stops() {
		sv, ok := r.StopVertices()[stop.Name]
		if !ok {
			continue
		}
		var m []byte
		m = appendVarint(m, 1, uint64(id))
		m = appendVarint(m, 2, uint64(sv.Arrival))
		m = appendVarint(m, 3, uint64(sv.Departure))
		b = appendMessage(b, fieldStopVertices, m)
	}

	for _, seg := range r.EdgeLabels() {
		var m []byte
		m = appendVarint(m, 1, uint64(seg.Kind))
		m = appendString(m, 2, seg.Name)
		m = appendDouble(m, 3, seg.Time)
		if seg.Kind == router.SegmentRide {
			m = appendVarint(m, 4, uint64(seg.SpanCount))
		}
		b = appendMessage(b, fieldEdgeLabel, m)
	}
	return b
}

func encodeRender(s renderer.Settings) []byte {
	var b []byte
	b = appendDouble(b, 1, s.Width)
	b = appendDouble(b, 2, s.Height)
	b = appendDouble(b, 3, s.Padding)
	b = appendDouble(b, 4, s.LineWidth)
	b = appendDouble(b, 5, s.StopRadius)
	b = appendVarint(b, 6, protowire.EncodeZigZag(int64(s.BusLabelFontSize)))
	b = appendDouble(b, 7, s.BusLabelOffset[0])
	b = appendDouble(b, 8, s.BusLabelOffset[1])
	b = appendVarint(b, 9, protowire.EncodeZigZag(int64(s.StopLabelFontSize)))
	b = appendDouble(b, 10, s.StopLabelOffset[0])
	b = appendDouble(b, 11, s.StopLabelOffset[1])
	b = appendMessage(b, 12, encodeColor(s.UnderlayerColor))
	b = appendDouble(b, 13, s.UnderlayerWidth)
	for _, c := range s.ColorPalette {
		b = appendMessage(b, 14, encodeColor(c))
	}
	return b
}

func encodeColor(c renderer.Color) []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(c.Kind))
	switch c.Kind {
	case renderer.ColorNamed:
		b = appendString(b, 2, c.Name)
	case renderer.ColorRGB, renderer.ColorRGBA:
		b = appendVarint(b, 3, uint64(c.Red))
		b = appendVarint(b, 4, uint64(c.Green))
		b = appendVarint(b, 5, uint64(c.Blue))
		if c.Kind == renderer.ColorRGBA {
			b = appendDouble(b, 6, c.Opacity)
		}
	}
	return b
}

func appendMessage(b []byte, num protowire.Number, m []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	return appendVarint(b, num, protowire.EncodeBool(v))
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendPacked(b []byte, num protowire.Number, vs []uint64) []byte {
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendVarint(packed, v)
	}
	return appendMessage(b, num, packed)
}
