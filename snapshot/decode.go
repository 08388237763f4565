package snapshot

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/theoremus-urban-solutions/transport-catalogue/catalogue"
	"github.com/theoremus-urban-solutions/transport-catalogue/renderer"
	"github.com/theoremus-urban-solutions/transport-catalogue/router"
)

// Decode restores a snapshot written by Encode. The catalogue is rebuilt
// first, then the routing graph and the stored shortest-path table are
// wrapped into a router; the table is not recomputed.
// Every failure wraps ErrCorruptSnapshot.
func Decode(data []byte) (*Snapshot, error) {
	s, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return s, nil
}

func decode(data []byte) (*Snapshot, error) {
	fields, err := parseFields(data)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{}
	var catData, routerData, renderData []byte
	var hasRouter, hasRender, hasVersion bool
	for _, f := range fields {
		switch f.num {
		case fieldCatalogue:
			if catData, err = f.bytes(); err != nil {
				return nil, err
			}
		case fieldRouter:
			if routerData, err = f.bytes(); err != nil {
				return nil, err
			}
			hasRouter = true
		case fieldRender:
			if renderData, err = f.bytes(); err != nil {
				return nil, err
			}
			hasRender = true
		case fieldID:
			b, err := f.bytes()
			if err != nil {
				return nil, err
			}
			s.ID = string(b)
		case fieldVersion:
			if s.Version, err = f.varint(); err != nil {
				return nil, err
			}
			hasVersion = true
		}
	}
	if !hasVersion {
		return nil, fmt.Errorf("missing format version")
	}
	if s.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported format version %d", s.Version)
	}

	if s.Catalogue, err = decodeCatalogue(catData); err != nil {
		return nil, fmt.Errorf("catalogue: %w", err)
	}
	if hasRouter {
		if s.Router, err = decodeRouter(routerData, s.Catalogue); err != nil {
			return nil, fmt.Errorf("router: %w", err)
		}
	}
	if hasRender {
		settings, err := decodeRender(renderData)
		if err != nil {
			return nil, fmt.Errorf("render settings: %w", err)
		}
		s.Render = &settings
	}
	return s, nil
}

func decodeCatalogue(data []byte) (*catalogue.Catalogue, error) {
	fields, err := parseFields(data)
	if err != nil {
		return nil, err
	}
	var stops, buses, distances [][]byte
	for _, f := range fields {
		b, err := f.bytes()
		if err != nil {
			return nil, err
		}
		switch f.num {
		case fieldStop:
			stops = append(stops, b)
		case fieldBus:
			buses = append(buses, b)
		case fieldDistance:
			distances = append(distances, b)
		}
	}

	cat := catalogue.New()
	for i, b := range stops {
		var stop catalogue.Stop
		err := eachField(b, func(f field) error {
			var err error
			switch f.num {
			case 1:
				stop.Name, err = f.string()
			case 2:
				stop.Coordinates.Lat, err = f.double()
			case 3:
				stop.Coordinates.Lng, err = f.double()
			}
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", i, err)
		}
		if cat.HasStop(stop.Name) {
			return nil, fmt.Errorf("duplicate stop %q", stop.Name)
		}
		cat.AddStop(stop.Name, stop.Coordinates)
	}

	stopName := func(id uint64) (string, error) {
		if id >= uint64(cat.StopCount()) {
			return "", fmt.Errorf("stop index %d out of range", id)
		}
		return cat.StopByID(catalogue.StopID(id)).Name, nil
	}

	for i, b := range buses {
		var name string
		var names []string
		var loop bool
		err := eachField(b, func(f field) error {
			switch f.num {
			case 1:
				var err error
				name, err = f.string()
				return err
			case 2:
				raw, err := f.bytes()
				if err != nil {
					return err
				}
				ids, err := unpack(raw)
				if err != nil {
					return err
				}
				for _, id := range ids {
					n, err := stopName(id)
					if err != nil {
						return err
					}
					names = append(names, n)
				}
			case 3:
				v, err := f.varint()
				if err != nil {
					return err
				}
				loop = protowire.DecodeBool(v)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("bus %d: %w", i, err)
		}
		if cat.HasBus(name) {
			return nil, fmt.Errorf("duplicate bus %q", name)
		}
		cat.AddBus(name, names, loop)
	}

	for i, b := range distances {
		var from, to string
		var meters int64
		err := eachField(b, func(f field) error {
			v, err := f.varint()
			if err != nil {
				return err
			}
			switch f.num {
			case 1:
				from, err = stopName(v)
			case 2:
				to, err = stopName(v)
			case 3:
				meters = protowire.DecodeZigZag(v)
			}
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("distance %d: %w", i, err)
		}
		if from == "" || to == "" {
			return nil, fmt.Errorf("distance %d is missing an endpoint", i)
		}
		if meters < 0 || meters > math.MaxInt32 {
			return nil, fmt.Errorf("distance %d: %d meters out of range", i, meters)
		}
		cat.AddDistance(from, to, int(meters))
	}
	return cat, nil
}

func decodeRouter(data []byte, cat *catalogue.Catalogue) (*router.TransportRouter, error) {
	fields, err := parseFields(data)
	if err != nil {
		return nil, err
	}

	var settings router.RoutingSettings
	var graphData []byte
	var rows [][]byte
	stopVertices := make(map[string]router.StopVertices, cat.StopCount())
	var labels []router.Segment

	for _, f := range fields {
		b, err := f.bytes()
		if err != nil {
			return nil, err
		}
		switch f.num {
		case fieldSettings:
			err = eachField(b, func(f field) error {
				v, err := f.int()
				switch f.num {
				case 1:
					settings.BusWaitTime = v
				case 2:
					settings.BusVelocity = v
				}
				return err
			})
		case fieldGraph:
			graphData = b
		case fieldTableRow:
			rows = append(rows, b)
		case fieldStopVertices:
			err = decodeStopVertices(b, cat, stopVertices)
		case fieldEdgeLabel:
			var seg router.Segment
			seg, err = decodeLabel(b)
			labels = append(labels, seg)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	g, err := decodeGraph(graphData)
	if err != nil {
		return nil, fmt.Errorf("graph: %w", err)
	}
	if g.VertexCount() != 2*cat.StopCount() {
		return nil, fmt.Errorf("graph has %d vertices for %d stops", g.VertexCount(), cat.StopCount())
	}
	if len(stopVertices) != cat.StopCount() {
		return nil, fmt.Errorf("vertices for %d of %d stops", len(stopVertices), cat.StopCount())
	}

	if err := checkLabels(labels, g, cat); err != nil {
		return nil, err
	}

	table := make([][]router.RouteData, 0, len(rows))
	for i, b := range rows {
		row, err := decodeRow(b)
		if err != nil {
			return nil, fmt.Errorf("table row %d: %w", i, err)
		}
		table = append(table, row)
	}
	engine, err := router.RestoreEngine(g, table)
	if err != nil {
		return nil, err
	}
	return router.Restore(settings, engine, stopVertices, labels)
}

// checkLabels resolves every label against the catalogue: waits name stops,
// rides name buses, and each label lasts as long as its edge weighs.
func checkLabels(labels []router.Segment, g *router.Graph, cat *catalogue.Catalogue) error {
	if len(labels) != g.EdgeCount() {
		return fmt.Errorf("%d edge labels for %d edges", len(labels), g.EdgeCount())
	}
	for i, seg := range labels {
		switch seg.Kind {
		case router.SegmentWait:
			if !cat.HasStop(seg.Name) {
				return fmt.Errorf("edge %d waits at unknown stop %q", i, seg.Name)
			}
			if seg.SpanCount != 0 {
				return fmt.Errorf("edge %d: wait with span count %d", i, seg.SpanCount)
			}
		case router.SegmentRide:
			if !cat.HasBus(seg.Name) {
				return fmt.Errorf("edge %d rides unknown bus %q", i, seg.Name)
			}
			if seg.SpanCount < 1 {
				return fmt.Errorf("edge %d: ride with span count %d", i, seg.SpanCount)
			}
		}
		if w := g.Edge(i).Weight; seg.Time != w {
			return fmt.Errorf("edge %d: label time %v, edge weight %v", i, seg.Time, w)
		}
	}
	return nil
}

func decodeGraph(data []byte) (*router.Graph, error) {
	fields, err := parseFields(data)
	if err != nil {
		return nil, err
	}
	vertexCount := -1
	var edges []router.Edge
	var incidence [][]router.EdgeID
	for _, f := range fields {
		switch f.num {
		case fieldVertexCount:
			if vertexCount, err = f.int(); err != nil {
				return nil, err
			}
		case fieldEdge:
			b, err := f.bytes()
			if err != nil {
				return nil, err
			}
			var e router.Edge
			err = eachField(b, func(f field) error {
				var err error
				switch f.num {
				case 1:
					e.From, err = f.int()
				case 2:
					e.To, err = f.int()
				case 3:
					e.Weight, err = f.double()
				}
				return err
			})
			if err != nil {
				return nil, fmt.Errorf("edge %d: %w", len(edges), err)
			}
			if e.Weight < 0 || math.IsNaN(e.Weight) {
				return nil, fmt.Errorf("edge %d has weight %v", len(edges), e.Weight)
			}
			edges = append(edges, e)
		case fieldIncidence:
			b, err := f.bytes()
			if err != nil {
				return nil, err
			}
			list := []router.EdgeID{}
			err = eachField(b, func(f field) error {
				if f.num != 1 {
					return nil
				}
				raw, err := f.bytes()
				if err != nil {
					return err
				}
				ids, err := unpack(raw)
				if err != nil {
					return err
				}
				for _, id := range ids {
					if id > math.MaxInt32 {
						return fmt.Errorf("edge id %d out of range", id)
					}
					list = append(list, router.EdgeID(id))
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("incidence %d: %w", len(incidence), err)
			}
			incidence = append(incidence, list)
		}
	}
	if vertexCount != len(incidence) {
		return nil, fmt.Errorf("vertex count %d with %d incidence lists", vertexCount, len(incidence))
	}
	if edges == nil {
		edges = []router.Edge{}
	}
	return router.RestoreGraph(edges, incidence)
}

func decodeRow(data []byte) ([]router.RouteData, error) {
	var row []router.RouteData
	err := eachField(data, func(f field) error {
		if f.num != 1 {
			return nil
		}
		b, err := f.bytes()
		if err != nil {
			return err
		}
		var cell router.RouteData
		err = eachField(b, func(f field) error {
			switch f.num {
			case 1:
				v, err := f.varint()
				cell.Reachable = protowire.DecodeBool(v)
				return err
			case 2:
				var err error
				cell.Weight, err = f.double()
				return err
			case 3:
				v, err := f.int()
				if err != nil {
					return err
				}
				if v < 1 {
					return fmt.Errorf("previous edge %d", v)
				}
				cell.PrevEdge = v - 1
				cell.HasPrev = true
			}
			return nil
		})
		row = append(row, cell)
		return err
	})
	return row, err
}

func decodeStopVertices(data []byte, cat *catalogue.Catalogue, out map[string]router.StopVertices) error {
	stop := -1
	sv := router.StopVertices{Arrival: -1, Departure: -1}
	err := eachField(data, func(f field) error {
		v, err := f.int()
		switch f.num {
		case 1:
			stop = v
		case 2:
			sv.Arrival = v
		case 3:
			sv.Departure = v
		}
		return err
	})
	if err != nil {
		return err
	}
	if stop < 0 || stop >= cat.StopCount() {
		return fmt.Errorf("stop vertices for unknown stop %d", stop)
	}
	name := cat.StopByID(catalogue.StopID(stop)).Name
	if _, dup := out[name]; dup {
		return fmt.Errorf("duplicate stop vertices for %q", name)
	}
	out[name] = sv
	return nil
}

func decodeLabel(data []byte) (router.Segment, error) {
	var seg router.Segment
	err := eachField(data, func(f field) error {
		var err error
		switch f.num {
		case 1:
			var v int
			v, err = f.int()
			if err == nil && v != int(router.SegmentWait) && v != int(router.SegmentRide) {
				err = fmt.Errorf("unknown segment kind %d", v)
			}
			seg.Kind = router.SegmentKind(v)
		case 2:
			seg.Name, err = f.string()
		case 3:
			seg.Time, err = f.double()
		case 4:
			seg.SpanCount, err = f.int()
		}
		return err
	})
	return seg, err
}

func decodeRender(data []byte) (renderer.Settings, error) {
	var s renderer.Settings
	err := eachField(data, func(f field) error {
		var err error
		switch f.num {
		case 1:
			s.Width, err = f.double()
		case 2:
			s.Height, err = f.double()
		case 3:
			s.Padding, err = f.double()
		case 4:
			s.LineWidth, err = f.double()
		case 5:
			s.StopRadius, err = f.double()
		case 6:
			s.BusLabelFontSize, err = f.zigzag()
		case 7:
			s.BusLabelOffset[0], err = f.double()
		case 8:
			s.BusLabelOffset[1], err = f.double()
		case 9:
			s.StopLabelFontSize, err = f.zigzag()
		case 10:
			s.StopLabelOffset[0], err = f.double()
		case 11:
			s.StopLabelOffset[1], err = f.double()
		case 12:
			s.UnderlayerColor, err = decodeColorField(f)
		case 13:
			s.UnderlayerWidth, err = f.double()
		case 14:
			var c renderer.Color
			c, err = decodeColorField(f)
			s.ColorPalette = append(s.ColorPalette, c)
		}
		return err
	})
	return s, err
}

func decodeColorField(f field) (renderer.Color, error) {
	b, err := f.bytes()
	if err != nil {
		return renderer.Color{}, err
	}
	var c renderer.Color
	err = eachField(b, func(f field) error {
		var err error
		var v int
		switch f.num {
		case 1:
			v, err = f.int()
			if err == nil && v > int(renderer.ColorRGBA) {
				err = fmt.Errorf("unknown color kind %d", v)
			}
			c.Kind = renderer.ColorKind(v)
		case 2:
			c.Name, err = f.string()
		case 3, 4, 5:
			v, err = f.int()
			if err == nil && v > math.MaxUint8 {
				err = fmt.Errorf("color channel %d", v)
			}
			switch f.num {
			case 3:
				c.Red = uint8(v)
			case 4:
				c.Green = uint8(v)
			default:
				c.Blue = uint8(v)
			}
		case 6:
			c.Opacity, err = f.double()
		}
		return err
	})
	return c, err
}

// field is one decoded wire field. Varint and fixed-width values land in
// value, length-delimited ones in data.
type field struct {
	num   protowire.Number
	typ   protowire.Type
	value uint64
	data  []byte
}

func parseFields(b []byte) ([]field, error) {
	var fields []field
	err := eachField(b, func(f field) error {
		fields = append(fields, f)
		return nil
	})
	return fields, err
}

// eachField walks the fields of one message in wire order. Unknown wire
// types are skipped.
func eachField(b []byte, fn func(field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.value, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.value, n = protowire.ConsumeFixed64(b)
		case protowire.Fixed32Type:
			var v uint32
			v, n = protowire.ConsumeFixed32(b)
			f.value = uint64(v)
		case protowire.BytesType:
			f.data, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (f field) expect(typ protowire.Type) error {
	if f.typ != typ {
		return fmt.Errorf("field %d: wire type %d, expected %d", f.num, f.typ, typ)
	}
	return nil
}

func (f field) varint() (uint64, error) {
	return f.value, f.expect(protowire.VarintType)
}

func (f field) int() (int, error) {
	if err := f.expect(protowire.VarintType); err != nil {
		return 0, err
	}
	if f.value > math.MaxInt32 {
		return 0, fmt.Errorf("field %d: value %d out of range", f.num, f.value)
	}
	return int(f.value), nil
}

func (f field) zigzag() (int, error) {
	if err := f.expect(protowire.VarintType); err != nil {
		return 0, err
	}
	v := protowire.DecodeZigZag(f.value)
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("field %d: value %d out of range", f.num, v)
	}
	return int(v), nil
}

func (f field) double() (float64, error) {
	return math.Float64frombits(f.value), f.expect(protowire.Fixed64Type)
}

func (f field) bytes() ([]byte, error) {
	return f.data, f.expect(protowire.BytesType)
}

func (f field) string() (string, error) {
	return string(f.data), f.expect(protowire.BytesType)
}

func unpack(b []byte) ([]uint64, error) {
	var out []uint64
	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		out = append(out, v)
		b = b[n:]
	}
	return out, nil
}
