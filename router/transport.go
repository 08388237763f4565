package router

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/theoremus-urban-solutions/transport-catalogue/catalogue"
)

var validate = validator.New()

// ErrNoRoute reports that the destination cannot be reached from the origin.
// It is a normal query outcome, not a failure.
var ErrNoRoute = errors.New("no route")

// RoutingSettings configures travel-time weights
type RoutingSettings struct {
	BusWaitTime int `json:"bus_wait_time" validate:"gte=0"` // minutes
	BusVelocity int `json:"bus_velocity" validate:"gt=0"`   // km/h
}

// Validate checks the settings with their struct tags.
func (s RoutingSettings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("routing settings: %w: %v", catalogue.ErrInvalidInput, err)
	}
	return nil
}

// StopVertices are the two graph vertices of one stop
type StopVertices struct {
	Arrival   VertexID
	Departure VertexID
}

// SegmentKind tells a wait segment from a ride segment
type SegmentKind int

const (
	SegmentWait SegmentKind = iota
	SegmentRide
)

func (k SegmentKind) String() string {
	if k == SegmentRide {
		return "Bus"
	}
	return "Wait"
}

// Segment labels a graph edge: a wait at a stop or a ride on a bus.
// SpanCount is the number of stop-to-stop hops and is 0 for waits.
type Segment struct {
	Kind      SegmentKind
	Name      string // stop name for a wait, bus name for a ride
	Time      float64
	SpanCount int
}

// Itinerary is the answer to a point-to-point query
type Itinerary struct {
	Items     []Segment
	TotalTime float64
}

// TransportRouter answers shortest-time queries over a catalogue.
type TransportRouter struct {
	settings     RoutingSettings
	engine       *Engine
	stopVertices map[string]StopVertices
	edgeLabels   []Segment // edge id -> label
}

// New builds the routing graph for cat and precomputes all shortest paths.
func New(settings RoutingSettings, cat *catalogue.Catalogue) (*TransportRouter, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	b := &graphBuilder{
		settings:     settings,
		cat:          cat,
		graph:        NewGraph(2 * cat.StopCount()),
		stopVertices: make(map[string]StopVertices, cat.StopCount()),
		vertexByID:   make([]StopVertices, cat.StopCount()),
	}
	if err := b.build(); err != nil {
		return nil, err
	}
	return &TransportRouter{
		settings:     settings,
		engine:       NewEngine(b.graph),
		stopVertices: b.stopVertices,
		edgeLabels:   b.labels,
	}, nil
}

// Restore wraps a stored graph, table and labels into a router. The
// shortest-path table is reused as is.
func Restore(settings RoutingSettings, engine *Engine, stopVertices map[string]StopVertices, edgeLabels []Segment) (*TransportRouter, error) {
	if len(edgeLabels) != engine.Graph().EdgeCount() {
		return nil, fmt.Errorf("%d edge labels for %d edges", len(edgeLabels), engine.Graph().EdgeCount())
	}
	n := engine.Graph().VertexCount()
	for name, sv := range stopVertices {
		if sv.Arrival < 0 || sv.Arrival >= n || sv.Departure < 0 || sv.Departure >= n {
			return nil, fmt.Errorf("stop %q maps outside [0,%d)", name, n)
		}
	}
	return &TransportRouter{
		settings:     settings,
		engine:       engine,
		stopVertices: stopVertices,
		edgeLabels:   edgeLabels,
	}, nil
}

func (r *TransportRouter) Settings() RoutingSettings { return r.settings }

func (r *TransportRouter) Engine() *Engine { return r.engine }

// StopVertices returns the vertex pair of every routed stop. The map must not
// be modified.
func (r *TransportRouter) StopVertices() map[string]StopVertices { return r.stopVertices }

// EdgeLabels returns the label of every edge, indexed by edge id. The slice
// must not be modified.
func (r *TransportRouter) EdgeLabels() []Segment { return r.edgeLabels }

// GetItinerary returns the fastest itinerary between two stops.
// Unknown stops yield an error wrapping catalogue.ErrNotFound; an unreachable
// destination yields ErrNoRoute.
func (r *TransportRouter) GetItinerary(from, to string) (Itinerary, error) {
	src, ok := r.stopVertices[from]
	if !ok {
		return Itinerary{}, fmt.Errorf("origin stop %q: %w", from, catalogue.ErrNotFound)
	}
	dst, ok := r.stopVertices[to]
	if !ok {
		return Itinerary{}, fmt.Errorf("destination stop %q: %w", to, catalogue.ErrNotFound)
	}

	route, ok := r.engine.BuildRoute(src.Arrival, dst.Arrival)
	if !ok {
		return Itinerary{}, fmt.Errorf("%q -> %q: %w", from, to, ErrNoRoute)
	}

	it := Itinerary{Items: make([]Segment, 0, len(route.Edges))}
	for _, id := range route.Edges {
		seg := r.edgeLabels[id]
		it.Items = append(it.Items, seg)
		it.TotalTime += seg.Time
	}
	return it, nil
}

type graphBuilder struct {
	settings     RoutingSettings
	cat          *catalogue.Catalogue
	graph        *Graph
	stopVertices map[string]StopVertices
	vertexByID   []StopVertices
	labels       []Segment
	nextVertex   VertexID
}

func (b *graphBuilder) build() error {
	for id, stop := range b.cat.Stops() {
		b.addStop(catalogue.StopID(id), stop)
	}
	for _, bus := range b.cat.Buses() {
		if err := b.addRideEdges(bus.Name, bus.Stops); err != nil {
			return err
		}
		if !bus.IsRoundtrip {
			reversed := make([]catalogue.StopID, len(bus.Stops))
			for i, sid := range bus.Stops {
				reversed[len(bus.Stops)-1-i] = sid
			}
			if err := b.addRideEdges(bus.Name, reversed); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *graphBuilder) addStop(id catalogue.StopID, stop catalogue.Stop) {
	sv := StopVertices{Arrival: b.nextVertex, Departure: b.nextVertex + 1}
	b.nextVertex += 2
	b.stopVertices[stop.Name] = sv
	b.vertexByID[id] = sv

	wait := float64(b.settings.BusWaitTime)
	b.addEdge(Edge{From: sv.Arrival, To: sv.Departure, Weight: wait},
		Segment{Kind: SegmentWait, Name: stop.Name, Time: wait})
}

// addRideEdges links every stop of one run to every later stop on it.
func (b *graphBuilder) addRideEdges(busName string, stops []catalogue.StopID) error {
	for i := 0; i < len(stops); i++ {
		elapsed := 0.0
		span := 0
		from := b.vertexByID[stops[i]].Departure
		for j := i + 1; j < len(stops); j++ {
			t, err := b.travelTime(stops[j-1], stops[j])
			if err != nil {
				return fmt.Errorf("bus %q: %w", busName, err)
			}
			elapsed += t
			span++
			b.addEdge(Edge{From: from, To: b.vertexByID[stops[j]].Arrival, Weight: elapsed},
				Segment{Kind: SegmentRide, Name: busName, Time: elapsed, SpanCount: span})
		}
	}
	return nil
}

// travelTime converts the road distance between two stops to minutes.
func (b *graphBuilder) travelTime(from, to catalogue.StopID) (float64, error) {
	meters, err := b.cat.DistanceByID(from, to)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", catalogue.ErrMissingDistance, err)
	}
	return float64(meters) / (1000.0 * float64(b.settings.BusVelocity)) * 60.0, nil
}

func (b *graphBuilder) addEdge(e Edge, label Segment) {
	b.graph.AddEdge(e)
	b.labels = append(b.labels, label)
}
