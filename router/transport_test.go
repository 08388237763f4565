package router

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/theoremus-urban-solutions/transport-catalogue/catalogue"
)

func TestTransportRouter_WaitThenRide(t *testing.T) {
	cat := catalogue.New()
	cat.AddStop("A", catalogue.Coordinates{})
	cat.AddStop("B", catalogue.Coordinates{})
	cat.AddDistance("A", "B", 100)
	cat.AddBus("1", []string{"A", "B", "A"}, true)

	info, err := cat.GetRouteStats("1")
	if err != nil {
		t.Fatalf("route stats: %v", err)
	}
	if info.StopCount != 3 {
		t.Errorf("expected stop_count 3, got %d", info.StopCount)
	}

	r, err := New(RoutingSettings{BusWaitTime: 5, BusVelocity: 6}, cat)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	it, err := r.GetItinerary("A", "B")
	if err != nil {
		t.Fatalf("GetItinerary: %v", err)
	}
	want := []Segment{
		{Kind: SegmentWait, Name: "A", Time: 5},
		{Kind: SegmentRide, Name: "1", Time: 1, SpanCount: 1},
	}
	assertSegments(t, it.Items, want)
	if math.Abs(it.TotalTime-6) > 1e-9 {
		t.Errorf("expected total 6, got %v", it.TotalTime)
	}
}

func TestTransportRouter_VertexLayout(t *testing.T) {
	cat := catalogue.New()
	cat.AddDistance("A", "B", 1000)
	cat.AddDistance("B", "C", 1000)
	cat.AddBus("line", []string{"A", "B", "C"}, false)

	r, err := New(RoutingSettings{BusWaitTime: 1, BusVelocity: 60}, cat)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	g := r.Engine().Graph()
	if g.VertexCount() != 2*cat.StopCount() {
		t.Errorf("expected %d vertices, got %d", 2*cat.StopCount(), g.VertexCount())
	}
	// 3 wait edges + 3 forward ride edges + 3 return ride edges
	if g.EdgeCount() != 9 {
		t.Errorf("expected 9 edges, got %d", g.EdgeCount())
	}
	for i, stop := range cat.Stops() {
		sv := r.StopVertices()[stop.Name]
		if sv.Arrival != 2*i || sv.Departure != 2*i+1 {
			t.Errorf("stop %s: expected (%d,%d), got %+v", stop.Name, 2*i, 2*i+1, sv)
		}
	}
}

func TestTransportRouter_ReturnLegAndTransfers(t *testing.T) {
	cat := catalogue.New()
	cat.AddDistance("A", "B", 1000)
	cat.AddDistance("B", "C", 2000)
	cat.AddDistance("C", "D", 1000)
	cat.AddBus("line", []string{"A", "B", "C"}, false)
	cat.AddBus("shuttle", []string{"C", "D"}, false)

	r, err := New(RoutingSettings{BusWaitTime: 2, BusVelocity: 60}, cat)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name      string
		from, to  string
		want      []Segment
		wantTotal float64
	}{
		{
			name: "return leg stays on the bus",
			from: "C", to: "A",
			want: []Segment{
				{Kind: SegmentWait, Name: "C", Time: 2},
				{Kind: SegmentRide, Name: "line", Time: 3, SpanCount: 2},
			},
			wantTotal: 5,
		},
		{
			name: "transfer waits again",
			from: "A", to: "D",
			want: []Segment{
				{Kind: SegmentWait, Name: "A", Time: 2},
				{Kind: SegmentRide, Name: "line", Time: 3, SpanCount: 2},
				{Kind: SegmentWait, Name: "C", Time: 2},
				{Kind: SegmentRide, Name: "shuttle", Time: 1, SpanCount: 1},
			},
			wantTotal: 8,
		},
		{
			name: "same stop",
			from: "B", to: "B",
			want:      []Segment{},
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := r.GetItinerary(tt.from, tt.to)
			if err != nil {
				t.Fatalf("GetItinerary: %v", err)
			}
			assertSegments(t, it.Items, tt.want)
			if math.Abs(it.TotalTime-tt.wantTotal) > 1e-9 {
				t.Errorf("expected total %v, got %v", tt.wantTotal, it.TotalTime)
			}
		})
	}
}

func TestTransportRouter_Misses(t *testing.T) {
	cat := catalogue.New()
	cat.AddDistance("A", "B", 100)
	cat.AddBus("1", []string{"A", "B"}, true)
	cat.AddStop("Island", catalogue.Coordinates{Lat: 1, Lng: 1})

	r, err := New(RoutingSettings{BusWaitTime: 1, BusVelocity: 30}, cat)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name     string
		from, to string
		wantErr  error
	}{
		{name: "unknown origin", from: "Nowhere", to: "A", wantErr: catalogue.ErrNotFound},
		{name: "unknown destination", from: "A", to: "Nowhere", wantErr: catalogue.ErrNotFound},
		{name: "unreachable", from: "A", to: "Island", wantErr: ErrNoRoute},
		{name: "loop without return edge", from: "B", to: "A", wantErr: ErrNoRoute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.GetItinerary(tt.from, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNew_RejectsBadSettingsAndMissingDistances(t *testing.T) {
	cat := catalogue.New()
	cat.AddBus("1", []string{"A", "B"}, true)

	if _, err := New(RoutingSettings{BusWaitTime: 1, BusVelocity: 0}, cat); !errors.Is(err, catalogue.ErrInvalidInput) {
		t.Errorf("zero velocity: expected ErrInvalidInput, got %v", err)
	}
	if _, err := New(RoutingSettings{BusWaitTime: -1, BusVelocity: 10}, cat); !errors.Is(err, catalogue.ErrInvalidInput) {
		t.Errorf("negative wait: expected ErrInvalidInput, got %v", err)
	}
	if _, err := New(RoutingSettings{BusWaitTime: 1, BusVelocity: 10}, cat); !errors.Is(err, catalogue.ErrMissingDistance) {
		t.Errorf("expected ErrMissingDistance, got %v", err)
	}
}

func TestRoutingSettings_ValidateConcurrently(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := (RoutingSettings{BusWaitTime: i, BusVelocity: 1 + i}).Validate(); err != nil {
				t.Errorf("valid settings rejected: %v", err)
			}
			if err := (RoutingSettings{BusWaitTime: i}).Validate(); !errors.Is(err, catalogue.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		}(i)
	}
	wg.Wait()
}

func assertSegments(t *testing.T, got, want []Segment) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Kind != w.Kind || g.Name != w.Name || g.SpanCount != w.SpanCount || math.Abs(g.Time-w.Time) > 1e-9 {
			t.Errorf("segment %d: expected %+v, got %+v", i, w, g)
		}
	}
}
