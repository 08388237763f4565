package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/theoremus-urban-solutions/transport-catalogue/catalogue"
	"github.com/theoremus-urban-solutions/transport-catalogue/renderer"
	"github.com/theoremus-urban-solutions/transport-catalogue/router"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(t *testing.T, withRouter, withRenderer bool) *Handler {
	t.Helper()
	cat := catalogue.New()
	cat.AddStop("A", catalogue.Coordinates{Lat: 55.0, Lng: 37.0})
	cat.AddStop("B", catalogue.Coordinates{Lat: 55.1, Lng: 37.1})
	cat.AddStop("Lonely", catalogue.Coordinates{Lat: 55.2, Lng: 37.2})
	cat.AddDistance("A", "B", 1000)
	cat.AddBus("14", []string{"A", "B"}, false)

	var r *router.TransportRouter
	if withRouter {
		var err error
		r, err = router.New(router.RoutingSettings{BusWaitTime: 2, BusVelocity: 30}, cat)
		if err != nil {
			t.Fatalf("router: %v", err)
		}
	}
	var m *renderer.MapRenderer
	if withRenderer {
		m = renderer.New(renderer.Settings{
			Width: 100, Height: 100, Padding: 10, LineWidth: 2, StopRadius: 3,
			BusLabelFontSize: 10, StopLabelFontSize: 8,
			ColorPalette: []renderer.Color{renderer.NamedColor("red")},
		})
	}
	return New(cat, r, m, 16, discardLogger())
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestHandler_Answer(t *testing.T) {
	h := newTestHandler(t, true, true)

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "unknown bus",
			req:  Request{ID: 2, Type: RequestBus, Name: "99"},
			want: `{"error_message":"not found","request_id":2}`,
		},
		{
			name: "stop",
			req:  Request{ID: 3, Type: RequestStop, Name: "B"},
			want: `{"buses":["14"],"request_id":3}`,
		},
		{
			name: "stop without buses",
			req:  Request{ID: 4, Type: RequestStop, Name: "Lonely"},
			want: `{"buses":[],"request_id":4}`,
		},
		{
			name: "unknown stop",
			req:  Request{ID: 5, Type: RequestStop, Name: "Nowhere"},
			want: `{"error_message":"not found","request_id":5}`,
		},
		{
			name: "route",
			req:  Request{ID: 6, Type: RequestRoute, From: "B", To: "A"},
			want: `{"items":[{"stop_name":"B","time":2,"type":"Wait"},{"bus":"14","span_count":1,"time":2,"type":"Bus"}],"request_id":6,"total_time":4}`,
		},
		{
			name: "same stop route",
			req:  Request{ID: 7, Type: RequestRoute, From: "A", To: "A"},
			want: `{"items":[],"request_id":7,"total_time":0}`,
		},
		{
			name: "unreachable",
			req:  Request{ID: 8, Type: RequestRoute, From: "A", To: "Lonely"},
			want: `{"error_message":"not found","request_id":8}`,
		},
		{
			name: "unknown route stop",
			req:  Request{ID: 9, Type: RequestRoute, From: "A", To: "Nowhere"},
			want: `{"error_message":"not found","request_id":9}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toJSON(t, h.Answer(tt.req))
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestHandler_BusAnswer(t *testing.T) {
	h := newTestHandler(t, false, false)
	resp, ok := h.Answer(Request{ID: 1, Type: RequestBus, Name: "14"}).(BusResponse)
	if !ok {
		t.Fatal("expected a BusResponse")
	}
	if resp.RequestID != 1 || resp.RouteLength != 2000 || resp.StopCount != 3 || resp.UniqueStopCount != 2 {
		t.Errorf("unexpected bus answer %+v", resp)
	}
	// A and B are about 12.8 km apart, so the 2 km road is far shorter
	if resp.Curvature <= 0 || resp.Curvature >= 1 {
		t.Errorf("expected curvature in (0,1), got %v", resp.Curvature)
	}
}

func TestHandler_RouteAnswerIsCached(t *testing.T) {
	h := newTestHandler(t, true, false)
	first := toJSON(t, h.Answer(Request{ID: 1, Type: RequestRoute, From: "A", To: "B"}))
	second := toJSON(t, h.Answer(Request{ID: 1, Type: RequestRoute, From: "A", To: "B"}))
	if first != second {
		t.Errorf("cached answer differs: %s vs %s", first, second)
	}
	if !h.cache.Has(routeKey{from: "A", to: "B"}) {
		t.Error("expected the route to be cached")
	}
	if h.cache.Has(routeKey{from: "B", to: "A"}) {
		t.Error("unexpected cache entry for the reverse route")
	}
}

func TestHandler_Map(t *testing.T) {
	h := newTestHandler(t, false, true)
	resp, ok := h.Answer(Request{ID: 10, Type: RequestMap}).(MapResponse)
	if !ok {
		t.Fatalf("expected a MapResponse")
	}
	if !strings.HasPrefix(resp.Map, `<?xml version="1.0" encoding="UTF-8" ?>`) || !strings.HasSuffix(resp.Map, "</svg>") {
		t.Errorf("unexpected map document %q", resp.Map)
	}
	if strings.Contains(resp.Map, "Lonely") {
		t.Error("a stop without buses must not be drawn")
	}
}

func TestHandler_OptionalParts(t *testing.T) {
	h := newTestHandler(t, false, false)
	for _, req := range []Request{
		{ID: 1, Type: RequestMap},
		{ID: 2, Type: RequestRoute, From: "A", To: "B"},
		{ID: 3, Type: "Teleport"},
	} {
		if _, ok := h.Answer(req).(ErrorResponse); !ok {
			t.Errorf("%s: expected a not found answer", req.Type)
		}
	}
}

func TestHandler_AnswerAllKeepsOrder(t *testing.T) {
	h := newTestHandler(t, true, false)
	out := h.AnswerAll([]Request{
		{ID: 3, Type: RequestStop, Name: "A"},
		{ID: 1, Type: RequestBus, Name: "nope"},
		{ID: 2, Type: RequestStop, Name: "B"},
	})
	got := toJSON(t, out)
	want := `[{"buses":["14"],"request_id":3},{"error_message":"not found","request_id":1},{"buses":["14"],"request_id":2}]`
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
