package handler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bluele/gcache"

	"github.com/theoremus-urban-solutions/transport-catalogue/catalogue"
	"github.com/theoremus-urban-solutions/transport-catalogue/renderer"
	"github.com/theoremus-urban-solutions/transport-catalogue/router"
)

// RequestType names the kind of a stat request
type RequestType string

const (
	RequestBus   RequestType = "Bus"
	RequestStop  RequestType = "Stop"
	RequestRoute RequestType = "Route"
	RequestMap   RequestType = "Map"
)

// Request is one stat request. Name is used by Bus and Stop requests,
// From and To by Route requests.
type Request struct {
	ID   int
	Type RequestType
	Name string
	From string
	To   string
}

// DefaultCacheSize bounds the answer cache when no size is configured
const DefaultCacheSize = 1024

type routeKey struct {
	from, to string
}

type mapKey struct{}

// routeResult is the cached part of a route answer
type routeResult struct {
	found bool
	items []any
	total float64
}

// Handler answers stat requests against a loaded database. The router and
// the map renderer are optional; without them Route and Map requests are
// answered with "not found". A Handler is safe for concurrent use.
type Handler struct {
	cat      *catalogue.Catalogue
	router   *router.TransportRouter
	renderer *renderer.MapRenderer
	cache    gcache.Cache
	logger   *slog.Logger
}

// New creates a handler whose route and map answers are memoised in an LRU
// of cacheSize entries.
func New(cat *catalogue.Catalogue, r *router.TransportRouter, m *renderer.MapRenderer, cacheSize int, logger *slog.Logger) *Handler {
	if cacheSize < 1 {
		cacheSize = DefaultCacheSize
	}
	h := &Handler{
		cat:      cat,
		router:   r,
		renderer: m,
		logger:   logger.With("component", "handler"),
	}
	h.cache = gcache.New(cacheSize).
		LRU().
		LoaderFunc(h.load).
		Build()
	return h
}

// AnswerAll answers requests in order.
func (h *Handler) AnswerAll(reqs []Request) []any {
	out := make([]any, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, h.Answer(req))
	}
	return out
}

// Answer returns the response object for one request.
func (h *Handler) Answer(req Request) any {
	switch req.Type {
	case RequestBus:
		return h.busAnswer(req)
	case RequestStop:
		return h.stopAnswer(req)
	case RequestRoute:
		return h.routeAnswer(req)
	case RequestMap:
		return h.mapAnswer(req)
	default:
		h.logger.Warn("unknown request type", "request_id", req.ID, "type", req.Type)
		return notFound(req.ID)
	}
}

func (h *Handler) busAnswer(req Request) any {
	info, err := h.cat.GetRouteStats(req.Name)
	if err != nil {
		h.logger.Warn("bus stats failed", "request_id", req.ID, "bus", req.Name, "error", err)
		return notFound(req.ID)
	}
	if !info.Exists {
		return notFound(req.ID)
	}
	return BusResponse{
		Curvature:       info.Curvature,
		RequestID:       req.ID,
		RouteLength:     info.RouteLength,
		StopCount:       info.StopCount,
		UniqueStopCount: info.UniqueStopCount,
	}
}

func (h *Handler) stopAnswer(req Request) any {
	info := h.cat.GetStopStats(req.Name)
	if !info.Exists {
		return notFound(req.ID)
	}
	return StopResponse{Buses: info.Buses, RequestID: req.ID}
}

func (h *Handler) routeAnswer(req Request) any {
	v, err := h.cache.Get(routeKey{from: req.From, to: req.To})
	if err != nil {
		h.logger.Error("route lookup failed", "request_id", req.ID, "error", err)
		return notFound(req.ID)
	}
	res := v.(routeResult)
	if !res.found {
		return notFound(req.ID)
	}
	return RouteResponse{Items: res.items, RequestID: req.ID, TotalTime: res.total}
}

func (h *Handler) mapAnswer(req Request) any {
	v, err := h.cache.Get(mapKey{})
	if err != nil {
		h.logger.Warn("map unavailable", "request_id", req.ID, "error", err)
		return notFound(req.ID)
	}
	return MapResponse{Map: v.(string), RequestID: req.ID}
}

// RenderMap returns the SVG map of the whole catalogue.
func (h *Handler) RenderMap() (string, error) {
	v, err := h.cache.Get(mapKey{})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Itinerary returns the fastest itinerary between two stops.
func (h *Handler) Itinerary(from, to string) (router.Itinerary, error) {
	if h.router == nil {
		return router.Itinerary{}, fmt.Errorf("routing is not configured: %w", catalogue.ErrNotFound)
	}
	return h.router.GetItinerary(from, to)
}

func (h *Handler) load(key any) (any, error) {
	switch k := key.(type) {
	case routeKey:
		return h.loadRoute(k), nil
	case mapKey:
		if h.renderer == nil {
			return nil, fmt.Errorf("render settings are not configured: %w", catalogue.ErrNotFound)
		}
		return h.renderer.Render(h.cat).String(), nil
	default:
		return nil, fmt.Errorf("unexpected cache key %T", key)
	}
}

func (h *Handler) loadRoute(k routeKey) routeResult {
	it, err := h.Itinerary(k.from, k.to)
	if err != nil {
		if !errors.Is(err, router.ErrNoRoute) && !errors.Is(err, catalogue.ErrNotFound) {
			h.logger.Error("route build failed", "from", k.from, "to", k.to, "error", err)
		}
		return routeResult{}
	}

	items := make([]any, 0, len(it.Items))
	for _, seg := range it.Items {
		if seg.Kind == router.SegmentRide {
			items = append(items, RideItem{Bus: seg.Name, SpanCount: seg.SpanCount, Time: seg.Time, Type: seg.Kind.String()})
		} else {
			items = append(items, WaitItem{StopName: seg.Name, Time: seg.Time, Type: seg.Kind.String()})
		}
	}
	return routeResult{found: true, items: items, total: it.TotalTime}
}
