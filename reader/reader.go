package reader

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/theoremus-urban-solutions/transport-catalogue/catalogue"
	"github.com/theoremus-urban-solutions/transport-catalogue/handler"
	"github.com/theoremus-urban-solutions/transport-catalogue/renderer"
	"github.com/theoremus-urban-solutions/transport-catalogue/router"
)

var validate = validator.New()

// SerializationSettings names where the snapshot lives
type SerializationSettings struct {
	File string `json:"file" validate:"required"`
}

// StopRequest describes one stop and its road distances to neighbours.
type StopRequest struct {
	Name          string         `json:"name" validate:"required"`
	Latitude      *float64       `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude     *float64       `json:"longitude" validate:"required,gte=-180,lte=180"`
	RoadDistances map[string]int `json:"road_distances" validate:"required,dive,keys,required,endkeys,gte=0,lte=2147483647"`
}

// BusRequest describes one bus route
type BusRequest struct {
	Name        string   `json:"name" validate:"required"`
	Stops       []string `json:"stops" validate:"required,dive,required"`
	IsRoundtrip *bool    `json:"is_roundtrip" validate:"required"`
}

// BaseDocument is the decoded make_base input.
type BaseDocument struct {
	Serialization SerializationSettings
	Routing       router.RoutingSettings
	Render        *renderer.Settings
	Stops         []StopRequest
	Buses         []BusRequest
}

type baseRequest struct {
	Type string `json:"type" validate:"required,oneof=Bus Stop"`
}

type baseInput struct {
	SerializationSettings *SerializationSettings  `json:"serialization_settings" validate:"required"`
	RoutingSettings       *router.RoutingSettings `json:"routing_settings" validate:"required"`
	RenderSettings        *renderer.Settings      `json:"render_settings"`
	BaseRequests          []json.RawMessage       `json:"base_requests"`
}

// ReadBase decodes and validates a make_base document. Any malformed or
// incomplete record fails the whole document with catalogue.ErrInvalidInput.
func ReadBase(r io.Reader) (*BaseDocument, error) {
	var in baseInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("base document: %w: %v", catalogue.ErrInvalidInput, err)
	}
	if err := check("base document", &in); err != nil {
		return nil, err
	}
	if err := in.RoutingSettings.Validate(); err != nil {
		return nil, err
	}
	if in.RenderSettings != nil {
		if err := in.RenderSettings.Validate(); err != nil {
			return nil, err
		}
	}

	doc := &BaseDocument{
		Serialization: *in.SerializationSettings,
		Routing:       *in.RoutingSettings,
		Render:        in.RenderSettings,
	}
	buses := make(map[string]struct{})
	for i, raw := range in.BaseRequests {
		var head baseRequest
		if err := decodeRecord(raw, &head, i); err != nil {
			return nil, err
		}
		switch head.Type {
		case "Stop":
			var stop StopRequest
			if err := decodeRecord(raw, &stop, i); err != nil {
				return nil, err
			}
			doc.Stops = append(doc.Stops, stop)
		case "Bus":
			var bus BusRequest
			if err := decodeRecord(raw, &bus, i); err != nil {
				return nil, err
			}
			if _, dup := buses[bus.Name]; dup {
				return nil, fmt.Errorf("record %d: %w: duplicate bus %q", i, catalogue.ErrInvalidInput, bus.Name)
			}
			buses[bus.Name] = struct{}{}
			doc.Buses = append(doc.Buses, bus)
		}
	}
	return doc, nil
}

// Build ingests the records into a new catalogue. Buses go first so that
// stop records only refine coordinates of stops the buses already named;
// distances are registered with the stops, neighbours in name order.
func (d *BaseDocument) Build() *catalogue.Catalogue {
	cat := catalogue.New()
	for _, bus := range d.Buses {
		cat.AddBus(bus.Name, bus.Stops, *bus.IsRoundtrip)
	}
	for _, stop := range d.Stops {
		cat.AddStop(stop.Name, catalogue.Coordinates{Lat: *stop.Latitude, Lng: *stop.Longitude})
		neighbours := make([]string, 0, len(stop.RoadDistances))
		for name := range stop.RoadDistances {
			neighbours = append(neighbours, name)
		}
		sort.Strings(neighbours)
		for _, name := range neighbours {
			cat.AddDistance(stop.Name, name, stop.RoadDistances[name])
		}
	}
	return cat
}

// RequestDocument is the decoded process_requests input.
type RequestDocument struct {
	Serialization SerializationSettings
	Requests      []handler.Request
}

type statRequest struct {
	ID   *int   `json:"id" validate:"required,gte=0,lte=2147483647"`
	Type string `json:"type" validate:"required,oneof=Bus Stop Route Map"`
	Name string `json:"name" validate:"required_if=Type Bus,required_if=Type Stop"`
	From string `json:"from" validate:"required_if=Type Route"`
	To   string `json:"to" validate:"required_if=Type Route"`
}

type requestInput struct {
	SerializationSettings *SerializationSettings `json:"serialization_settings" validate:"required"`
	StatRequests          []json.RawMessage      `json:"stat_requests"`
}

// ReadRequests decodes and validates a process_requests document.
func ReadRequests(r io.Reader) (*RequestDocument, error) {
	var in requestInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("request document: %w: %v", catalogue.ErrInvalidInput, err)
	}
	if err := check("request document", &in); err != nil {
		return nil, err
	}

	doc := &RequestDocument{
		Serialization: *in.SerializationSettings,
		Requests:      make([]handler.Request, 0, len(in.StatRequests)),
	}
	for i, raw := range in.StatRequests {
		req, err := decodeStatRequest(raw, i)
		if err != nil {
			return nil, err
		}
		doc.Requests = append(doc.Requests, req)
	}
	return doc, nil
}

// ParseStatRequests decodes a bare JSON array of stat requests.
func ParseStatRequests(r io.Reader) ([]handler.Request, error) {
	var raws []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, fmt.Errorf("stat requests: %w: %v", catalogue.ErrInvalidInput, err)
	}
	out := make([]handler.Request, 0, len(raws))
	for i, raw := range raws {
		req, err := decodeStatRequest(raw, i)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

func decodeStatRequest(raw json.RawMessage, i int) (handler.Request, error) {
	var req statRequest
	if err := decodeRecord(raw, &req, i); err != nil {
		return handler.Request{}, err
	}
	return handler.Request{
		ID:   *req.ID,
		Type: handler.RequestType(req.Type),
		Name: req.Name,
		From: req.From,
		To:   req.To,
	}, nil
}

func decodeRecord(raw json.RawMessage, v any, i int) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("record %d: %w: %v", i, catalogue.ErrInvalidInput, err)
	}
	return check(fmt.Sprintf("record %d", i), v)
}

func check(what string, v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%s: %w: %v", what, catalogue.ErrInvalidInput, err)
	}
	return nil
}
