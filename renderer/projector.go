package renderer

import (
	"math"

	"github.com/theoremus-urban-solutions/transport-catalogue/catalogue"
)

const epsilon = 1e-6

// Projector maps geographic coordinates onto the canvas. Longitude grows to
// the right and latitude grows upwards.
type Projector struct {
	padding float64
	minLng  float64
	maxLat  float64
	zoom    float64
}

// NewProjector fits points into a width x height canvas with padding on all
// sides. A degenerate extent on one axis leaves the zoom to the other axis;
// with no extent at all every point lands on the padding corner.
func NewProjector(points []catalogue.Coordinates, width, height, padding float64) Projector {
	p := Projector{padding: padding}
	if len(points) == 0 {
		return p
	}

	minLng, maxLng := points[0].Lng, points[0].Lng
	minLat, maxLat := points[0].Lat, points[0].Lat
	for _, pt := range points[1:] {
		minLng = math.Min(minLng, pt.Lng)
		maxLng = math.Max(maxLng, pt.Lng)
		minLat = math.Min(minLat, pt.Lat)
		maxLat = math.Max(maxLat, pt.Lat)
	}
	p.minLng = minLng
	p.maxLat = maxLat

	var widthZoom, heightZoom float64
	hasWidth := math.Abs(maxLng-minLng) >= epsilon
	hasHeight := math.Abs(maxLat-minLat) >= epsilon
	if hasWidth {
		widthZoom = (width - 2*padding) / (maxLng - minLng)
	}
	if hasHeight {
		heightZoom = (height - 2*padding) / (maxLat - minLat)
	}

	switch {
	case hasWidth && hasHeight:
		p.zoom = math.Min(widthZoom, heightZoom)
	case hasWidth:
		p.zoom = widthZoom
	case hasHeight:
		p.zoom = heightZoom
	}
	return p
}

// Project returns the canvas position of c.
func (p Projector) Project(c catalogue.Coordinates) Point {
	return Point{
		X: (c.Lng-p.minLng)*p.zoom + p.padding,
		Y: (p.maxLat-c.Lat)*p.zoom + p.padding,
	}
}
