package catalogue

import "fmt"

// Traversal returns the full stop sequence a bus visits: the stops as given
// for a loop, or forward then back without repeating the terminal for a line.
func (b Bus) Traversal() []StopID {
	if b.IsRoundtrip || len(b.Stops) == 0 {
		return b.Stops
	}
	out := make([]StopID, 0, 2*len(b.Stops)-1)
	out = append(out, b.Stops...)
	for i := len(b.Stops) - 2; i >= 0; i-- {
		out = append(out, b.Stops[i])
	}
	return out
}

// StopCount returns the number of stops visited along the whole traversal.
func (b Bus) StopCount() int {
	if b.IsRoundtrip || len(b.Stops) == 0 {
		return len(b.Stops)
	}
	return 2*len(b.Stops) - 1
}

// GetRouteStats computes length, curvature and stop counts for a bus.
// An unknown bus yields Exists=false and no error.
func (c *Catalogue) GetRouteStats(name string) (BusInfo, error) {
	id, ok := c.busIndex[name]
	if !ok {
		return BusInfo{Exists: false}, nil
	}
	bus := c.buses[id]

	unique := make(map[StopID]struct{}, len(bus.Stops))
	for _, sid := range bus.Stops {
		unique[sid] = struct{}{}
	}

	routeLength, err := c.roadLength(bus)
	if err != nil {
		return BusInfo{}, fmt.Errorf("bus %q: %w", name, err)
	}
	geoLength := c.geoLength(bus)

	curvature := 0.0
	if geoLength > 0 {
		curvature = float64(routeLength) / geoLength
	}

	return BusInfo{
		Exists:          true,
		Curvature:       curvature,
		RouteLength:     float64(routeLength),
		StopCount:       bus.StopCount(),
		UniqueStopCount: len(unique),
	}, nil
}

func (c *Catalogue) roadLength(bus Bus) (int, error) {
	seq := bus.Traversal()
	total := 0
	for i := 1; i < len(seq); i++ {
		d, err := c.distanceByID(seq[i-1], seq[i])
		if err != nil {
			return 0, fmt.Errorf("%w: %q -> %q", ErrMissingDistance, c.stops[seq[i-1]].Name, c.stops[seq[i]].Name)
		}
		total += d
	}
	return total, nil
}

// geoLength walks the forward stop sequence once; a line is walked twice.
func (c *Catalogue) geoLength(bus Bus) float64 {
	total := 0.0
	for i := 1; i < len(bus.Stops); i++ {
		total += HaversineM(c.stops[bus.Stops[i-1]].Coordinates, c.stops[bus.Stops[i]].Coordinates)
	}
	if !bus.IsRoundtrip {
		total *= 2
	}
	return total
}
