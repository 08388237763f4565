package catalogue

import (
	"fmt"
	"sort"
)

// Catalogue stores stops, buses and directed distances in memory
type Catalogue struct {
	stops     []Stop
	buses     []Bus
	stopIndex map[string]StopID // stop name -> arena position
	busIndex  map[string]BusID  // bus name -> arena position
	stopBuses [][]BusID         // stop -> serving buses, insertion order
	distances map[stopPair]int  // (from, to) -> meters
	// distOrder keeps distances in first-registration order so snapshots are
	// reproducible byte for byte.
	distOrder []stopPair
}

// New creates an empty catalogue
func New() *Catalogue {
	return &Catalogue{
		stops:     []Stop{},
		buses:     []Bus{},
		stopIndex: map[string]StopID{},
		busIndex:  map[string]BusID{},
		stopBuses: [][]BusID{},
		distances: map[stopPair]int{},
		distOrder: []stopPair{},
	}
}

// AddStop inserts a stop or refines the coordinates of a placeholder stop.
// A stop that already carries non-zero coordinates keeps them.
func (c *Catalogue) AddStop(name string, coords Coordinates) StopID {
	if id, ok := c.stopIndex[name]; ok {
		if c.stops[id].Coordinates.IsZero() {
			c.stops[id].Coordinates = coords
		}
		return id
	}
	id := StopID(len(c.stops))
	c.stops = append(c.stops, Stop{Name: name, Coordinates: coords})
	c.stopBuses = append(c.stopBuses, nil)
	c.stopIndex[name] = id
	return id
}

func (c *Catalogue) ensureStop(name string) StopID {
	if id, ok := c.stopIndex[name]; ok {
		return id
	}
	return c.AddStop(name, Coordinates{})
}

// AddBus registers a bus over the named stops, creating placeholder stops
// for names the catalogue has not seen yet. Re-adding a known bus name
// replaces its stop sequence and the stops it serves.
func (c *Catalogue) AddBus(name string, stopNames []string, isRoundtrip bool) BusID {
	stops := make([]StopID, 0, len(stopNames))
	for _, sn := range stopNames {
		stops = append(stops, c.ensureStop(sn))
	}

	id, exists := c.busIndex[name]
	if exists {
		for _, sid := range c.buses[id].Stops {
			c.stopBuses[sid] = removeBus(c.stopBuses[sid], id)
		}
		c.buses[id] = Bus{Name: name, Stops: stops, IsRoundtrip: isRoundtrip}
	} else {
		id = BusID(len(c.buses))
		c.buses = append(c.buses, Bus{Name: name, Stops: stops, IsRoundtrip: isRoundtrip})
		c.busIndex[name] = id
	}

	for _, sid := range stops {
		if !containsBus(c.stopBuses[sid], id) {
			c.stopBuses[sid] = append(c.stopBuses[sid], id)
		}
	}
	return id
}

func removeBus(ids []BusID, id BusID) []BusID {
	out := ids[:0]
	for _, b := range ids {
		if b != id {
			out = append(out, b)
		}
	}
	return out
}

func containsBus(ids []BusID, id BusID) bool {
	for _, b := range ids {
		if b == id {
			return true
		}
	}
	return false
}

// AddDistance records the directed road distance from -> to in meters.
// The last write for an ordered pair wins.
func (c *Catalogue) AddDistance(from, to string, meters int) {
	key := stopPair{from: c.ensureStop(from), to: c.ensureStop(to)}
	if _, ok := c.distances[key]; !ok {
		c.distOrder = append(c.distOrder, key)
	}
	c.distances[key] = meters
}

// GetDistance returns the recorded distance a -> b, falling back to b -> a.
// Identical stops are 0 apart even if nothing was recorded.
func (c *Catalogue) GetDistance(a, b string) (int, error) {
	from, ok := c.stopIndex[a]
	if !ok {
		return 0, fmt.Errorf("stop %q: %w", a, ErrNotFound)
	}
	to, ok := c.stopIndex[b]
	if !ok {
		return 0, fmt.Errorf("stop %q: %w", b, ErrNotFound)
	}
	return c.distanceByID(from, to)
}

// DistanceByID is GetDistance over arena positions.
func (c *Catalogue) DistanceByID(from, to StopID) (int, error) {
	if !c.validStop(from) || !c.validStop(to) {
		return 0, fmt.Errorf("stop id %d/%d: %w", from, to, ErrNotFound)
	}
	return c.distanceByID(from, to)
}

func (c *Catalogue) distanceByID(from, to StopID) (int, error) {
	if d, ok := c.distances[stopPair{from: from, to: to}]; ok {
		return d, nil
	}
	if d, ok := c.distances[stopPair{from: to, to: from}]; ok {
		return d, nil
	}
	if from == to {
		return 0, nil
	}
	return 0, fmt.Errorf("distance %q -> %q: %w", c.stops[from].Name, c.stops[to].Name, ErrNotFound)
}

func (c *Catalogue) validStop(id StopID) bool {
	return id >= 0 && int(id) < len(c.stops)
}

// Accessor methods

func (c *Catalogue) HasStop(name string) bool {
	_, ok := c.stopIndex[name]
	return ok
}

func (c *Catalogue) HasBus(name string) bool {
	_, ok := c.busIndex[name]
	return ok
}

func (c *Catalogue) Stop(name string) (Stop, bool) {
	id, ok := c.stopIndex[name]
	if !ok {
		return Stop{}, false
	}
	return c.stops[id], true
}

func (c *Catalogue) StopID(name string) (StopID, bool) {
	id, ok := c.stopIndex[name]
	return id, ok
}

func (c *Catalogue) StopByID(id StopID) Stop { return c.stops[id] }

func (c *Catalogue) Bus(name string) (Bus, bool) {
	id, ok := c.busIndex[name]
	if !ok {
		return Bus{}, false
	}
	return c.buses[id], true
}

// Stops returns every stop in creation order. The slice must not be modified.
func (c *Catalogue) Stops() []Stop { return c.stops }

// Buses returns every bus in creation order. The slice must not be modified.
func (c *Catalogue) Buses() []Bus { return c.buses }

func (c *Catalogue) StopCount() int { return len(c.stops) }

// Distances returns every recorded directed distance in registration order.
func (c *Catalogue) Distances() []Distance {
	out := make([]Distance, 0, len(c.distOrder))
	for _, key := range c.distOrder {
		out = append(out, Distance{From: key.from, To: key.to, Meters: c.distances[key]})
	}
	return out
}

// GetStopStats returns the sorted names of the buses serving a stop.
func (c *Catalogue) GetStopStats(name string) StopInfo {
	id, ok := c.stopIndex[name]
	if !ok {
		return StopInfo{Exists: false}
	}
	names := make([]string, 0, len(c.stopBuses[id]))
	for _, bid := range c.stopBuses[id] {
		names = append(names, c.buses[bid].Name)
	}
	sort.Strings(names)
	return StopInfo{Exists: true, Buses: names}
}
