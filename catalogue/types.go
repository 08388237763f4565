package catalogue

// StopID is the position of a stop in the catalogue's stop arena.
type StopID int

// BusID is the position of a bus in the catalogue's bus arena.
type BusID int

// Coordinates is a geographic point in degrees
type Coordinates struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// IsZero reports whether c is the placeholder (0,0) point.
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// Stop is a named location
type Stop struct {
	Name        string
	Coordinates Coordinates
}

// Bus is a named route over catalogue stops.
//
// IsRoundtrip marks a closed loop traversed once; otherwise the bus runs the
// sequence forward and then back, without repeating the terminal stop.
type Bus struct {
	Name        string
	Stops       []StopID
	IsRoundtrip bool
}

// Distance is a directed road distance in meters
type Distance struct {
	From   StopID
	To     StopID
	Meters int
}

// BusInfo holds the statistics of one route
type BusInfo struct {
	Exists          bool
	Curvature       float64
	RouteLength     float64
	StopCount       int
	UniqueStopCount int
}

// StopInfo holds the alphabetically sorted buses serving a stop
type StopInfo struct {
	Exists bool
	Buses  []string
}

type stopPair struct {
	from StopID
	to   StopID
}
