/*
Package catalogue owns the stops, buses and directed road distances of a
transit network and answers per-route and per-stop statistics.

Stops and buses live in append-only slices; every cross reference (a bus's
stop sequence, a stop's serving buses, a distance key) is a dense index into
those slices, so nothing ever points at memory the catalogue could move.

# Basic Usage

	cat := catalogue.New()
	cat.AddStop("Airport", catalogue.Coordinates{Lat: 55.41, Lng: 37.90})
	cat.AddBus("114", []string{"Airport", "Harbour"}, false)
	cat.AddDistance("Airport", "Harbour", 850)

	info, err := cat.GetRouteStats("114")
	// info.StopCount == 3, info.RouteLength == 1700

# Placeholder Stops

A stop named by a bus or a distance before it is declared is created with
coordinates (0,0). A later AddStop refines it in place; a stop that already
has real coordinates is never overwritten.

# Concurrency

A Catalogue is not safe for concurrent mutation. It is populated once during
the build phase and only read afterwards.
*/
package catalogue
