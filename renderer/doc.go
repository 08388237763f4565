// Package renderer draws a transport catalogue as an SVG map.
//
// Buses are drawn as polylines in name order, cycling through the color
// palette, followed by bus labels at the route terminals, stop markers and
// stop labels. Only stops served by at least one bus appear on the map.
//
// Example:
//
//	doc := renderer.New(settings).Render(cat)
//	fmt.Println(doc.String())
package renderer
