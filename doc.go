// Package transportcatalogue builds a transport database from a JSON
// description of stops and bus routes, saves it as a snapshot and answers
// stat requests (bus and stop info, fastest itineraries, SVG map) against a
// saved snapshot.
//
// The two pipelines mirror the command line modes: MakeBase for make_base
// and ProcessRequests for process_requests.
package transportcatalogue
