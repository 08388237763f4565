// Package server serves stat queries over HTTP.
//
// Endpoints:
//
//	GET  /api/health
//	GET  /api/buses/{name}
//	GET  /api/stops/{name}
//	GET  /api/route?from=&to=
//	GET  /api/map
//	POST /api/stat_requests
//
// The stat_requests endpoint accepts the same JSON array as the
// process_requests input and answers it the same way.
package server
