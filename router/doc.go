// Package router turns a catalogue into a time-weighted graph and answers
// shortest-time itineraries between stops.
//
// Every stop becomes two vertices: an arrival vertex and a departure vertex
// joined by a wait edge that costs the boarding wait time. Every bus adds a
// ride edge from the departure vertex of each stop to the arrival vertex of
// every later stop on the same run, so one edge always means "stay on this
// bus". Lines add the same edges over the reversed stop sequence.
//
// The Engine computes the complete all-pairs shortest-path table once, when
// it is built. Queries are table lookups plus a walk back along the stored
// last-edge pointers.
package router
