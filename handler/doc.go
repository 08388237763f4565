// Package handler answers stat requests (Bus, Stop, Route, Map) against a
// loaded transport database and shapes the JSON response objects.
//
// Misses of any kind are answered with {"error_message": "not found"}.
// Route answers and the rendered map are memoised in an LRU cache.
package handler
