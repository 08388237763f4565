// Package reader decodes the JSON input documents.
//
// A make_base document carries serialization, routing and render settings
// plus the base requests describing stops and buses. A process_requests
// document carries serialization settings and the stat requests to answer.
// Every record is checked with struct tags; the first invalid record fails
// the whole document with catalogue.ErrInvalidInput.
package reader
