package snapshot

import (
	"errors"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/transport-catalogue/catalogue"
	"github.com/theoremus-urban-solutions/transport-catalogue/renderer"
	"github.com/theoremus-urban-solutions/transport-catalogue/router"
)

// FormatVersion is written into every snapshot. Decode rejects other versions.
const FormatVersion = 1

// ErrCorruptSnapshot wraps every decoding failure
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Snapshot is everything process_requests needs: the catalogue, the prebuilt
// router with its shortest-path table and the optional render settings.
type Snapshot struct {
	ID        string
	Version   uint64
	Catalogue *catalogue.Catalogue
	Router    *router.TransportRouter
	Render    *renderer.Settings
}

// New wraps the parts into a snapshot with a fresh id.
func New(cat *catalogue.Catalogue, r *router.TransportRouter, render *renderer.Settings) *Snapshot {
	return &Snapshot{
		ID:        uuid.NewString(),
		Version:   FormatVersion,
		Catalogue: cat,
		Router:    r,
		Render:    render,
	}
}
