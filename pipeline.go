package transportcatalogue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/theoremus-urban-solutions/transport-catalogue/handler"
	"github.com/theoremus-urban-solutions/transport-catalogue/reader"
	"github.com/theoremus-urban-solutions/transport-catalogue/renderer"
	"github.com/theoremus-urban-solutions/transport-catalogue/router"
	"github.com/theoremus-urban-solutions/transport-catalogue/snapshot"
)

// MakeBase reads a make_base document from r, builds the catalogue and the
// router and saves the snapshot under the serialization file name.
func MakeBase(ctx context.Context, r io.Reader, store snapshot.Store) (*snapshot.Snapshot, error) {
	doc, err := reader.ReadBase(r)
	if err != nil {
		return nil, err
	}
	cat := doc.Build()
	rt, err := router.New(doc.Routing, cat)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}
	snap := snapshot.New(cat, rt, doc.Render)
	if err := snapshot.Save(ctx, store, doc.Serialization.File, snap); err != nil {
		return nil, err
	}
	slog.Info("base saved",
		"file", doc.Serialization.File,
		"snapshot_id", snap.ID,
		"stops", cat.StopCount(),
		"buses", len(cat.Buses()),
		"edges", rt.Engine().Graph().EdgeCount())
	return snap, nil
}

// ProcessRequests reads a process_requests document from r, loads the
// snapshot it names and writes the answers to w as a JSON array.
func ProcessRequests(ctx context.Context, r io.Reader, w io.Writer, store snapshot.Store) error {
	doc, err := reader.ReadRequests(r)
	if err != nil {
		return err
	}
	h, _, err := Open(ctx, store, doc.Serialization.File, handler.DefaultCacheSize, slog.Default())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(h.AnswerAll(doc.Requests)); err != nil {
		return fmt.Errorf("write answers: %w", err)
	}
	return nil
}

// Open loads the snapshot stored under name and wraps it in a handler.
func Open(ctx context.Context, store snapshot.Store, name string, cacheSize int, logger *slog.Logger) (*handler.Handler, *snapshot.Snapshot, error) {
	snap, err := snapshot.Load(ctx, store, name)
	if err != nil {
		return nil, nil, err
	}
	var m *renderer.MapRenderer
	if snap.Render != nil {
		m = renderer.New(*snap.Render)
	}
	logger.Info("snapshot loaded", "name", name, "snapshot_id", snap.ID, "stops", snap.Catalogue.StopCount())
	return handler.New(snap.Catalogue, snap.Router, m, cacheSize, logger), snap, nil
}
