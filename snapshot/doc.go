// Package snapshot persists a built transport database.
//
// A snapshot holds the catalogue, the router together with its precomputed
// shortest-path table, and the render settings. Encode and Decode convert it
// to and from a protobuf-wire blob without generated code. Save and Load add
// a checksum and zstd compression on top and move the blob through a Store,
// either a local file or a redis key.
//
//	if err := snapshot.Save(ctx, snapshot.FileStore{}, "transport.db", snap); err != nil {
//		return err
//	}
//	snap, err := snapshot.Load(ctx, snapshot.FileStore{}, "transport.db")
package snapshot
