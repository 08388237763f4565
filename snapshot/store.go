package snapshot

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"

	"github.com/theoremus-urban-solutions/transport-catalogue/catalogue"
)

// Store keeps framed snapshot blobs under a name. A missing name yields an
// error wrapping catalogue.ErrNotFound.
type Store interface {
	Put(ctx context.Context, name string, blob []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
}

var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	if encoder, err = zstd.NewWriter(nil); err != nil {
		panic(fmt.Sprintf("zstd encoder: %v", err))
	}
	if decoder, err = zstd.NewReader(nil); err != nil {
		panic(fmt.Sprintf("zstd decoder: %v", err))
	}
}

const checksumSize = 8

// Save encodes s, compresses it and stores it under name.
func Save(ctx context.Context, store Store, name string, s *Snapshot) error {
	payload := Encode(s)
	blob := make([]byte, checksumSize, checksumSize+len(payload)/2)
	binary.BigEndian.PutUint64(blob, xxhash.Sum64(payload))
	blob = encoder.EncodeAll(payload, blob)
	if err := store.Put(ctx, name, blob); err != nil {
		return fmt.Errorf("save snapshot %q: %w", name, err)
	}
	return nil
}

// Load reads, verifies and decodes the snapshot stored under name.
func Load(ctx context.Context, store Store, name string) (*Snapshot, error) {
	blob, err := store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	if len(blob) < checksumSize {
		return nil, fmt.Errorf("%w: %d byte blob", ErrCorruptSnapshot, len(blob))
	}
	payload, err := decoder.DecodeAll(blob[checksumSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", ErrCorruptSnapshot, err)
	}
	if want := binary.BigEndian.Uint64(blob); xxhash.Sum64(payload) != want {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptSnapshot)
	}
	return Decode(payload)
}

// FileStore treats names as file paths.
type FileStore struct{}

func (FileStore) Put(_ context.Context, name string, blob []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}

func (FileStore) Get(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, catalogue.ErrNotFound)
	}
	return data, err
}

// RedisStore keeps snapshots as plain string values under a key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisStore connects and pings the server.
func NewRedisStore(addr, password string, db int, prefix string, logger *slog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return newRedisStore(client, prefix, logger), nil
}

func newRedisStore(client *redis.Client, prefix string, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: logger.With("component", "snapshot_store"),
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(name string) string {
	return s.prefix + name
}

func (s *RedisStore) Put(ctx context.Context, name string, blob []byte) error {
	start := time.Now()
	if err := s.client.Set(ctx, s.key(name), blob, 0).Err(); err != nil {
		s.logger.Error("snapshot put failed", "key", name, "error", err)
		return err
	}
	s.logger.Debug("snapshot put", "key", name, "size_bytes", len(blob), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (s *RedisStore) Get(ctx context.Context, name string) ([]byte, error) {
	start := time.Now()
	val, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", name, catalogue.ErrNotFound)
	}
	if err != nil {
		s.logger.Error("snapshot get failed", "key", name, "error", err)
		return nil, err
	}
	s.logger.Debug("snapshot get", "key", name, "size_bytes", len(val), "duration_ms", time.Since(start).Milliseconds())
	return val, nil
}
