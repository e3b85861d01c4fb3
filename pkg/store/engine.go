// Package store implements the flatkv storage engine: an in-memory
// string-keyed map of serialized payloads kept in sync with a single
// flat backing file on demand.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spaolacci/murmur3"

	"github.com/flatkv/flatkv-go/pkg/cmap"
	"github.com/flatkv/flatkv-go/pkg/codec"
	"github.com/flatkv/flatkv-go/pkg/crypto/adaptive"
)

// Engine is one configured store bound to one backing file.
//
// All operations are synchronous and safe for concurrent use within a
// single process. There is no cross-process coordination: two processes
// writing the same backing file can race.
type Engine struct {
	opts  Options
	path  string
	codec codec.Codec

	// cipher is nil unless encryption is enabled.
	cipher adaptive.Cipher

	entries *cmap.Map[string]

	// mu serializes multi-step sequences (reload-then-mutate deletions,
	// wholesale Load replacement) against each other.
	mu sync.Mutex

	// persistMu serializes snapshot writes: it is held for the duration
	// of the write-and-rename sequence only.
	persistMu sync.Mutex

	// lastSum fingerprints the last content written to or loaded from
	// the backing file, so the watcher can ignore self-writes.
	lastSum atomic.Uint64

	logger  *slog.Logger
	metrics Metrics

	closeOnce sync.Once
}

// New constructs an engine from the given options.
//
// opts is required. When opts.EnableEncryption is set, encryptionKey
// must be non-empty; the AEAD key is derived from it and the configured
// salt. When opts.AutoLoad is set, the backing file is loaded before
// New returns.
func New(opts *Options, encryptionKey []byte) (*Engine, error) {
	if opts == nil {
		return nil, ErrNoOptions
	}

	cfg := *opts
	if cfg.Filename == "" {
		cfg.Filename = DefaultFilename
	}
	if cfg.Codec == nil {
		cfg.Codec = codec.JSON{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	var cipher adaptive.Cipher
	if cfg.EnableEncryption {
		if len(encryptionKey) == 0 {
			return nil, ErrNoEncryptionKey
		}
		salt := cfg.EncryptionSalt
		if salt == "" {
			salt = defaultSalt
		}
		key, err := adaptive.DeriveKey(encryptionKey, []byte(salt))
		if err != nil {
			return nil, fmt.Errorf("store: derive key: %w", err)
		}
		cipher, err = adaptive.NewWithType(key, cfg.CipherAlgorithm)
		if err != nil {
			return nil, fmt.Errorf("store: create cipher: %w", err)
		}
	}

	dir := resolveDir(cfg.Dir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("store: create storage dir: %w", err)
	}

	e := &Engine{
		opts:    cfg,
		path:    filepath.Join(dir, cfg.Filename),
		codec:   cfg.Codec,
		cipher:  cipher,
		entries: cmap.New[string](),
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}

	if cfg.AutoLoad {
		if err := e.Load(context.Background()); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Path returns the resolved backing file path.
func (e *Engine) Path() string { return e.path }

// SetOption configures a single Set call.
type SetOption func(*setConfig)

type setConfig struct {
	breakCycles bool
}

// BreakCycles makes Set drop reference cycles in the value graph during
// serialization instead of failing.
func BreakCycles() SetOption {
	return func(c *setConfig) { c.breakCycles = true }
}

// Set serializes value and stores it under key, replacing any existing
// entry. Cyclic values fail unless BreakCycles is given.
//
// Quirk, kept for compatibility: when the codec produces an empty
// payload the call is a no-op and any existing entry is left untouched.
func (e *Engine) Set(_ context.Context, key string, value any, opts ...SetOption) error {
	if key == "" {
		return ErrEmptyKey
	}
	if value == nil {
		return ErrNilValue
	}

	var cfg setConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var payload string
	var err error
	if cfg.breakCycles {
		payload, err = e.codec.MarshalTolerant(value)
	} else {
		payload, err = e.codec.Marshal(value)
	}
	if err != nil {
		return err
	}
	if payload == "" {
		e.logger.Debug("empty payload, entry left untouched", "key", key)
		return nil
	}

	if e.cipher != nil {
		payload, err = adaptive.EncryptString(e.cipher, payload, nil)
		if err != nil {
			return fmt.Errorf("store: encrypt %q: %w", key, err)
		}
	}

	e.entries.Set(key, payload)
	e.observe("set")
	return nil
}

// Get retrieves the value stored under key, decoded into its natural
// dynamic shape (maps, slices, strings, numbers). Typed access goes
// through GetValue and Query.
func (e *Engine) Get(_ context.Context, key string) (any, error) {
	plain, err := e.payload(key)
	if err != nil {
		return nil, err
	}
	var out any
	if err := e.codec.Unmarshal(plain, &out); err != nil {
		return nil, err
	}
	e.observe("get")
	return out, nil
}

// Has reports whether key exists. It never fails and has no side effects.
func (e *Engine) Has(_ context.Context, key string) bool {
	return e.entries.Has(key)
}

// Keys returns all current keys in ascending lexicographic order.
func (e *Engine) Keys() []string {
	keys := e.entries.Keys()
	sort.Strings(keys)
	return keys
}

// Count returns the current number of entries.
func (e *Engine) Count() int {
	return e.entries.Count()
}

// Clear empties the in-memory store. The backing file is untouched; a
// subsequent Load restores whatever was last persisted.
func (e *Engine) Clear() {
	e.entries.Clear()
	e.observe("clear")
	if e.metrics != nil {
		e.metrics.SetEntryCount(0)
	}
}

// Destroy deletes the backing file if it exists. The in-memory store is
// untouched. A missing file is not an error.
func (e *Engine) Destroy() error {
	if err := os.Remove(e.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: destroy: %w", err)
	}
	e.observe("destroy")
	return nil
}

// Load reads the backing file and replaces the in-memory store with its
// contents. This is a destructive overwrite: unsaved in-memory changes
// are lost. A missing or empty file is a no-op.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reload(ctx)
}

// reload is Load without the sequence lock; callers hold e.mu.
func (e *Engine) reload(_ context.Context) error {
	data, err := os.ReadFile(e.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("store: load: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var doc map[string]string
	if err := e.codec.Unmarshal(string(data), &doc); err != nil {
		return fmt.Errorf("store: load %s: %w", e.path, err)
	}

	e.entries.Replace(doc)
	e.lastSum.Store(murmur3.Sum64(data))
	e.observe("load")
	if e.metrics != nil {
		e.metrics.SetEntryCount(len(doc))
	}

	e.logger.Debug("store loaded", "path", e.path, "entries", len(doc))
	return nil
}

// Persist writes the entire current store to the backing file as one
// snapshot, replacing the file contents wholesale. The write goes to a
// temp file first and is renamed into place, so concurrent readers and
// persisters never observe a torn file.
func (e *Engine) Persist(_ context.Context) error {
	e.persistMu.Lock()
	defer e.persistMu.Unlock()

	start := time.Now()
	snap := e.entries.Snapshot()

	payload, err := e.marshalDocument(snap)
	if err != nil {
		return fmt.Errorf("store: persist: %w", err)
	}
	data := []byte(payload)

	tmp := e.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("store: persist: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("store: persist: write: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("store: persist: sync: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: persist: close: %w", err)
	}
	if err := os.Rename(tmp, e.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: persist: rename: %w", err)
	}

	e.lastSum.Store(murmur3.Sum64(data))
	e.observe("persist")
	if e.metrics != nil {
		e.metrics.ObservePersist(time.Since(start), len(data))
		e.metrics.SetEntryCount(len(snap))
	}

	e.logger.Debug("store persisted",
		"path", e.path,
		"entries", len(snap),
		"bytes", len(data),
		"elapsed", time.Since(start))
	return nil
}

// marshalDocument encodes the outer mapping document, pretty-printed
// when the codec supports it.
func (e *Engine) marshalDocument(snap map[string]string) (string, error) {
	if im, ok := e.codec.(interface {
		MarshalIndent(v any) (string, error)
	}); ok {
		return im.MarshalIndent(snap)
	}
	return e.codec.Marshal(snap)
}

// payload returns the decrypted stored payload for key.
func (e *Engine) payload(key string) (string, error) {
	raw, ok := e.entries.Get(key)
	if !ok {
		return "", fmt.Errorf("store: %q: %w", key, ErrKeyNotFound)
	}
	if e.cipher == nil {
		return raw, nil
	}
	plain, err := adaptive.DecryptString(e.cipher, raw, nil)
	if err != nil {
		return "", fmt.Errorf("store: decrypt %q: %w", key, err)
	}
	return plain, nil
}

// Close releases the engine. With AutoSave set, the store is persisted
// exactly once, even if Close is called repeatedly.
func (e *Engine) Close(ctx context.Context) error {
	var err error
	e.closeOnce.Do(func() {
		if e.opts.AutoSave {
			err = e.Persist(ctx)
		}
		e.logger.Debug("store closed", "path", e.path)
	})
	return err
}
